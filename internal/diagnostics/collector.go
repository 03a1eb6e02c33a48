package diagnostics

import (
	"fmt"
	"sort"
)

// Collector gathers diagnostics for a whole unit, deduplicating by position
// and code so that a node checked twice does not report twice.
type Collector struct {
	file  string
	seen  map[string]bool
	items []*DiagnosticError
}

// NewCollector creates a collector that stamps file onto diagnostics without one.
func NewCollector(file string) *Collector {
	return &Collector{file: file, seen: make(map[string]bool)}
}

// Add records a diagnostic unless an identical one was already recorded.
func (c *Collector) Add(d *DiagnosticError) {
	if d == nil {
		return
	}
	if d.File == "" && c.file != "" {
		d.File = c.file
	}
	key := fmt.Sprintf("%s:%d:%d:%s:%s", d.File, d.Token.Line, d.Token.Column, d.Code, d.Message)
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.items = append(c.items, d)
}

// AddAll records every diagnostic in ds.
func (c *Collector) AddAll(ds ...[]*DiagnosticError) {
	for _, list := range ds {
		for _, d := range list {
			c.Add(d)
		}
	}
}

// Len returns the number of recorded diagnostics.
func (c *Collector) Len() int {
	return len(c.items)
}

// Errors returns the recorded errors sorted by position.
func (c *Collector) Errors() []*DiagnosticError {
	_, errs := Split(c.sorted())
	return errs
}

// Warnings returns the recorded warnings sorted by position.
func (c *Collector) Warnings() []*DiagnosticError {
	warns, _ := Split(c.sorted())
	return warns
}

// HasErrors reports whether any error (not warning) was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if !d.IsWarning() {
			return true
		}
	}
	return false
}

func (c *Collector) sorted() []*DiagnosticError {
	result := make([]*DiagnosticError, len(c.items))
	copy(result, c.items)
	// Stable so that diagnostics at one position keep their report order.
	sort.SliceStable(result, func(i, j int) bool {
		if result[i].File != result[j].File {
			return result[i].File < result[j].File
		}
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}
