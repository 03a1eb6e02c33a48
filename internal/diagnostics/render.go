package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ColorMode selects whether rendered diagnostics use ANSI colors.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiYellow = "\033[33m"
	ansiDim    = "\033[2m"
)

// Renderer writes diagnostics in a compiler-style text format.
type Renderer struct {
	w     io.Writer
	color bool
}

// NewRenderer creates a renderer for w. In ColorAuto mode colors are enabled
// only when w is a terminal.
func NewRenderer(w io.Writer, mode ColorMode) *Renderer {
	color := false
	switch mode {
	case ColorAlways:
		color = true
	case ColorNever:
		color = false
	default:
		if f, ok := w.(*os.File); ok {
			color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
	}
	return &Renderer{w: w, color: color}
}

// Render writes every diagnostic followed by a summary line.
func (r *Renderer) Render(warnings, errors []*DiagnosticError) error {
	for _, d := range warnings {
		if err := r.renderOne(d); err != nil {
			return err
		}
	}
	for _, d := range errors {
		if err := r.renderOne(d); err != nil {
			return err
		}
	}
	if len(warnings) == 0 && len(errors) == 0 {
		return nil
	}
	summary := fmt.Sprintf("%d error(s), %d warning(s)", len(errors), len(warnings))
	_, err := fmt.Fprintln(r.w, r.paint(ansiBold, summary))
	return err
}

func (r *Renderer) renderOne(d *DiagnosticError) error {
	label := d.Severity.String()
	col := ansiRed
	if d.IsWarning() {
		col = ansiYellow
	}
	head := fmt.Sprintf("%s[%s]", label, d.Code)
	title := d.Title()
	if title == "" {
		title = string(d.Code)
	}
	loc := d.Token.String()
	if d.File != "" && d.Token.File == "" {
		loc = d.File + ":" + loc
	}
	if _, err := fmt.Fprintf(r.w, "%s: %s\n  %s %s\n", r.paint(col+ansiBold, head), title, r.paint(ansiDim, "-->"), loc); err != nil {
		return err
	}
	for _, line := range strings.Split(d.Message, "\n") {
		if _, err := fmt.Fprintf(r.w, "   | %s\n", line); err != nil {
			return err
		}
	}
	if d.Token.Lexeme != "" {
		if _, err := fmt.Fprintf(r.w, "   | %s\n", r.paint(ansiDim, d.Token.Lexeme)); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) paint(code, s string) string {
	if !r.color {
		return s
	}
	return code + s + ansiReset
}
