// Package contractc runs the semantic passes of the compiler over parsed
// compilation units.
package contractc

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/funvibe/contractc/internal/abi"
	"github.com/funvibe/contractc/internal/analyzer"
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/pipeline"
	"github.com/funvibe/contractc/internal/registry"
	"github.com/funvibe/contractc/internal/typesystem"
)

// Checker type checks units against one build configuration. Units checked
// by the same Checker share a type engine.
type Checker struct {
	cfg    *config.BuildConfig
	engine *typesystem.Engine
	logger *log.Logger
}

// New creates a checker. A nil cfg means the default build configuration.
func New(cfg *config.BuildConfig) *Checker {
	if cfg == nil {
		cfg = config.DefaultBuildConfig()
	}
	return &Checker{cfg: cfg, engine: typesystem.NewEngine()}
}

// NewFromFile creates a checker configured by the YAML file at path.
func NewFromFile(path string) (*Checker, error) {
	cfg, err := config.LoadBuildConfig(path)
	if err != nil {
		return nil, err
	}
	return New(cfg), nil
}

// SetLogger enables pass logging.
func (c *Checker) SetLogger(l *log.Logger) {
	c.logger = l
}

func (c *Checker) Engine() *typesystem.Engine {
	return c.engine
}

func (c *Checker) newContext(program *ast.Program) *pipeline.PipelineContext {
	ctx := pipeline.NewPipelineContext(program, c.cfg, c.engine)
	ctx.Logger = c.logger
	return ctx
}

// analysisPipeline holds the passes that only touch their own unit.
func analysisPipeline() *pipeline.Pipeline {
	return pipeline.New(
		&analyzer.SemanticAnalyzerProcessor{},
		&abi.DescriptorProcessor{},
		&abi.CallSiteProcessor{},
	)
}

// Check runs every pass over program. Diagnostics are in the returned
// context; Failed reports whether the unit is rejected.
func (c *Checker) Check(program *ast.Program) *pipeline.PipelineContext {
	ctx := analysisPipeline().Run(c.newContext(program))
	return (&registry.SelectorRegistryProcessor{}).Process(ctx)
}

// CheckAll checks several units concurrently. Results are in the order of
// programs. Selector registration runs afterwards against one registry, a
// unit at a time in that order, so a collision is reported against the later
// unit, also with an in-memory selector_db.
func (c *Checker) CheckAll(ctx context.Context, programs []*ast.Program) ([]*pipeline.PipelineContext, error) {
	results := make([]*pipeline.PipelineContext, len(programs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, program := range programs {
		i, program := i, program
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if program == nil {
				return fmt.Errorf("unit %d: nil program", i)
			}
			results[i] = analysisPipeline().Run(c.newContext(program))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if c.cfg.SelectorDB == "" {
		return results, nil
	}
	reg, err := registry.Open(c.cfg.SelectorDB)
	if err != nil {
		return nil, err
	}
	defer reg.Close()
	srp := &registry.SelectorRegistryProcessor{Registry: reg}
	for i := range results {
		results[i] = srp.Process(results[i])
	}
	return results, nil
}
