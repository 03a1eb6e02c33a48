package pipeline

import (
	"io"
	"log"

	"github.com/google/uuid"
	"github.com/jhump/protoreflect/desc"

	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/config"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/symbols"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// Processor is one stage of the pipeline. Stages record diagnostics in the
// context instead of stopping the pipeline.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// PipelineContext carries one compilation unit through the passes.
type PipelineContext struct {
	// UnitID identifies the unit in logs and in the selector registry.
	UnitID   uuid.UUID
	FilePath string
	Config   *config.BuildConfig

	Program *ast.Program

	// Engine may be shared by several units; Namespace belongs to this unit.
	Engine    *typesystem.Engine
	Namespace *symbols.Namespace

	// Set by the semantic analysis pass.
	Typed *typed.Program
	// ABI name -> exported protobuf descriptor.
	Descriptors map[string]*desc.FileDescriptor
	// Encoded call-site descriptors of every contract call.
	CallSites [][]byte

	Warnings []*diagnostics.DiagnosticError
	Errors   []*diagnostics.DiagnosticError

	Logger *log.Logger
}

// NewPipelineContext prepares a context for program. A nil cfg means the
// default build configuration; a nil engine gets a fresh one.
func NewPipelineContext(program *ast.Program, cfg *config.BuildConfig, engine *typesystem.Engine) *PipelineContext {
	if cfg == nil {
		cfg = config.DefaultBuildConfig()
	}
	if engine == nil {
		engine = typesystem.NewEngine()
	}
	ctx := &PipelineContext{
		UnitID:      uuid.New(),
		Config:      cfg,
		Program:     program,
		Engine:      engine,
		Namespace:   symbols.NewRootNamespace(engine),
		Descriptors: make(map[string]*desc.FileDescriptor),
	}
	if program != nil {
		ctx.FilePath = program.File
	}
	return ctx
}

// Logf logs through the context logger, if any, prefixed with the unit id.
func (ctx *PipelineContext) Logf(format string, args ...interface{}) {
	if ctx.Logger != nil {
		ctx.Logger.Printf("[%s] "+format, append([]interface{}{ctx.UnitID}, args...)...)
	}
}

// Failed reports whether the unit has errors, counting warnings when the
// configuration promotes them.
func (ctx *PipelineContext) Failed() bool {
	if len(ctx.Errors) > 0 {
		return true
	}
	return ctx.Config != nil && ctx.Config.WarningsAsErrors && len(ctx.Warnings) > 0
}

// Report renders the unit's diagnostics to w, honoring the color and
// max_errors settings.
func (ctx *PipelineContext) Report(w io.Writer) error {
	mode := diagnostics.ColorAuto
	errors := ctx.Errors
	if ctx.Config != nil {
		mode = diagnostics.ColorMode(ctx.Config.Color)
		if ctx.Config.MaxErrors > 0 && len(errors) > ctx.Config.MaxErrors {
			errors = errors[:ctx.Config.MaxErrors]
		}
	}
	return diagnostics.NewRenderer(w, mode).Render(ctx.Warnings, errors)
}
