package analyzer

import (
	"github.com/funvibe/contractc/internal/ast"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/pipeline"
	"github.com/funvibe/contractc/internal/token"
	"github.com/funvibe/contractc/internal/typed"
)

type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}

	analyzer := New(ctx.Engine, ctx.Namespace)
	analyzer.SetLogger(ctx.Logger)
	if ctx.Config != nil {
		purity, ok := ast.ParsePurity(ctx.Config.Purity)
		if !ok {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA003, token.Token{File: ctx.FilePath},
				"unknown purity %q in build configuration", ctx.Config.Purity))
		}
		analyzer.SetDefaultPurity(purity)
	}

	program, warnings, errors := analyzer.Analyze(ctx.Program)
	ctx.Typed = program
	ctx.Warnings = append(ctx.Warnings, warnings...)
	ctx.Errors = append(ctx.Errors, errors...)

	if ctx.Logger != nil && program != nil {
		for _, fn := range program.Bodies() {
			ctx.Logf("lowered %s", typed.SprintFunction(fn, ctx.Engine))
		}
	}
	return ctx
}
