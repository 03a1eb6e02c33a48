package registry

import (
	"errors"

	"github.com/funvibe/contractc/internal/abi"
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/pipeline"
	"github.com/funvibe/contractc/internal/token"
)

// SelectorRegistryProcessor records the selector of every ABI method of the
// unit and reports collisions. Without a Registry it opens selector_db for
// the duration of the pass, and does nothing when selector_db is empty.
type SelectorRegistryProcessor struct {
	Registry *SelectorRegistry
}

func (srp *SelectorRegistryProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Typed == nil {
		return ctx
	}
	reg := srp.Registry
	if reg == nil {
		if ctx.Config == nil || ctx.Config.SelectorDB == "" {
			return ctx
		}
		var err error
		reg, err = Open(ctx.Config.SelectorDB)
		if err != nil {
			ctx.Errors = append(ctx.Errors, diagnostics.NewInternalError(token.Token{File: ctx.FilePath}, err.Error()))
			return ctx
		}
		defer reg.Close()
	}

	recorded := 0
	for _, name := range ctx.Typed.AbiNames() {
		for _, m := range ctx.Typed.Abis[name] {
			signature, err := abi.SelectorName(ctx.Engine, m)
			if err != nil {
				// Reported by the resolver at call sites.
				continue
			}
			sel, _ := abi.Selector(ctx.Engine, m)
			err = reg.Record(ctx.UnitID, name, m.Name.Value, signature, sel)
			var collision *CollisionError
			switch {
			case errors.As(err, &collision):
				ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA022, m.Name.Token,
					"%s\nhelp: rename one of the methods", collision.Error()))
			case err != nil:
				ctx.Errors = append(ctx.Errors, diagnostics.NewInternalError(m.Name.Token, err.Error()))
			default:
				recorded++
			}
		}
	}
	ctx.Logf("recorded %d selector(s)", recorded)
	return ctx
}
