package abi

import (
	"github.com/funvibe/contractc/internal/diagnostics"
	"github.com/funvibe/contractc/internal/pipeline"
	"github.com/funvibe/contractc/internal/typed"
	"github.com/funvibe/contractc/internal/typesystem"
)

// DescriptorProcessor exports a protobuf descriptor for every ABI declared
// in the unit.
type DescriptorProcessor struct{}

func (dp *DescriptorProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Typed == nil {
		return ctx
	}
	for _, name := range ctx.Typed.AbiNames() {
		methods := ctx.Typed.Abis[name]
		fd, err := Describe(ctx.Engine, name, methods)
		if err != nil {
			ctx.Errors = append(ctx.Errors, diagnostics.NewError(diagnostics.ErrA003, methods[0].Span,
				"cannot export abi `%s`: %v", name, err))
			continue
		}
		ctx.Descriptors[name] = fd
	}
	return ctx
}

// CallSiteProcessor encodes a call-site descriptor for every contract call
// in the unit, for the code generator.
type CallSiteProcessor struct{}

func (cp *CallSiteProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Typed == nil {
		return ctx
	}
	for _, fn := range ctx.Typed.Bodies() {
		typed.Inspect(fn.Body, func(e *typed.Expression) bool {
			app, ok := e.Variant.(typed.FunctionApplication)
			if !ok || app.Selector == nil {
				return true
			}
			data, err := EncodeCallSite(NewCallSite(app, callerAddress(ctx.Engine, app.Selector.ContractAddress)))
			if err != nil {
				ctx.Errors = append(ctx.Errors, diagnostics.NewInternalError(e.Span, err.Error()))
				return true
			}
			ctx.CallSites = append(ctx.CallSites, data)
			return true
		})
	}
	ctx.Logf("encoded %d contract call site(s)", len(ctx.CallSites))
	return ctx
}

// callerAddress is the statically known address of a contract caller, or
// empty when the address is only known at run time.
func callerAddress(engine *typesystem.Engine, receiver *typed.Expression) string {
	if receiver == nil {
		return ""
	}
	if cc, ok := engine.LookUp(receiver.ReturnType).(typesystem.ContractCaller); ok && cc.Address != nil {
		return *cc.Address
	}
	return ""
}
