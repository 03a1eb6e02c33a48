package pipeline

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		before := len(ctx.Errors)
		ctx = processor.Process(ctx)
		// Continue on errors so that later passes still report what they
		// can check.
		ctx.Logf("%T: %d new error(s)", processor, len(ctx.Errors)-before)
	}
	return ctx
}
