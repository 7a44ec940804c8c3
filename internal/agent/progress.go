package agent

import "context"

// Stage names the step an agent is in when it reports progress.
type Stage string

const (
	StageReasoning Stage = "reasoning"
	StageTool      Stage = "tool"
	StageDone      Stage = "done"
)

// Progress is a live status update from a running agent.
type Progress struct {
	Agent     string
	Stage     Stage
	Iteration int
	Tool      string
	Success   bool
	Detail    string
}

type progressKey struct{}

// WithProgress returns a context whose agents report progress to fn.
// fn may be called from several goroutines at once.
func WithProgress(ctx context.Context, fn func(Progress)) context.Context {
	if fn == nil {
		return ctx
	}
	return context.WithValue(ctx, progressKey{}, fn)
}

func notify(ctx context.Context, p Progress) {
	if fn, ok := ctx.Value(progressKey{}).(func(Progress)); ok {
		fn(p)
	}
}
