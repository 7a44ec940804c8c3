package telemetry

import (
	"context"
	"log/slog"
	"sync/atomic"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// guardedExporter forwards batches to the real exporter until one fails.
// After the first failure it logs once and drops every later batch, so the
// rest of the process keeps running as if tracing were a no-op.
type guardedExporter struct {
	next   sdktrace.SpanExporter
	logger *slog.Logger
	failed atomic.Bool
	drops  atomic.Int64
}

func newGuardedExporter(next sdktrace.SpanExporter, logger *slog.Logger) *guardedExporter {
	return &guardedExporter{next: next, logger: logger}
}

func (g *guardedExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if g.failed.Load() {
		g.drops.Add(int64(len(spans)))
		return nil
	}
	if err := g.next.ExportSpans(ctx, spans); err != nil {
		if g.failed.CompareAndSwap(false, true) {
			g.logger.Warn("span export failed, disabling trace export",
				"spans", len(spans), "error", err)
		}
		g.drops.Add(int64(len(spans)))
	}
	return nil
}

func (g *guardedExporter) Shutdown(ctx context.Context) error {
	if err := g.next.Shutdown(ctx); err != nil {
		g.logger.Debug("exporter shutdown", "error", err)
	}
	if n := g.drops.Load(); n > 0 {
		g.logger.Info("spans dropped after export failure", "count", n)
	}
	return nil
}

func (g *guardedExporter) degraded() bool {
	return g.failed.Load()
}
