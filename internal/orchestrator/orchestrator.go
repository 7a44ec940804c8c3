package orchestrator

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/agent"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/aggregate"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/metrics"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/router"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/telemetry"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// ErrRoutingDefect means the router selected an agent nobody serves, or
// selected none. It is a wiring bug, never a runtime condition.
var ErrRoutingDefect = errors.New("orchestrator: routing defect")

// Runner is one agent as seen by the orchestrator.
type Runner interface {
	Spec() models.AgentSpec
	Run(ctx context.Context, q models.Query) models.AgentResult
}

// Orchestrator answers queries. It is safe for concurrent use.
type Orchestrator struct {
	agents  map[models.AgentKind]Runner
	tracer  *telemetry.Tracer
	metrics metrics.Recorder
	logger  *slog.Logger
}

// New validates that every agent the router can select has a runner.
func New(cfg Config) (*Orchestrator, error) {
	for _, spec := range router.Specs() {
		if _, ok := cfg.Agents[spec.Kind]; !ok {
			return nil, fmt.Errorf("%w: no runner for %s agent", ErrRoutingDefect, spec.Kind)
		}
	}

	o := &Orchestrator{
		agents:  cfg.Agents,
		tracer:  cfg.Tracer,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
	}
	if o.metrics == nil {
		o.metrics = metrics.NoopRecorder{}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.logger = o.logger.With("component", "orchestrator")
	return o, nil
}

// Answer routes text, runs the selected agents concurrently and combines
// their output. Agent failures never produce an error: they are reported in
// the result. Only ErrRoutingDefect is returned.
//
// Agents are not interrupted when ctx is cancelled; a caller that wants a
// timeout should stop waiting and discard the result.
func (o *Orchestrator) Answer(ctx context.Context, text string, opts ...AnswerOption) (*models.QueryResult, error) {
	var ao answerOptions
	for _, opt := range opts {
		opt(&ao)
	}

	start := time.Now()
	id := uuid.New()
	ctx = telemetry.WithTraceID(ctx, id)
	q := models.Query{
		Text:    text,
		TraceID: hex.EncodeToString(id[:]),
		History: ao.history,
	}

	ctx, root := o.tracer.Start(ctx, "code_assistant_query",
		attribute.String("query.text", truncate(text, 256)),
		attribute.Int("query.length", len(text)),
		attribute.Int("query.history", len(q.History)),
	)
	defer root.End()

	result := &models.QueryResult{Query: text, TraceID: q.TraceID}
	logger := o.logger.With("trace_id", q.TraceID)

	// 1. Route
	var decision router.Decision
	routeStart := time.Now()
	_ = o.tracer.WithSpan(ctx, "route", func(_ context.Context, span *telemetry.Span) error {
		decision = router.Classify(text)
		span.SetAttributes(
			attribute.StringSlice("route.agents", router.Names(decision.Agents)),
			attribute.String("route.matched_explanatory", decision.MatchedExplanatory),
			attribute.String("route.matched_code", decision.MatchedCode),
			attribute.Bool("route.fallback", decision.Fallback),
		)
		return nil
	})
	result.RouteDuration = time.Since(routeStart)

	runners, err := o.resolve(decision.Agents)
	if err != nil {
		root.RecordError(err)
		logger.Error("routing defect", "error", err)
		return nil, err
	}
	ao.status.emit(StatusEvent{
		Type:    EventRouted,
		Agents:  router.Names(decision.Agents),
		Message: "routing to " + strings.Join(router.Names(decision.Agents), ", "),
	})

	// 2. Run agents
	var results []models.AgentResult
	agentsStart := time.Now()
	_ = o.tracer.WithSpan(ctx, "agents_parallel", func(ctx context.Context, span *telemetry.Span) error {
		results = o.runAgents(ctx, q, runners, ao.status)
		succeeded := 0
		var sum time.Duration
		for _, r := range results {
			sum += r.Duration
			if r.Success {
				succeeded++
			}
		}
		span.SetAttributes(
			attribute.Int("agents.count", len(results)),
			attribute.Int("agents.succeeded", succeeded),
			attribute.Int64("agents.sum_duration_ms", sum.Milliseconds()),
		)
		return nil
	})
	result.AgentsDuration = time.Since(agentsStart)

	// 3. Aggregate
	var meta aggregate.Metadata
	aggStart := time.Now()
	_ = o.tracer.WithSpan(ctx, "aggregate", func(_ context.Context, span *telemetry.Span) error {
		result.Response, meta = aggregate.Combine(results)
		span.SetAttributes(
			attribute.StringSlice("aggregate.contributors", meta.Contributors),
			attribute.Int("aggregate.failed", len(meta.Failed)),
			attribute.Bool("aggregate.degraded", meta.Degraded),
			attribute.Int("aggregate.response_length", len(result.Response)),
		)
		return nil
	})
	result.AggregateDuration = time.Since(aggStart)

	result.AgentResults = results
	result.Contributors = meta.Contributors
	result.Error = meta.ErrorDetail()
	result.TotalDuration = time.Since(start)

	root.SetAttributes(
		attribute.String("trace.query_id", q.TraceID),
		attribute.Int64("query.total_duration_ms", result.TotalDuration.Milliseconds()),
		attribute.Bool("query.degraded", meta.Degraded),
	)

	status := metrics.StatusSuccess
	if meta.Degraded {
		status = metrics.StatusDegraded
	}
	o.metrics.ObserveQuery(status, result.TotalDuration)

	ao.status.emit(StatusEvent{Type: EventDone, Message: fmt.Sprintf("answered in %s", result.TotalDuration.Round(time.Millisecond))})
	logger.Info("query answered",
		"agents", router.Names(decision.Agents),
		"contributors", meta.Contributors,
		"degraded", meta.Degraded,
		"duration", result.TotalDuration,
	)
	return result, nil
}

func (o *Orchestrator) resolve(specs []models.AgentSpec) ([]Runner, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("%w: router selected no agents", ErrRoutingDefect)
	}
	runners := make([]Runner, 0, len(specs))
	for _, spec := range specs {
		r, ok := o.agents[spec.Kind]
		if !ok || r == nil {
			return nil, fmt.Errorf("%w: no runner for %s agent", ErrRoutingDefect, spec.Kind)
		}
		runners = append(runners, r)
	}
	return runners, nil
}

// runAgents runs every runner concurrently and waits for all of them.
// Results keep the runners' order.
func (o *Orchestrator) runAgents(ctx context.Context, q models.Query, runners []Runner, status StatusFunc) []models.AgentResult {
	ctx = context.WithoutCancel(ctx)
	if status != nil {
		ctx = agent.WithProgress(ctx, func(p agent.Progress) {
			status.emit(progressEvent(p))
		})
	}

	results := make([]models.AgentResult, len(runners))
	var g errgroup.Group
	for i, r := range runners {
		i, r := i, r
		g.Go(func() error {
			results[i] = o.runOne(ctx, r, q)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (o *Orchestrator) runOne(ctx context.Context, r Runner, q models.Query) (res models.AgentResult) {
	spec := r.Spec()
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			o.logger.Error("agent panicked", "agent", spec.Name, "panic", p)
			res = models.AgentResult{
				Agent:    spec.Name,
				Kind:     spec.Kind,
				Duration: time.Since(start),
				Error:    fmt.Sprintf("agent panicked: %v", p),
			}
		}
	}()

	res = r.Run(ctx, q)
	if res.Agent == "" {
		res.Agent = spec.Name
	}
	return res
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
