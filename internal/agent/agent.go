// Package agent implements the reasoning and tool loop shared by the
// documentation and code lookup agents.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/llm"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/metrics"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/search"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/telemetry"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/tools"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// DefaultMaxIterations bounds reasoning steps per invocation.
const DefaultMaxIterations = 6

// ErrMaxIterations is reported when the model keeps requesting tools past
// the iteration bound.
var ErrMaxIterations = errors.New("agent: max iterations reached")

// Deps are the collaborators an agent needs. Searcher is required for the
// documentation kind and Snippets for the code lookup kind.
type Deps struct {
	Reasoner      llm.Reasoner
	Searcher      search.Searcher
	Snippets      tools.SnippetSource
	Tracer        *telemetry.Tracer
	Metrics       metrics.Recorder
	Logger        *slog.Logger
	MaxIterations int
}

// Agent runs one variant's reasoning and tool loop.
type Agent struct {
	spec          models.AgentSpec
	system        string
	tools         *tools.Registry
	reasoner      llm.Reasoner
	tracer        *telemetry.Tracer
	metrics       metrics.Recorder
	logger        *slog.Logger
	maxIterations int
}

// New builds the agent for spec.Kind.
func New(spec models.AgentSpec, deps Deps) (*Agent, error) {
	if deps.Reasoner == nil {
		return nil, fmt.Errorf("agent %s: reasoner is required", spec.Name)
	}

	a := &Agent{
		spec:          spec,
		reasoner:      deps.Reasoner,
		tracer:        deps.Tracer,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		maxIterations: deps.MaxIterations,
	}

	switch spec.Kind {
	case models.AgentKindDocumentation:
		if deps.Searcher == nil {
			return nil, fmt.Errorf("agent %s: searcher is required", spec.Name)
		}
		a.system = documentationPrompt
		a.tools = tools.DocumentationTools(deps.Searcher)
	case models.AgentKindCodeLookup:
		if deps.Snippets == nil {
			return nil, fmt.Errorf("agent %s: snippet source is required", spec.Name)
		}
		a.system = codeLookupPrompt
		a.tools = tools.CodeLookupTools(deps.Snippets)
	default:
		return nil, fmt.Errorf("agent %s: unknown kind %q", spec.Name, spec.Kind)
	}

	if a.metrics == nil {
		a.metrics = metrics.NoopRecorder{}
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	a.logger = a.logger.With("component", "agent", "agent", spec.Name)
	if a.maxIterations <= 0 {
		a.maxIterations = DefaultMaxIterations
	}
	return a, nil
}

// NewDocumentationAgent builds an agent of the documentation kind.
func NewDocumentationAgent(spec models.AgentSpec, deps Deps) (*Agent, error) {
	spec.Kind = models.AgentKindDocumentation
	return New(spec, deps)
}

// NewCodeLookupAgent builds an agent of the code lookup kind.
func NewCodeLookupAgent(spec models.AgentSpec, deps Deps) (*Agent, error) {
	spec.Kind = models.AgentKindCodeLookup
	return New(spec, deps)
}

// Spec returns the agent's descriptor.
func (a *Agent) Spec() models.AgentSpec {
	return a.spec
}

// Tools returns the schemas offered to the model.
func (a *Agent) Tools() []llm.ToolSpec {
	return a.tools.Specs()
}

type state int

const (
	stateReasoning state = iota
	stateToolExecution
	stateDone
)

// Run answers q. It never returns an error: reasoning failures and the
// iteration bound produce a result with Success false, and tool failures
// are recorded and shown to the model as observations.
func (a *Agent) Run(ctx context.Context, q models.Query) (result models.AgentResult) {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "agent."+a.spec.Name,
		attribute.String("agent.name", a.spec.Name),
		attribute.String("agent.kind", string(a.spec.Kind)),
		attribute.StringSlice("agent.tools", a.tools.Names()),
		attribute.Int("query.length", len(q.Text)),
	)
	defer span.End()

	result = models.AgentResult{Agent: a.spec.Name, Kind: a.spec.Kind}
	defer func() {
		result.Duration = time.Since(start)
		span.SetAttributes(
			attribute.Bool("agent.success", result.Success),
			attribute.Int("agent.iterations", result.Iterations),
			attribute.Int("agent.tool_calls", len(result.ToolCalls)),
			attribute.Int("agent.response_length", len(result.Text)),
		)
		if !result.Success {
			span.RecordError(errors.New(result.Error))
		}
		a.metrics.ObserveAgent(a.spec.Name, metrics.StatusOf(result.Success), result.Duration)
		notify(ctx, Progress{Agent: a.spec.Name, Stage: StageDone, Success: result.Success, Detail: result.Error})
	}()

	conv := llm.Conversation{System: a.system}
	for _, m := range q.History {
		if m.Role == models.RoleAssistant {
			conv.AddAssistant(m.Content)
		} else {
			conv.AddUser(m.Content)
		}
	}
	conv.AddUser(q.Text)

	var step llm.Step
	st := stateReasoning
	for st != stateDone {
		switch st {
		case stateReasoning:
			if result.Iterations >= a.maxIterations {
				result.Error = fmt.Sprintf("%v (%d)", ErrMaxIterations, a.maxIterations)
				a.logger.Warn("iteration bound reached", "iterations", result.Iterations)
				st = stateDone
				continue
			}
			result.Iterations++
			notify(ctx, Progress{Agent: a.spec.Name, Stage: StageReasoning, Iteration: result.Iterations})

			s, err := a.reason(ctx, conv, result.Iterations)
			if err != nil {
				result.Error = fmt.Sprintf("reasoning step %d: %v", result.Iterations, err)
				a.logger.Warn("reasoning failed", "iteration", result.Iterations, "error", err)
				st = stateDone
				continue
			}
			result.TokensIn += s.TokensIn
			result.TokensOut += s.TokensOut
			step = s

			if step.Final() {
				result.Text = strings.TrimSpace(step.Text)
				result.Success = true
				if result.Text == "" {
					a.logger.Warn("final answer is empty", "iteration", result.Iterations)
					span.SetAttributes(attribute.Bool("agent.empty_answer", true))
				}
				st = stateDone
			} else {
				st = stateToolExecution
			}

		case stateToolExecution:
			outputs := make([]llm.ToolOutput, 0, len(step.ToolRequests))
			for _, req := range step.ToolRequests {
				rec, out := a.invoke(ctx, req)
				result.ToolCalls = append(result.ToolCalls, rec)
				outputs = append(outputs, out)
			}
			conv.AddStep(step, outputs)
			st = stateReasoning
		}
	}
	return result
}

func (a *Agent) reason(ctx context.Context, conv llm.Conversation, iteration int) (llm.Step, error) {
	ctx, span := a.tracer.Start(ctx, "agent.reasoning",
		attribute.String("agent.name", a.spec.Name),
		attribute.Int("agent.iteration", iteration),
		attribute.Int("conversation.messages", len(conv.Messages)),
	)
	defer span.End()

	step, err := a.reasoner.Reason(ctx, conv, a.tools.Specs())
	if err != nil {
		span.RecordError(err)
		return llm.Step{}, err
	}
	span.SetAttributes(
		attribute.Int("reasoning.tool_requests", len(step.ToolRequests)),
		attribute.Int64("reasoning.tokens_in", step.TokensIn),
		attribute.Int64("reasoning.tokens_out", step.TokensOut),
	)
	return step, nil
}

func (a *Agent) invoke(ctx context.Context, req llm.ToolRequest) (models.ToolCallRecord, llm.ToolOutput) {
	ctx, span := a.tracer.Start(ctx, "tool."+req.Name,
		attribute.String("agent.name", a.spec.Name),
		attribute.String("tool.name", req.Name),
	)
	defer span.End()
	notify(ctx, Progress{Agent: a.spec.Name, Stage: StageTool, Tool: req.Name})

	start := time.Now()
	out, err := a.tools.Execute(ctx, req.Name, req.Input)
	elapsed := time.Since(start)

	rec := models.ToolCallRecord{
		Tool:       req.Name,
		Input:      append([]byte(nil), req.Input...),
		OutputSize: len(out),
		Summary:    summarize(out, summaryLimit),
		Duration:   elapsed,
		Success:    err == nil,
	}
	output := llm.ToolOutput{RequestID: req.ID, Content: out}
	if err != nil {
		rec.Error = err.Error()
		output.Content = "Error: " + err.Error()
		output.IsError = true
		span.RecordError(err)
		a.logger.Warn("tool failed", "tool", req.Name, "error", err)
	}

	span.SetAttributes(
		attribute.Bool("tool.success", rec.Success),
		attribute.Int("tool.output_size", rec.OutputSize),
	)
	a.metrics.ObserveToolCall(a.spec.Name, req.Name, metrics.StatusOf(rec.Success), elapsed)
	return rec, output
}

const summaryLimit = 200

// summarize collapses whitespace and truncates s to at most limit runes.
func summarize(s string, limit int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}
