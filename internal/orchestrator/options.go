package orchestrator

import (
	"log/slog"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/metrics"
	"github.com/velloreakash21/multi-agent-code-assistant/internal/telemetry"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// Config holds the orchestrator's collaborators. Agents is required; the
// rest default to no-ops.
type Config struct {
	// Agents maps each routable kind to the runner that serves it.
	Agents  map[models.AgentKind]Runner
	Tracer  *telemetry.Tracer
	Metrics metrics.Recorder
	Logger  *slog.Logger
}

// AnswerOption configures a single Answer call.
type AnswerOption func(*answerOptions)

type answerOptions struct {
	history []models.Message
	status  StatusFunc
}

// WithHistory supplies prior conversation turns to every agent.
func WithHistory(history []models.Message) AnswerOption {
	return func(o *answerOptions) { o.history = history }
}

// WithStatus registers a callback for live progress.
func WithStatus(fn StatusFunc) AnswerOption {
	return func(o *answerOptions) { o.status = fn }
}
