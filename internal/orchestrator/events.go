package orchestrator

import (
	"time"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/agent"
)

// EventType represents the type of status event.
type EventType string

const (
	// EventRouted is sent once the agents for a query are chosen.
	EventRouted EventType = "routed"
	// EventAgentProgress reports a reasoning step or tool call.
	EventAgentProgress EventType = "agent_progress"
	// EventAgentCompleted indicates an agent finished successfully.
	EventAgentCompleted EventType = "agent_completed"
	// EventAgentFailed indicates an agent finished without an answer.
	EventAgentFailed EventType = "agent_failed"
	// EventDone is sent after aggregation.
	EventDone EventType = "done"
)

// StatusEvent is a live update for callers that show progress.
type StatusEvent struct {
	Type EventType
	// Agent is the agent name for agent events.
	Agent string
	// Agents lists the routed agents for EventRouted.
	Agents []string
	// Stage and Tool detail EventAgentProgress.
	Stage agent.Stage
	Tool  string
	// Message is a short human-readable description.
	Message   string
	Timestamp time.Time
}

// StatusFunc receives status events. It may be called from several
// goroutines at once.
type StatusFunc func(StatusEvent)

func (f StatusFunc) emit(e StatusEvent) {
	if f == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	f(e)
}

// progressEvent maps an agent progress report to a status event.
func progressEvent(p agent.Progress) StatusEvent {
	switch p.Stage {
	case agent.StageDone:
		if p.Success {
			return StatusEvent{Type: EventAgentCompleted, Agent: p.Agent, Stage: p.Stage, Message: p.Agent + " finished"}
		}
		return StatusEvent{Type: EventAgentFailed, Agent: p.Agent, Stage: p.Stage, Message: p.Agent + " failed: " + p.Detail}
	case agent.StageTool:
		return StatusEvent{Type: EventAgentProgress, Agent: p.Agent, Stage: p.Stage, Tool: p.Tool, Message: p.Agent + " calling " + p.Tool}
	default:
		return StatusEvent{Type: EventAgentProgress, Agent: p.Agent, Stage: p.Stage, Message: p.Agent + " thinking"}
	}
}
