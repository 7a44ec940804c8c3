// Package metrics defines the metric hooks the orchestrator and agents call.
package metrics

import "time"

// Status labels.
const (
	StatusSuccess  = "success"
	StatusFailure  = "failure"
	StatusDegraded = "degraded"
)

// Recorder receives query, agent and tool observations.
type Recorder interface {
	ObserveQuery(status string, duration time.Duration)
	ObserveAgent(agent string, status string, duration time.Duration)
	ObserveToolCall(agent string, tool string, status string, duration time.Duration)
}

// NoopRecorder discards every observation.
type NoopRecorder struct{}

func (NoopRecorder) ObserveQuery(string, time.Duration)                    {}
func (NoopRecorder) ObserveAgent(string, string, time.Duration)            {}
func (NoopRecorder) ObserveToolCall(string, string, string, time.Duration) {}

// StatusOf maps a success flag to a status label.
func StatusOf(ok bool) string {
	if ok {
		return StatusSuccess
	}
	return StatusFailure
}
