// Package aggregate merges agent results into one response.
package aggregate

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

// separator joins successful payloads.
const separator = "\n\n"

// EmptyAnswer is returned when agents succeeded but produced no text.
const EmptyAnswer = "The agents completed but found nothing to report for this query."

// Metadata describes how a combined response was produced.
type Metadata struct {
	// Contributors names agents whose payload is in the response, in order.
	Contributors []string
	// Failed maps agent name to error detail.
	Failed map[string]string
	// Timings holds each agent's elapsed time, keyed by name.
	Timings map[string]time.Duration
	// SumAgentTime may exceed wall-clock time since agents run concurrently.
	SumAgentTime time.Duration
	// Degraded is true when no agent succeeded.
	Degraded bool
}

// Combine merges results, which must be in router order. It never fails:
// when every agent failed the text is a user-facing fallback message and
// Degraded is set.
func Combine(results []models.AgentResult) (string, Metadata) {
	meta := Metadata{
		Failed:  make(map[string]string),
		Timings: make(map[string]time.Duration, len(results)),
	}

	var parts []string
	succeeded := 0
	for _, r := range results {
		meta.Timings[r.Agent] = r.Duration
		meta.SumAgentTime += r.Duration

		if !r.Success {
			detail := r.Error
			if detail == "" {
				detail = "unknown error"
			}
			meta.Failed[r.Agent] = detail
			continue
		}
		succeeded++
		if text := strings.TrimSpace(r.Text); text != "" {
			parts = append(parts, text)
			meta.Contributors = append(meta.Contributors, r.Agent)
		}
	}

	switch {
	case succeeded == 0:
		meta.Degraded = true
		return fallback(meta.Failed), meta
	case len(parts) == 0:
		return EmptyAnswer, meta
	default:
		return strings.Join(parts, separator), meta
	}
}

// ErrorDetail summarizes failures for QueryResult.Error. It is empty
// unless the result is degraded.
func (m Metadata) ErrorDetail() string {
	if !m.Degraded {
		return ""
	}
	if len(m.Failed) == 0 {
		return "no agents were run"
	}
	names := failedNames(m.Failed)
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n + ": " + m.Failed[n]
	}
	return "all agents failed: " + strings.Join(parts, "; ")
}

func fallback(failed map[string]string) string {
	if len(failed) == 0 {
		return "Sorry, no agent was available to answer this query."
	}
	return fmt.Sprintf("Sorry, I couldn't answer this query right now. The %s agent(s) failed; please try again shortly.",
		strings.Join(failedNames(failed), " and "))
}

func failedNames(failed map[string]string) []string {
	names := make([]string, 0, len(failed))
	for n := range failed {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
