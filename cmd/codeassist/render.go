package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/orchestrator"
	"github.com/velloreakash21/multi-agent-code-assistant/pkg/models"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

// statusLine formats a live orchestrator event for the terminal.
func statusLine(e orchestrator.StatusEvent) string {
	switch e.Type {
	case orchestrator.EventRouted:
		return fmt.Sprintf("%s routing to %s", color.CyanString("→"), strings.Join(e.Agents, ", "))
	case orchestrator.EventAgentCompleted:
		return fmt.Sprintf("%s %s", color.GreenString("✓"), e.Message)
	case orchestrator.EventAgentFailed:
		return fmt.Sprintf("%s %s", color.RedString("✗"), e.Message)
	case orchestrator.EventDone:
		return fmt.Sprintf("%s %s", color.CyanString("■"), e.Message)
	default:
		return fmt.Sprintf("%s %s", color.YellowString("·"), e.Message)
	}
}

// renderTimings tabulates per-agent outcomes with the phase totals.
func renderTimings(res *models.QueryResult) string {
	t := newTable("Agent", "Status", "Time", "Tools", "Steps")
	for _, ar := range res.AgentResults {
		status := "ok"
		if !ar.Success {
			status = "failed"
		}
		tools := fmt.Sprintf("%d", len(ar.ToolCalls))
		if n := ar.FailedToolCalls(); n > 0 {
			tools = fmt.Sprintf("%d (%d failed)", len(ar.ToolCalls), n)
		}
		t.Row(ar.Agent, status, formatDuration(ar.Duration), tools, fmt.Sprintf("%d", ar.Iterations))
	}

	var b strings.Builder
	b.WriteString(t.String())
	b.WriteString("\n")
	fmt.Fprintf(&b, "route %s · agents %s · aggregate %s · total %s\n",
		formatDuration(res.RouteDuration),
		formatDuration(res.AgentsDuration),
		formatDuration(res.AggregateDuration),
		formatDuration(res.TotalDuration),
	)
	fmt.Fprintf(&b, "trace %s\n", res.TraceID)
	return b.String()
}

// renderSnippetList tabulates search results without their code.
func renderSnippetList(list []models.Snippet) string {
	if len(list) == 0 {
		return "No snippets found.\n"
	}
	t := newTable("ID", "Title", "Language", "Framework", "Category")
	for _, sn := range list {
		t.Row(fmt.Sprintf("%d", sn.ID), sn.Title, sn.Language, sn.Framework, sn.Category)
	}
	return t.String() + "\n"
}

// renderSnippet prints one snippet in full.
func renderSnippet(sn *models.Snippet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", color.New(color.Bold).Sprintf("#%d", sn.ID), sn.Title)
	fmt.Fprintf(&b, "language: %s\n", sn.Language)
	if sn.Framework != "" {
		fmt.Fprintf(&b, "framework: %s\n", sn.Framework)
	}
	fmt.Fprintf(&b, "category: %s\n", sn.Category)
	if sn.Difficulty != "" {
		fmt.Fprintf(&b, "difficulty: %s\n", sn.Difficulty)
	}
	if sn.Tags != "" {
		fmt.Fprintf(&b, "tags: %s\n", sn.Tags)
	}
	if sn.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", sn.Description)
	}
	fmt.Fprintf(&b, "\n%s\n", strings.TrimRight(sn.Code, "\n"))
	return b.String()
}

// renderFacets tabulates name/count pairs.
func renderFacets(label string, facets []models.FacetCount) string {
	if len(facets) == 0 {
		return "No snippets stored.\n"
	}
	t := newTable(label, "Snippets")
	for _, f := range facets {
		t.Row(f.Name, fmt.Sprintf("%d", f.Count))
	}
	return t.String() + "\n"
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.Round(time.Microsecond).String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
