// Package tools binds tool providers to the schemas the model sees.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/velloreakash21/multi-agent-code-assistant/internal/llm"
)

// Tool is one model-callable capability.
type Tool struct {
	Spec llm.ToolSpec
	Run  func(ctx context.Context, input json.RawMessage) (string, error)
}

// Registry is an ordered set of tools addressed by name.
type Registry struct {
	order []string
	tools map[string]Tool
}

// NewRegistry creates a registry. Later tools with a duplicate name replace
// earlier ones but keep the original position.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		if _, ok := r.tools[t.Spec.Name]; !ok {
			r.order = append(r.order, t.Spec.Name)
		}
		r.tools[t.Spec.Name] = t
	}
	return r
}

// Specs returns the tool schemas in registration order.
func (r *Registry) Specs() []llm.ToolSpec {
	if r == nil {
		return nil
	}
	specs := make([]llm.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec)
	}
	return specs
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.order...)
}

// Execute runs a tool by name with the given JSON input.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) (string, error) {
	if r == nil {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	t, ok := r.tools[name]
	if !ok {
		return "", fmt.Errorf("unknown tool: %s", name)
	}
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	return t.Run(ctx, input)
}

func decode(input json.RawMessage, v any) error {
	if err := json.Unmarshal(input, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func encode(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
