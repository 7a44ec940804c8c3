package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
)

// AnthropicReasoner implements Reasoner with the Claude Messages API.
type AnthropicReasoner struct {
	client *Client
}

// NewAnthropicReasoner creates a reasoner backed by client.
func NewAnthropicReasoner(client *Client) *AnthropicReasoner {
	return &AnthropicReasoner{client: client}
}

// Reason makes one Messages API call.
func (r *AnthropicReasoner) Reason(ctx context.Context, conv Conversation, tools []ToolSpec) (Step, error) {
	params := anthropic.MessageNewParams{
		Model:     r.client.Model(),
		MaxTokens: r.client.maxTokens,
		Messages:  toMessageParams(conv.Messages),
	}
	if conv.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: conv.System}}
	}
	if len(tools) > 0 {
		params.Tools = toToolParams(tools)
	}

	resp, err := r.client.sdk().Messages.New(ctx, params)
	if err != nil {
		return Step{}, fmt.Errorf("messages API call failed: %w", err)
	}

	r.client.Tracker().Add(resp.Usage.InputTokens, resp.Usage.OutputTokens)

	step := Step{
		TokensIn:  resp.Usage.InputTokens,
		TokensOut: resp.Usage.OutputTokens,
	}
	var text strings.Builder
	for _, block := range resp.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
		case anthropic.ToolUseBlock:
			step.ToolRequests = append(step.ToolRequests, ToolRequest{
				ID:    variant.ID,
				Name:  variant.Name,
				Input: variant.Input,
			})
		}
	}
	step.Text = text.String()
	return step, nil
}

func toMessageParams(msgs []Message) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		var blocks []anthropic.ContentBlockParamUnion
		if m.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(m.Text))
		}
		for _, req := range m.ToolRequests {
			blocks = append(blocks, anthropic.NewToolUseBlock(req.ID, rawInput(req.Input), req.Name))
		}
		for _, res := range m.ToolOutputs {
			blocks = append(blocks, anthropic.NewToolResultBlock(res.RequestID, res.Content, res.IsError))
		}
		if len(blocks) == 0 {
			continue
		}

		if m.Role == RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

// rawInput keeps tool input as JSON when echoing it back to the API.
func rawInput(in json.RawMessage) any {
	if len(in) == 0 {
		return map[string]any{}
	}
	return in
}

func toToolParams(tools []ToolSpec) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		props := t.Properties
		if props == nil {
			props = map[string]any{}
		}
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        t.Name,
				Description: anthropic.String(t.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: props,
					Required:   t.Required,
				},
			},
		})
	}
	return out
}
