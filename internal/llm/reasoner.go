package llm

import (
	"context"
	"encoding/json"
)

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolSpec describes a tool the model may call.
type ToolSpec struct {
	Name        string
	Description string
	// Properties is the JSON schema "properties" object.
	Properties map[string]any
	Required   []string
}

// ToolRequest is one tool call requested by the model.
type ToolRequest struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// ToolOutput is the observation returned to the model for a ToolRequest.
type ToolOutput struct {
	RequestID string
	Content   string
	IsError   bool
}

// Message is one turn of the running conversation.
type Message struct {
	Role         Role
	Text         string
	ToolRequests []ToolRequest
	ToolOutputs  []ToolOutput
}

// Conversation is the accumulating state passed to each reasoning step.
type Conversation struct {
	System   string
	Messages []Message
}

// AddUser appends a user turn.
func (c *Conversation) AddUser(text string) {
	c.Messages = append(c.Messages, Message{Role: RoleUser, Text: text})
}

// AddAssistant appends an assistant turn.
func (c *Conversation) AddAssistant(text string) {
	c.Messages = append(c.Messages, Message{Role: RoleAssistant, Text: text})
}

// AddStep records the model's tool requests followed by the tool outputs,
// in the shape the Messages API expects.
func (c *Conversation) AddStep(step Step, outputs []ToolOutput) {
	c.Messages = append(c.Messages,
		Message{Role: RoleAssistant, Text: step.Text, ToolRequests: step.ToolRequests},
		Message{Role: RoleUser, ToolOutputs: outputs},
	)
}

// Step is the result of one reasoning call: either a final answer or a set
// of tool requests.
type Step struct {
	// Text is any prose the model produced. When ToolRequests is empty it
	// is the final answer.
	Text         string
	ToolRequests []ToolRequest
	TokensIn     int64
	TokensOut    int64
}

// Final reports whether the model finished without requesting tools.
func (s Step) Final() bool {
	return len(s.ToolRequests) == 0
}

// Reasoner is a language-model reasoning provider. Failures are returned
// as a single error; implementations do not promise retries.
type Reasoner interface {
	Reason(ctx context.Context, conv Conversation, tools []ToolSpec) (Step, error)
}

// ReasonerFunc adapts a function to the Reasoner interface.
type ReasonerFunc func(ctx context.Context, conv Conversation, tools []ToolSpec) (Step, error)

// Reason calls f.
func (f ReasonerFunc) Reason(ctx context.Context, conv Conversation, tools []ToolSpec) (Step, error) {
	return f(ctx, conv, tools)
}
