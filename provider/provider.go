package provider

import "context"

// Message is a single entry in a conversation transcript. The JSON layout
// matches the chat-completions wire format so transcripts can be replayed
// against the model and persisted as-is.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is a model-issued request to invoke a named tool. Arguments is the
// raw JSON argument object exactly as the model produced it.
type ToolCall struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolSpec advertises a callable tool to the model.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// Turn is one model reply: either final text or a batch of tool calls.
// When ToolCalls is non-empty the caller must execute them and come back;
// Text may still carry interim reasoning the model emitted alongside.
type Turn struct {
	Text      string
	ToolCalls []ToolCall
}

// Provider abstracts the LLM backend.
type Provider interface {
	// ChatWithTools runs one reasoning step over the transcript with the
	// given tools advertised.
	ChatWithTools(ctx context.Context, messages []Message, tools []ToolSpec) (Turn, error)

	// Complete runs a single-prompt completion with no tools.
	Complete(ctx context.Context, prompt string) (string, error)

	// CompleteJSON runs a completion constrained to a JSON object response.
	CompleteJSON(ctx context.Context, system, prompt string) (string, error)

	// Embed returns one embedding vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
