package tools

import (
	"context"
	"fmt"

	"github.com/ragent-ai/ragent/provider"
)

// Tool is a callable capability advertised to the model. Call receives the
// raw JSON argument object exactly as the model produced it.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]interface{}
	Call(ctx context.Context, args string) (string, error)
}

// Registry is the fixed set of tools for a run. It is immutable after
// construction, so lookups need no locking.
type Registry struct {
	byName map[string]Tool
	order  []string
}

func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(ts))}
	for _, t := range ts {
		if _, dup := r.byName[t.Name()]; dup {
			continue
		}
		r.byName[t.Name()] = t
		r.order = append(r.order, t.Name())
	}
	return r
}

// Lookup resolves a tool by name.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Specs returns the tool definitions in registration order.
func (r *Registry) Specs() []provider.ToolSpec {
	out := make([]provider.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		t := r.byName[name]
		out = append(out, provider.ToolSpec{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  t.Parameters(),
		})
	}
	return out
}

// Dispatch runs a single tool call. Failures come back as an error string so
// the caller can feed them to the model as a tool result.
func (r *Registry) Dispatch(ctx context.Context, call provider.ToolCall) string {
	t, ok := r.Lookup(call.Name)
	if !ok {
		return fmt.Sprintf("unknown tool: %s", call.Name)
	}
	out, err := t.Call(ctx, call.Arguments)
	if err != nil {
		return fmt.Sprintf("tool %s failed: %v", call.Name, err)
	}
	return out
}

// QueryParameters is the JSON schema shared by tools that take one free-text
// query argument.
func QueryParameters(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"query"},
	}
}
