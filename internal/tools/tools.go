// Package tools implements the research tools the agent can invoke: plan
// updates, web search, page content extraction, and long-running research.
//
// Every tool reports its outcome as text, including failures. The caller is a
// language model, so errors are normalized to strings or error-bearing JSON
// payloads rather than propagated as Go errors.
package tools

import (
	"context"
	"encoding/json"
)

// Tool is a callable exposed to the agent's tool-invocation loop.
type Tool interface {
	Name() string
	Description() string
	// Parameters returns the JSON schema advertised to the model.
	Parameters() map[string]any
	// Execute runs the tool with the model-supplied JSON arguments.
	Execute(ctx context.Context, args string) (string, error)
}

// Registry holds the tools available to an agent, preserving registration
// order for the model-facing tool list.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry creates a registry from the given tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools = append(r.tools, t)
		r.byName[t.Name()] = t
	}
	return r
}

// All returns the registered tools in registration order.
func (r *Registry) All() []Tool {
	return r.tools
}

// Get returns the tool with the given name, or nil.
func (r *Registry) Get(name string) Tool {
	return r.byName[name]
}

// errorJSON wraps a message in the {"error": ...} payload tools return on
// failure.
func errorJSON(msg string) string {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return string(data)
}
