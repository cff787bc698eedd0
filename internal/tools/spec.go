// Package tools defines the tool surface exposed to agents: builtin Go
// handlers, external subprocess tools declared in a manifest, and the
// registry that renders both as OpenAI-compatible function tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scavlabs/scavenger/internal/oai"
)

// Handler executes a builtin tool. The raw argument JSON comes straight from
// the model's tool call. The returned string is handed back to the model as
// the tool result; operational problems (bad pattern, missing file) belong in
// that string, not in the error, so the model can react to them.
type Handler func(ctx context.Context, args json.RawMessage) (string, error)

// Spec describes one tool. Exactly one of Run (builtin) or Command
// (external subprocess) is set.
type Spec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Schema      json.RawMessage `json:"schema,omitempty"` // JSON Schema for params
	Command     []string        `json:"command,omitempty"` // argv: program and args
	TimeoutSec  int             `json:"timeoutSec,omitempty"`
	// EnvPassthrough is an allowlist of environment variable names that may
	// be passed through from the parent process to the tool process.
	EnvPassthrough []string `json:"envPassthrough,omitempty"`

	Run Handler `json:"-"`
}

// Registry maps tool names to specs in registration order.
type Registry struct {
	specs map[string]Spec
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec)}
}

// Register adds a spec. It panics on a duplicate name or a spec with
// neither a handler nor a command; both are authoring mistakes.
func (r *Registry) Register(spec Spec) {
	if spec.Name == "" {
		panic("tools: spec name is required")
	}
	if _, exists := r.specs[spec.Name]; exists {
		panic(fmt.Sprintf("tools: %s already registered", spec.Name))
	}
	if spec.Run == nil && len(spec.Command) == 0 {
		panic(fmt.Sprintf("tools: %s has neither handler nor command", spec.Name))
	}
	r.specs[spec.Name] = spec
	r.order = append(r.order, spec.Name)
}

// Lookup returns the spec and whether it exists.
func (r *Registry) Lookup(name string) (Spec, bool) {
	s, ok := r.specs[name]
	return s, ok
}

// Len reports the number of registered tools.
func (r *Registry) Len() int { return len(r.order) }

// Specs returns the registered specs in registration order.
func (r *Registry) Specs() []Spec {
	out := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.specs[name])
	}
	return out
}

// OpenAITools renders the registry as the tools array for a chat request,
// in registration order.
func (r *Registry) OpenAITools() []oai.Tool {
	out := make([]oai.Tool, 0, len(r.order))
	for _, name := range r.order {
		s := r.specs[name]
		out = append(out, oai.Tool{
			Type: "function",
			Function: oai.ToolFunction{
				Name:        s.Name,
				Description: s.Description,
				Parameters:  s.Schema,
			},
		})
	}
	return out
}

// Call dispatches a tool invocation by name. Builtin tools run in-process;
// external tools run as subprocesses with the argument JSON on stdin.
func (r *Registry) Call(ctx context.Context, name string, args json.RawMessage) (string, error) {
	spec, ok := r.specs[name]
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	if spec.Run != nil {
		return spec.Run(ctx, args)
	}
	out, err := RunToolWithJSON(ctx, spec, args, defaultToolTimeout)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
