package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scavlabs/scavenger/internal/tools"
)

var agentToolSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "task": {"type": "string", "description": "The task to hand to the agent"}
  },
  "required": ["task"]
}`)

type agentToolArgs struct {
	Task string `json:"task"`
}

// AsTool wraps the assistant as a callable tool for a parent agent. Invoking
// the tool runs the inner agent to completion and returns its last assistant
// message as the tool result. The inner run inherits the caller's sink, so a
// console shows nested activity under the inner agent's name.
func AsTool(a *Assistant, sink EventSink) tools.Spec {
	return tools.Spec{
		Name:        a.Name,
		Description: a.Description,
		Schema:      agentToolSchema,
		Run: func(ctx context.Context, raw json.RawMessage) (string, error) {
			var in agentToolArgs
			if err := json.Unmarshal(raw, &in); err != nil {
				return "", fmt.Errorf("agent tool %s: invalid arguments: %w", a.Name, err)
			}
			if in.Task == "" {
				return "", fmt.Errorf("agent tool %s: task is required", a.Name)
			}
			res, err := a.Run(ctx, in.Task, sink)
			if err != nil {
				return "", err
			}
			return res.FinalText, nil
		},
	}
}
