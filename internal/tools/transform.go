package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dop251/goja"

	"github.com/scavlabs/scavenger/internal/sandbox"
)

type transformArgs struct {
	Source string `json:"source"`
	Input  string `json:"input"`
	WallMS int    `json:"wall_ms,omitempty"`
}

var transformSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "source": {"type": "string", "description": "JavaScript to run; call read_input() for the text and emit(s) to produce output"},
    "input": {"type": "string", "description": "Text the script operates on, typically extracted log lines"},
    "wall_ms": {"type": "integer", "description": "Wall-clock limit in milliseconds", "default": 1000}
  },
  "required": ["source"]
}`)

// LogTransformSpec returns the builtin log_transform tool: a sandboxed
// JavaScript evaluator the analyst can use to reshape extracted log lines
// (count by field, bucket timestamps, strip noise) without another round
// trip through grep.
func LogTransformSpec() Spec {
	return Spec{
		Name:        "log_transform",
		Description: "Run a short JavaScript snippet over provided text. The script reads the text with read_input() and produces output with emit(s).",
		Schema:      transformSchema,
		Run:         logTransform,
	}
}

func logTransform(ctx context.Context, raw json.RawMessage) (string, error) {
	var in transformArgs
	if err := json.Unmarshal(raw, &in); err != nil {
		return "", fmt.Errorf("log_transform: invalid arguments: %w", err)
	}
	if in.Source == "" {
		return "", errors.New("log_transform: source is required")
	}

	outBuf := sandbox.NewBoundedBuffer(sandbox.DefaultOutputCap)
	vm := goja.New()
	if err := vm.Set("read_input", func() string { return in.Input }); err != nil {
		return "", fmt.Errorf("log_transform: bind read_input: %w", err)
	}
	if err := vm.Set("emit", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) > 0 {
			if _, err := outBuf.WriteString(call.Arguments[0].String()); err != nil {
				panic(err)
			}
		}
		return goja.Undefined()
	}); err != nil {
		return "", fmt.Errorf("log_transform: bind emit: %w", err)
	}

	cctx, cancel := sandbox.WithWallTimeout(ctx, in.WallMS)
	defer cancel()

	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok {
					runErr = err
				} else {
					runErr = fmt.Errorf("panic: %v", r)
				}
			}
		}()
		_, runErr = vm.RunString(in.Source)
	}()

	select {
	case <-done:
	case <-cctx.Done():
		vm.Interrupt("timeout")
		<-done
		return "Script timed out", nil
	}

	if runErr != nil {
		if errors.Is(runErr, sandbox.ErrOutputLimit) {
			return outBuf.String() + "\n[output truncated]", nil
		}
		// Surface script errors to the model as text so it can fix the script.
		return fmt.Sprintf("Script error: %v", runErr), nil
	}
	return outBuf.String(), nil
}
