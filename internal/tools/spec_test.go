package tools

import (
	"context"
	"encoding/json"
	"testing"
)

func TestRegistryRegisterLookup(t *testing.T) {
	r := NewRegistry()
	r.Register(Spec{Name: "sample", Run: func(ctx context.Context, args json.RawMessage) (string, error) {
		return "ok", nil
	}})
	if _, ok := r.Lookup("sample"); !ok {
		t.Fatalf("registered tool not found")
	}
	if _, ok := r.Lookup("other"); ok {
		t.Fatalf("unexpected tool found")
	}
	if r.Len() != 1 {
		t.Fatalf("unexpected length %d", r.Len())
	}
}

func TestRegistryDuplicatePanics(t *testing.T) {
	r := NewRegistry()
	h := func(ctx context.Context, args json.RawMessage) (string, error) { return "", nil }
	r.Register(Spec{Name: "dup", Run: h})
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate register")
		}
	}()
	r.Register(Spec{Name: "dup", Run: h})
}

func TestRegisterRejectsEmptySpec(t *testing.T) {
	r := NewRegistry()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for spec without handler or command")
		}
	}()
	r.Register(Spec{Name: "hollow"})
}

func TestOpenAIToolsPreservesOrder(t *testing.T) {
	r := NewRegistry()
	h := func(ctx context.Context, args json.RawMessage) (string, error) { return "", nil }
	r.Register(Spec{Name: "b_first", Description: "first", Run: h})
	r.Register(Spec{Name: "a_second", Description: "second", Run: h})

	out := r.OpenAITools()
	if len(out) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(out))
	}
	if out[0].Function.Name != "b_first" || out[1].Function.Name != "a_second" {
		t.Fatalf("registration order not preserved: %+v", out)
	}
	if out[0].Type != "function" {
		t.Fatalf("unexpected tool type %q", out[0].Type)
	}
}

func TestCallDispatchesBuiltin(t *testing.T) {
	r := NewRegistry()
	r.Register(Spec{Name: "echo_args", Run: func(ctx context.Context, args json.RawMessage) (string, error) {
		return string(args), nil
	}})
	out, err := r.Call(context.Background(), "echo_args", json.RawMessage(`{"x":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"x":1}` {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestCallUnknownTool(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Call(context.Background(), "missing", nil); err == nil {
		t.Fatalf("expected error for unknown tool")
	}
}
