package agent

import (
	"strings"
	"testing"
)

func TestConsole_StreamedTextUnderOneHeader(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf)
	c.Publish(Event{Kind: EventTextDelta, Source: "assistant", Text: "hel"})
	c.Publish(Event{Kind: EventTextDelta, Source: "assistant", Text: "lo"})
	c.Publish(Event{Kind: EventDone, Source: "assistant", Text: "hello"})

	out := buf.String()
	if strings.Count(out, "---------- assistant ----------") != 1 {
		t.Fatalf("expected one header, got:\n%s", out)
	}
	if !strings.Contains(out, "hello") {
		t.Fatalf("streamed text missing:\n%s", out)
	}
}

func TestConsole_ToolActivity(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf)
	c.Publish(Event{Kind: EventToolCall, Source: "log_analyst", Tool: "grep_search", Text: `{"pattern":"ERROR"}`})
	c.Publish(Event{Kind: EventToolResult, Source: "log_analyst", Tool: "grep_search", Text: "Found matches:\n1: ERROR x"})

	out := buf.String()
	if !strings.Contains(out, `[tool call] grep_search({"pattern":"ERROR"})`) {
		t.Fatalf("tool call line missing:\n%s", out)
	}
	if !strings.Contains(out, "[tool result] Found matches:") {
		t.Fatalf("tool result line missing:\n%s", out)
	}
}

func TestConsole_SummaryResetsState(t *testing.T) {
	var buf strings.Builder
	c := NewConsole(&buf)
	c.Publish(Event{Kind: EventDone, Source: "assistant", Text: "first"})
	c.Summary()
	c.Publish(Event{Kind: EventDone, Source: "assistant", Text: "second"})
	c.Summary()

	out := buf.String()
	if strings.Count(out, "---------- done in ") != 2 {
		t.Fatalf("expected two summaries:\n%s", out)
	}
	if strings.Count(out, "---------- assistant ----------") != 2 {
		t.Fatalf("header must reprint after reset:\n%s", out)
	}
}

func TestConsole_SummaryWithoutEventsIsSilent(t *testing.T) {
	var buf strings.Builder
	NewConsole(&buf).Summary()
	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
