package agent

// EventKind labels a single step of a streamed run.
type EventKind string

const (
	// EventTextDelta is an incremental chunk of assistant text.
	EventTextDelta EventKind = "text-delta"
	// EventToolCall is emitted before a tool executes.
	EventToolCall EventKind = "tool-call"
	// EventToolResult is emitted after a tool returns.
	EventToolResult EventKind = "tool-result"
	// EventDone carries the final assistant text for a run.
	EventDone EventKind = "done"
)

// Event is one observable step of an agent run.
type Event struct {
	Kind   EventKind
	Source string // agent name
	Tool   string // tool name for tool-call/tool-result
	Text   string // delta, arguments, result, or final text
}

// EventSink receives run events. Implementations must tolerate events from
// nested agents (an agent-as-tool publishes under its own source name).
type EventSink interface {
	Publish(Event)
}

func publish(sink EventSink, ev Event) {
	if sink != nil {
		sink.Publish(ev)
	}
}
