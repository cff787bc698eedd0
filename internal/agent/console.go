package agent

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// Console renders run events to a writer, one labelled section per source
// change, raw deltas for streamed text. It is not safe for concurrent use;
// agent runs are sequential.
type Console struct {
	w          io.Writer
	lastSource string
	streaming  bool
	start      time.Time
}

// NewConsole creates a console writing to w.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Publish implements EventSink.
func (c *Console) Publish(ev Event) {
	if c.start.IsZero() {
		c.start = time.Now()
	}
	switch ev.Kind {
	case EventTextDelta:
		if c.lastSource != ev.Source || !c.streaming {
			c.header(ev.Source)
			c.streaming = true
		}
		c.print(ev.Text)
	case EventToolCall:
		c.endStream()
		c.header(ev.Source)
		c.printf("[tool call] %s(%s)\n", ev.Tool, strings.TrimSpace(ev.Text))
	case EventToolResult:
		c.endStream()
		c.header(ev.Source)
		c.printf("[tool result] %s\n", strings.TrimSpace(ev.Text))
	case EventDone:
		if c.streaming {
			c.endStream()
		} else {
			c.header(ev.Source)
			c.print(strings.TrimSpace(ev.Text) + "\n")
		}
	}
	c.lastSource = ev.Source
}

// Summary prints a closing line with the elapsed time and resets the console
// for the next run.
func (c *Console) Summary() {
	if !c.start.IsZero() {
		c.printf("---------- done in %s ----------\n", time.Since(c.start).Round(time.Millisecond))
	}
	c.start = time.Time{}
	c.lastSource = ""
	c.streaming = false
}

func (c *Console) header(source string) {
	if c.lastSource == source && !c.streaming {
		return
	}
	c.printf("---------- %s ----------\n", source)
}

func (c *Console) endStream() {
	if c.streaming {
		c.print("\n")
		c.streaming = false
	}
}

func (c *Console) print(s string) {
	_, _ = io.WriteString(c.w, s)
}

func (c *Console) printf(format string, a ...any) {
	_, _ = fmt.Fprintf(c.w, format, a...)
}
