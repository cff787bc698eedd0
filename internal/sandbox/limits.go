// Package sandbox provides the resource bounds shared by tool execution:
// output caps for subprocess and script results, and wall-clock budgets.
package sandbox

import (
	"bytes"
	"context"
	"errors"
	"time"
)

// ErrOutputLimit is returned once a bounded writer has hit its cap.
var ErrOutputLimit = errors.New("output limit exceeded")

// DefaultOutputCap bounds tool output when no explicit cap is given. Tool
// results travel back through the model context, so they stay small.
const DefaultOutputCap = 64 * 1024

// BoundedBuffer is an io.Writer that caps total bytes retained. Writes past
// the cap keep the leading bytes, mark the buffer truncated and return
// ErrOutputLimit. The buffer never grows beyond the cap.
type BoundedBuffer struct {
	buf       bytes.Buffer
	capBytes  int
	truncated bool
}

// NewBoundedBuffer creates a buffer holding at most capBytes. A zero or
// negative cap uses DefaultOutputCap.
func NewBoundedBuffer(capBytes int) *BoundedBuffer {
	if capBytes <= 0 {
		capBytes = DefaultOutputCap
	}
	return &BoundedBuffer{capBytes: capBytes}
}

func (b *BoundedBuffer) Write(p []byte) (int, error) {
	remaining := b.capBytes - b.buf.Len()
	if remaining <= 0 {
		b.truncated = true
		return 0, ErrOutputLimit
	}
	if len(p) > remaining {
		_, _ = b.buf.Write(p[:remaining])
		b.truncated = true
		return remaining, ErrOutputLimit
	}
	return b.buf.Write(p)
}

// WriteString appends s under the same cap rules as Write.
func (b *BoundedBuffer) WriteString(s string) (int, error) {
	return b.Write([]byte(s))
}

// Bytes returns the retained bytes, possibly truncated.
func (b *BoundedBuffer) Bytes() []byte { return b.buf.Bytes() }

// String returns the retained bytes as a string, possibly truncated.
func (b *BoundedBuffer) String() string { return b.buf.String() }

// Len reports the number of retained bytes.
func (b *BoundedBuffer) Len() int { return b.buf.Len() }

// Truncated reports whether any write exceeded the cap.
func (b *BoundedBuffer) Truncated() bool { return b.truncated }

// WithWallTimeout derives a context canceled after wallMS milliseconds.
// A non-positive wallMS uses a 1000ms default.
func WithWallTimeout(parent context.Context, wallMS int) (context.Context, context.CancelFunc) {
	if wallMS <= 0 {
		wallMS = 1000
	}
	return context.WithTimeout(parent, time.Duration(wallMS)*time.Millisecond)
}
