package oai

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// StreamHandler receives each decoded chunk of a streaming completion.
// Returning a non-nil error aborts the stream and surfaces that error.
type StreamHandler func(chunk StreamChunk) error

// StreamChatCompletion performs a streaming chat completion over SSE.
// The request is forced to Stream=true. Chunks are delivered in arrival
// order until the server sends [DONE] or the context is canceled.
// Streaming requests are made with a single attempt; retrying a partially
// consumed stream would replay deltas to the handler.
func (c *Client) StreamChatCompletion(ctx context.Context, req ChatCompletionsRequest, fn StreamHandler) error {
	req.Stream = true
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	endpoint := c.baseURL + "/chat/completions"
	resp, err := c.post(ctx, endpoint, body, generateIdempotencyKey())
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2000))
		return fmt.Errorf("chat API %s: %d: %s", endpoint, resp.StatusCode, string(b))
	}
	return decodeSSE(resp.Body, fn)
}

// decodeSSE reads "data:" lines from r and feeds decoded chunks to fn.
// Non-data lines (comments, event names, blanks) are skipped. The sentinel
// [DONE] terminates the stream cleanly.
func decodeSSE(r io.Reader, fn StreamHandler) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			trimmed := strings.TrimSpace(line)
			if data, ok := strings.CutPrefix(trimmed, "data:"); ok {
				data = strings.TrimSpace(data)
				if data == "[DONE]" {
					return nil
				}
				var chunk StreamChunk
				if uerr := json.Unmarshal([]byte(data), &chunk); uerr != nil {
					return fmt.Errorf("decode stream chunk: %w; data: %s", uerr, truncate(data, 500))
				}
				if herr := fn(chunk); herr != nil {
					return herr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}
	}
}

// StreamAccumulator rebuilds a complete assistant Message from stream deltas.
// Tool call fragments are merged by delta index; argument strings are
// concatenated in arrival order.
type StreamAccumulator struct {
	content      strings.Builder
	toolsByIndex map[int]*ToolCall
	order        []int
	finishReason string
}

// Add folds one chunk into the accumulator.
func (a *StreamAccumulator) Add(chunk StreamChunk) {
	for _, choice := range chunk.Choices {
		if choice.FinishReason != "" {
			a.finishReason = choice.FinishReason
		}
		a.content.WriteString(choice.Delta.Content)
		for _, td := range choice.Delta.ToolCalls {
			if a.toolsByIndex == nil {
				a.toolsByIndex = make(map[int]*ToolCall)
			}
			tc, ok := a.toolsByIndex[td.Index]
			if !ok {
				tc = &ToolCall{}
				a.toolsByIndex[td.Index] = tc
				a.order = append(a.order, td.Index)
			}
			if td.ID != "" {
				tc.ID = td.ID
			}
			if td.Type != "" {
				tc.Type = td.Type
			}
			if td.Function.Name != "" {
				tc.Function.Name = td.Function.Name
			}
			tc.Function.Arguments += td.Function.Arguments
		}
	}
}

// FinishReason returns the last finish_reason observed, if any.
func (a *StreamAccumulator) FinishReason() string { return a.finishReason }

// Message returns the assembled assistant message.
func (a *StreamAccumulator) Message() Message {
	msg := Message{Role: RoleAssistant, Content: a.content.String()}
	for _, idx := range a.order {
		msg.ToolCalls = append(msg.ToolCalls, *a.toolsByIndex[idx])
	}
	return msg
}
