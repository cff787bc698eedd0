// Package agent implements the assistant loop: a named agent with a system
// message, a model client, and an optional tool registry, iterating on tool
// calls until the model produces a plain answer. Agents compose: AsTool wraps
// a whole assistant as a single callable tool for a parent agent.
package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/scavlabs/scavenger/internal/oai"
	"github.com/scavlabs/scavenger/internal/tools"
)

// DefaultMaxToolIterations bounds the tool loop when the caller does not.
const DefaultMaxToolIterations = 10

// ErrIterationBudget is returned when the model keeps requesting tools past
// the iteration budget without producing a final answer.
var ErrIterationBudget = errors.New("agent: tool iteration budget exhausted")

// Assistant is a single agent: one system message, one model, zero or more
// tools. The zero value is not usable; construct with the fields set.
type Assistant struct {
	Name          string
	Description   string
	SystemMessage string
	Client        *oai.Client
	Model         string
	Tools         *tools.Registry
	// MaxToolIterations caps request/tool-execution rounds per Run.
	// Zero means DefaultMaxToolIterations.
	MaxToolIterations int
	// Stream requests SSE for assistant turns and forwards text deltas to
	// the sink passed to Run.
	Stream bool
}

// Result is the outcome of one Run: the full transcript and the final
// assistant text.
type Result struct {
	Messages  []oai.Message
	FinalText string
}

// Run executes the assistant loop for one task. Events are published to sink
// when it is non-nil. The transcript always starts [system, user].
func (a *Assistant) Run(ctx context.Context, task string, sink EventSink) (Result, error) {
	messages := a.seedMessages(task)
	maxIter := a.MaxToolIterations
	if maxIter <= 0 {
		maxIter = DefaultMaxToolIterations
	}

	for iter := 0; iter < maxIter; iter++ {
		req := oai.ChatCompletionsRequest{
			Model:    a.Model,
			Messages: messages,
		}
		if a.Tools != nil && a.Tools.Len() > 0 {
			req.Tools = a.Tools.OpenAITools()
			req.ToolChoice = "auto"
		}

		msg, err := a.complete(ctx, req, sink)
		if err != nil {
			return Result{Messages: messages}, fmt.Errorf("agent %s: %w", a.Name, err)
		}
		messages = append(messages, msg)

		if len(msg.ToolCalls) > 0 && a.Tools != nil {
			messages = a.executeToolCalls(ctx, messages, msg, sink)
			continue
		}
		if strings.TrimSpace(msg.Content) != "" {
			publish(sink, Event{Kind: EventDone, Source: a.Name, Text: msg.Content})
			return Result{Messages: messages, FinalText: msg.Content}, nil
		}
		// Neither tool calls nor content; ask again within the budget.
	}
	return Result{Messages: messages}, fmt.Errorf("agent %s after %d iterations: %w", a.Name, maxIter, ErrIterationBudget)
}

// complete performs one model call, streaming when configured.
func (a *Assistant) complete(ctx context.Context, req oai.ChatCompletionsRequest, sink EventSink) (oai.Message, error) {
	if a.Stream && sink != nil {
		var acc oai.StreamAccumulator
		err := a.Client.StreamChatCompletion(ctx, req, func(chunk oai.StreamChunk) error {
			acc.Add(chunk)
			for _, choice := range chunk.Choices {
				if choice.Delta.Content != "" {
					publish(sink, Event{Kind: EventTextDelta, Source: a.Name, Text: choice.Delta.Content})
				}
			}
			return nil
		})
		if err != nil {
			return oai.Message{}, err
		}
		return acc.Message(), nil
	}

	resp, err := a.Client.CreateChatCompletion(ctx, req)
	if err != nil {
		return oai.Message{}, err
	}
	if len(resp.Choices) == 0 {
		return oai.Message{Role: oai.RoleAssistant}, nil
	}
	return resp.Choices[0].Message, nil
}

// executeToolCalls runs every requested tool call in order and appends the
// role:tool results. Tool failures become result text so the model can
// recover; they never abort the run.
func (a *Assistant) executeToolCalls(ctx context.Context, messages []oai.Message, msg oai.Message, sink EventSink) []oai.Message {
	for _, tc := range msg.ToolCalls {
		publish(sink, Event{Kind: EventToolCall, Source: a.Name, Tool: tc.Function.Name, Text: tc.Function.Arguments})
		out, err := a.Tools.Call(ctx, tc.Function.Name, json.RawMessage(tc.Function.Arguments))
		if err != nil {
			log.Warn().Str("agent", a.Name).Str("tool", tc.Function.Name).Err(err).Msg("tool call failed")
			out = fmt.Sprintf("tool error: %v", err)
		}
		publish(sink, Event{Kind: EventToolResult, Source: a.Name, Tool: tc.Function.Name, Text: out})
		messages = append(messages, oai.Message{
			Role:       oai.RoleTool,
			ToolCallID: tc.ID,
			Name:       tc.Function.Name,
			Content:    out,
		})
	}
	return messages
}

// seedMessages constructs the initial [system, user] transcript.
func (a *Assistant) seedMessages(task string) []oai.Message {
	msgs := make([]oai.Message, 0, 2)
	if s := strings.TrimSpace(a.SystemMessage); s != "" {
		msgs = append(msgs, oai.Message{Role: oai.RoleSystem, Content: s})
	}
	msgs = append(msgs, oai.Message{Role: oai.RoleUser, Content: strings.TrimSpace(task)})
	return msgs
}
