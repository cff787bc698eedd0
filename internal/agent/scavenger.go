package agent

import (
	"github.com/scavlabs/scavenger/internal/oai"
	"github.com/scavlabs/scavenger/internal/tools"
)

// System prompts for the built-in agents.
const (
	orchestratorSystemMessage = "You are a general assistant. Use expert tools when needed. For log analysis or file searching tasks, use the log analyst."
	logAnalystSystemMessage   = "You are a log analysis expert. Use the grep_search tool to search for patterns in log files and provide insights about what you find."
)

// NewLogAnalyst builds the log_analyst assistant: grep plus the transform
// sandbox, streaming enabled.
func NewLogAnalyst(client *oai.Client, model string, stream bool) *Assistant {
	reg := tools.NewRegistry()
	reg.Register(tools.GrepSearchSpec())
	reg.Register(tools.LogTransformSpec())
	return &Assistant{
		Name:          "log_analyst",
		Description:   "A log analysis expert that can search through files using grep.",
		SystemMessage: logAnalystSystemMessage,
		Client:        client,
		Model:         model,
		Tools:         reg,
		Stream:        stream,
	}
}

// NewOrchestrator builds the top-level assistant with the log analyst
// attached as a tool, plus any extra tools (e.g. from a manifest). The sink
// is threaded into the nested analyst so its activity is visible.
func NewOrchestrator(client *oai.Client, model string, sink EventSink, stream bool, extra ...tools.Spec) *Assistant {
	reg := tools.NewRegistry()
	reg.Register(AsTool(NewLogAnalyst(client, model, stream), sink))
	for _, spec := range extra {
		reg.Register(spec)
	}
	return &Assistant{
		Name:              "assistant",
		SystemMessage:     orchestratorSystemMessage,
		Client:            client,
		Model:             model,
		Tools:             reg,
		MaxToolIterations: 10,
		Stream:            stream,
	}
}

// DemoTasks are the example queries the proof of concept ships with.
var DemoTasks = []string{
	"Search for all ERROR entries in the file sample.log and summarize what types of errors occurred",
	"Find all PaymentService related entries in sample.log",
}
