package main

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/scavlabs/scavenger/internal/agent"
	"github.com/scavlabs/scavenger/internal/config"
	"github.com/scavlabs/scavenger/internal/oai"
)

// cliConfig holds settings resolved from flags, .env and the process
// environment, with flag > env > default precedence.
type cliConfig struct {
	tasks         []string
	toolsPath     string
	baseURL       string
	apiKey        string
	model         string
	maxIterations int
	httpTimeout   time.Duration
	httpRetries   int
	archiveBucket string
	gcpAPIKey     string
	logLevel      string
	debug         bool
	noStream      bool

	// Sources of the resolved completion settings: "flag" | "env" | "default".
	baseURLSource string
	modelSource   string
}

func parseFlags(args []string, stderr io.Writer) (cliConfig, int) {
	fs := flag.NewFlagSet("scavenger", flag.ContinueOnError)
	fs.SetOutput(stderr)

	task := fs.String("task", "", "user task (when absent the built-in demo tasks run)")
	toolsPath := fs.String("tools", "", "path to an external tools manifest (tools.json)")
	baseURL := fs.String("base-url", "", "OpenAI-compatible base URL (env BASE_URL)")
	apiKey := fs.String("api-key", "", "API key if required (env OPENAI_API_KEY)")
	model := fs.String("model", "", "model ID (env MODEL)")
	maxIterations := fs.Int("max-iterations", agent.DefaultMaxToolIterations, "tool iteration budget per task")
	httpTimeout := fs.Duration("http-timeout", 90*time.Second, "HTTP timeout for chat completions")
	httpRetries := fs.Int("http-retries", 2, "retries for transient HTTP failures (timeouts, 429, 5xx)")
	archiveBucket := fs.String("archive-bucket", "", "GCS bucket for session archives (env SCAVENGER_ARCHIVE_BUCKET)")
	debug := fs.Bool("debug", false, "enable debug logging")
	noStream := fs.Bool("no-stream", false, "disable streaming responses")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, 2
	}
	maxIterationsSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "max-iterations" {
			maxIterationsSet = true
		}
	})
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "error: unexpected argument %q\n", fs.Arg(0))
		return cliConfig{}, 2
	}

	env := config.Load()
	cfg := cliConfig{
		toolsPath:   *toolsPath,
		httpTimeout: *httpTimeout,
		httpRetries:   *httpRetries,
		gcpAPIKey:     env.GCPAPIKey,
		logLevel:      env.LogLevel,
		debug:         *debug,
		noStream:      *noStream,
	}
	if *task != "" {
		cfg.tasks = []string{*task}
	} else {
		cfg.tasks = agent.DemoTasks
	}
	cfg.baseURL, cfg.baseURLSource = oai.ResolveString(*baseURL, env.BaseURL, "")
	cfg.model, cfg.modelSource = oai.ResolveString(*model, env.Model, "")
	cfg.apiKey, _ = oai.ResolveString(*apiKey, env.APIKey, "")
	cfg.maxIterations, _ = oai.ResolveInt(maxIterationsSet, *maxIterations, env.MaxIterations, agent.DefaultMaxToolIterations)
	cfg.archiveBucket, _ = oai.ResolveString(*archiveBucket, env.ArchiveBucket, "")
	if cfg.debug && cfg.logLevel == "" {
		cfg.logLevel = "debug"
	}

	check := config.Config{APIKey: cfg.apiKey, Model: cfg.model, BaseURL: cfg.baseURL}
	if err := check.ValidateCompletion(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		printUsage(stderr)
		return cliConfig{}, 1
	}
	return cfg, 0
}
