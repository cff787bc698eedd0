package main

import (
	"fmt"
	"io"
	"strings"
)

const version = "0.1.0"

// helpRequested returns true if any canonical help token is present.
func helpRequested(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" || a == "help" {
			return true
		}
	}
	return false
}

// versionRequested returns true if any canonical version token is present.
func versionRequested(args []string) bool {
	for _, a := range args {
		if a == "--version" || a == "-version" {
			return true
		}
	}
	return false
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "scavenger %s\n", version)
}

// printUsage writes the usage guide to w.
func printUsage(w io.Writer) {
	var b strings.Builder
	b.WriteString("scavenger — log-scavenging assistant over OpenAI-compatible APIs\n\n")
	b.WriteString("Usage:\n  scavenger [flags]\n\n")
	b.WriteString("Flags (precedence: flag > env > default):\n")
	b.WriteString("  -task string\n    User task; when absent the built-in demo tasks over sample.log run\n")
	b.WriteString("  -tools string\n    Path to an external tools manifest, tools.json (optional)\n")
	b.WriteString("  -base-url string\n    OpenAI-compatible base URL (env BASE_URL; required)\n")
	b.WriteString("  -api-key string\n    API key if required (env OPENAI_API_KEY)\n")
	b.WriteString("  -model string\n    Model ID (env MODEL; required)\n")
	b.WriteString("  -max-iterations int\n    Tool iteration budget per task (env SCAVENGER_MAX_ITERATIONS; default 10)\n")
	b.WriteString("  -http-timeout duration\n    HTTP timeout for chat completions (default 90s)\n")
	b.WriteString("  -http-retries int\n    Retries for transient HTTP failures (timeouts, 429, 5xx) (default 2)\n")
	b.WriteString("  -archive-bucket string\n    GCS bucket for session archives (env SCAVENGER_ARCHIVE_BUCKET; archiving off when empty)\n")
	b.WriteString("  -debug\n    Enable debug logging on stderr\n")
	b.WriteString("  -no-stream\n    Disable streaming responses\n")
	b.WriteString("  --version\n    Print version and exit\n\n")
	b.WriteString("Environment is loaded from .env when present; process variables win.\n")
	fmt.Fprint(w, b.String())
}
