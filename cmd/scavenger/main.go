// Command scavenger is the log-scavenging assistant: an orchestrator agent
// backed by an OpenAI-compatible chat API, with a log-analysis specialist
// exposed to it as a tool.
package main

import (
	"io"
	"os"
)

func main() {
	os.Exit(cliMain(os.Args[1:], os.Stdout, os.Stderr))
}

// cliMain is the testable entrypoint: argv without the program name, the
// output streams, and the intended process exit code.
func cliMain(args []string, stdout, stderr io.Writer) int {
	if helpRequested(args) {
		printUsage(stdout)
		return 0
	}
	if versionRequested(args) {
		printVersion(stdout)
		return 0
	}
	cfg, code := parseFlags(args, stderr)
	if code != 0 {
		return code
	}
	return runAssistant(cfg, stdout, stderr)
}
