package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// grepTimeout bounds a single grep invocation.
const grepTimeout = 30 * time.Second

type grepArgs struct {
	Pattern      string `json:"pattern"`
	FilePath     string `json:"file_path"`
	LineNumbers  *bool  `json:"line_numbers,omitempty"`
	IgnoreCase   bool   `json:"ignore_case,omitempty"`
	ContextLines int    `json:"context_lines,omitempty"`
}

var grepSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "pattern": {"type": "string", "description": "The search pattern to look for"},
    "file_path": {"type": "string", "description": "Path to the file to search in"},
    "line_numbers": {"type": "boolean", "description": "Whether to show line numbers", "default": true},
    "ignore_case": {"type": "boolean", "description": "Whether to ignore case in search", "default": false},
    "context_lines": {"type": "integer", "description": "Number of context lines to show around matches", "default": 0}
  },
  "required": ["pattern", "file_path"]
}`)

// GrepSearchSpec returns the builtin grep_search tool used by the log
// analyst. Results are always strings: grep exit 1 (no matches), a missing
// file, and a timeout are all reported to the model as text rather than
// failing the run.
func GrepSearchSpec() Spec {
	return Spec{
		Name:        "grep_search",
		Description: "Search for patterns in files using grep. Useful for log analysis and finding specific content.",
		Schema:      grepSchema,
		Run:         grepSearch,
	}
}

func grepSearch(ctx context.Context, raw json.RawMessage) (string, error) {
	var in grepArgs
	if err := json.Unmarshal(raw, &in); err != nil {
		return "", fmt.Errorf("grep_search: invalid arguments: %w", err)
	}
	if in.Pattern == "" {
		return "", errors.New("grep_search: pattern is required")
	}
	if in.FilePath == "" {
		return "", errors.New("grep_search: file_path is required")
	}
	if _, err := os.Stat(in.FilePath); err != nil {
		return fmt.Sprintf("File not found: %s", in.FilePath), nil
	}

	args := []string{}
	if in.LineNumbers == nil || *in.LineNumbers {
		args = append(args, "-n")
	}
	if in.IgnoreCase {
		args = append(args, "-i")
	}
	if in.ContextLines > 0 {
		args = append(args, "-C", strconv.Itoa(in.ContextLines))
	}
	args = append(args, in.Pattern, in.FilePath)

	cctx, cancel := context.WithTimeout(ctx, grepTimeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, "grep", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		return fmt.Sprintf("Grep command timed out (%d seconds)", int(grepTimeout.Seconds())), nil
	}
	if err == nil {
		return "Found matches:\n" + stdout.String(), nil
	}
	var ee *exec.ExitError
	if errors.As(err, &ee) && ee.ExitCode() == 1 {
		// grep exit 1 means no matches, not a failure
		return fmt.Sprintf("No matches found for pattern '%s' in file '%s'", in.Pattern, in.FilePath), nil
	}
	return fmt.Sprintf("Error running grep: %s", stderr.String()), nil
}
