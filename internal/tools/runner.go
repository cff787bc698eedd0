package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/scavlabs/scavenger/internal/sandbox"
)

// defaultToolTimeout applies when a spec carries no TimeoutSec.
const defaultToolTimeout = 30 * time.Second

// toolOutputCap bounds bytes retained from a tool's stdout and stderr; a
// runaway tool cannot balloon the transcript.
const toolOutputCap = 1 << 20

// timeNow is a package-level clock to enable deterministic tests.
var timeNow = time.Now

// computeToolTimeout derives the timeout for a tool execution, honoring
// spec.TimeoutSec when provided; otherwise it falls back to the default.
func computeToolTimeout(spec Spec, defaultTimeout time.Duration) time.Duration {
	if spec.TimeoutSec > 0 {
		return time.Duration(spec.TimeoutSec) * time.Second
	}
	return defaultTimeout
}

// buildToolEnvironment constructs a minimal environment for the tool process
// and returns the environment slice along with the env keys that were passed
// through (for audit visibility).
func buildToolEnvironment(spec Spec) (env []string, passedKeys []string) {
	if v := os.Getenv("PATH"); v != "" {
		env = append(env, "PATH="+v)
	}
	if v := os.Getenv("HOME"); v != "" {
		env = append(env, "HOME="+v)
	}
	for _, key := range spec.EnvPassthrough {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
			passedKeys = append(passedKeys, key)
		}
	}
	return env, passedKeys
}

// normalizeWaitError maps timeout and process errors to deterministic errors.
func normalizeWaitError(ctx context.Context, waitErr error, stderrText string) error {
	if ctx.Err() == context.DeadlineExceeded {
		return errors.New("tool timed out")
	}
	if waitErr != nil {
		msg := stderrText
		if msg == "" {
			msg = waitErr.Error()
		}
		return errors.New(msg)
	}
	return nil
}

// RunToolWithJSON executes the tool command with args JSON provided on stdin
// and returns stdout bytes. Every invocation appends an NDJSON audit line;
// audit failures never affect the tool result.
func RunToolWithJSON(parentCtx context.Context, spec Spec, jsonInput []byte, defaultTimeout time.Duration) ([]byte, error) {
	start := time.Now()
	to := computeToolTimeout(spec, defaultTimeout)
	ctx, cancel := context.WithTimeout(parentCtx, to)
	defer cancel()

	cmd := exec.CommandContext(ctx, spec.Command[0], spec.Command[1:]...)
	env, passedKeys := buildToolEnvironment(spec)
	cmd.Env = env
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if len(jsonInput) == 0 {
		jsonInput = []byte("{}")
	}
	if _, err := stdin.Write(jsonInput); err != nil {
		return nil, fmt.Errorf("write stdin: %w", err)
	}
	_ = stdin.Close() // best-effort close

	// Drain stdout and stderr fully before Wait, bounded.
	outCh := make(chan []byte, 1)
	errCh := make(chan []byte, 1)
	go func() { outCh <- boundedReadAll(stdout) }()
	go func() { errCh <- boundedReadAll(stderr) }()

	err = cmd.Wait()
	out := <-outCh
	serr := <-errCh

	exitCode := 0
	if err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) && ee.ProcessState != nil {
			exitCode = ee.ProcessState.ExitCode()
		} else {
			// Unknown exit (e.g., timeout/cancel)
			exitCode = -1
		}
	}
	writeAudit(spec, start, exitCode, len(out), len(serr), passedKeys)

	if normErr := normalizeWaitError(ctx, err, string(serr)); normErr != nil {
		return nil, normErr
	}
	return out, nil
}

// boundedReadAll drains r completely but retains at most toolOutputCap
// bytes. The full drain keeps the child from blocking on a full pipe.
func boundedReadAll(r io.Reader) []byte {
	buf := sandbox.NewBoundedBuffer(toolOutputCap)
	if _, err := io.Copy(buf, r); errors.Is(err, sandbox.ErrOutputLimit) {
		_, _ = io.Copy(io.Discard, r)
	}
	return buf.Bytes()
}

// writeAudit emits an NDJSON line capturing tool execution metadata.
func writeAudit(spec Spec, start time.Time, exitCode, stdoutBytes, stderrBytes int, envKeys []string) {
	type auditEntry struct {
		TS          string   `json:"ts"`
		Tool        string   `json:"tool"`
		Argv        []string `json:"argv"`
		Exit        int      `json:"exit"`
		MS          int64    `json:"ms"`
		StdoutBytes int      `json:"stdoutBytes"`
		StderrBytes int      `json:"stderrBytes"`
		EnvKeys     []string `json:"envKeys,omitempty"`
	}
	entry := auditEntry{
		TS:          timeNow().UTC().Format(time.RFC3339Nano),
		Tool:        spec.Name,
		Argv:        redactSensitiveStrings(append([]string(nil), spec.Command...)),
		Exit:        exitCode,
		MS:          time.Since(start).Milliseconds(),
		StdoutBytes: stdoutBytes,
		StderrBytes: stderrBytes,
		EnvKeys:     append([]string(nil), envKeys...),
	}
	if err := appendAuditLog(entry); err != nil {
		_ = err
	}
}

// AuditDir returns the directory holding audit logs for the current module.
func AuditDir() string {
	return filepath.Join(moduleRoot(), ".scavenger", "audit")
}

// appendAuditLog writes an NDJSON audit line to .scavenger/audit/YYYYMMDD.log
// under the repository root. The root is found by walking upward from the
// working directory until a go.mod is seen; without one the CWD is used.
func appendAuditLog(entry any) error {
	b, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	dir := AuditDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fname := timeNow().UTC().Format("20060102") + ".log"
	f, err := os.OpenFile(filepath.Join(dir, fname), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	if _, err := f.Write(append(b, '\n')); err != nil {
		return err
	}
	return nil
}

func moduleRoot() string {
	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	dir := cwd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}
