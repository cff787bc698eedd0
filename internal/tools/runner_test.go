package tools

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func requireProgram(t *testing.T, name string) string {
	t.Helper()
	p, err := exec.LookPath(name)
	if err != nil {
		t.Skipf("%s not available", name)
	}
	return p
}

func TestRunToolWithJSON_EchoesStdin(t *testing.T) {
	cat := requireProgram(t, "cat")
	spec := Spec{Name: "echo", Command: []string{cat}}
	out, err := RunToolWithJSON(context.Background(), spec, []byte(`{"q":"ERROR"}`), 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `{"q":"ERROR"}` {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunToolWithJSON_EmptyInputBecomesEmptyObject(t *testing.T) {
	cat := requireProgram(t, "cat")
	out, err := RunToolWithJSON(context.Background(), Spec{Name: "echo", Command: []string{cat}}, nil, 5*time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "{}" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunToolWithJSON_NonZeroExitSurfacesStderr(t *testing.T) {
	sh := requireProgram(t, "sh")
	spec := Spec{Name: "fail", Command: []string{sh, "-c", "echo boom >&2; exit 3"}}
	_, err := RunToolWithJSON(context.Background(), spec, []byte(`{}`), 5*time.Second)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestRunToolWithJSON_Timeout(t *testing.T) {
	sh := requireProgram(t, "sh")
	spec := Spec{Name: "sleepy", Command: []string{sh, "-c", "cat >/dev/null; sleep 5"}, TimeoutSec: 1}
	start := time.Now()
	_, err := RunToolWithJSON(context.Background(), spec, []byte(`{}`), 30*time.Second)
	if err == nil || err.Error() != "tool timed out" {
		t.Fatalf("expected deterministic timeout error, got %v", err)
	}
	if time.Since(start) > 4*time.Second {
		t.Fatalf("timeout did not cut execution short")
	}
}

func TestBuildToolEnvironment_Allowlist(t *testing.T) {
	t.Setenv("SCAV_TEST_SECRET", "s3cret")
	t.Setenv("SCAV_TEST_OTHER", "visible")

	env, passed := buildToolEnvironment(Spec{EnvPassthrough: []string{"SCAV_TEST_OTHER"}})
	joined := strings.Join(env, "\n")
	if strings.Contains(joined, "SCAV_TEST_SECRET") {
		t.Fatalf("secret leaked into tool env: %v", env)
	}
	if !strings.Contains(joined, "SCAV_TEST_OTHER=visible") {
		t.Fatalf("allowlisted key missing: %v", env)
	}
	if len(passed) != 1 || passed[0] != "SCAV_TEST_OTHER" {
		t.Fatalf("unexpected passed keys: %v", passed)
	}
}

func TestComputeToolTimeout(t *testing.T) {
	if got := computeToolTimeout(Spec{TimeoutSec: 7}, time.Minute); got != 7*time.Second {
		t.Fatalf("per-spec timeout ignored: %v", got)
	}
	if got := computeToolTimeout(Spec{}, time.Minute); got != time.Minute {
		t.Fatalf("default timeout ignored: %v", got)
	}
}

func TestRedactSensitiveString(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-live-abc123")
	t.Setenv("SCAVENGER_REDACT", "token-[0-9]+")

	got := redactSensitiveString("argv sk-live-abc123 token-42 rest")
	if strings.Contains(got, "sk-live-abc123") || strings.Contains(got, "token-42") {
		t.Fatalf("redaction failed: %q", got)
	}
	if !strings.Contains(got, "***REDACTED***") {
		t.Fatalf("expected redaction markers: %q", got)
	}
	_ = os.Unsetenv("SCAVENGER_REDACT")
}

func TestRedactSensitiveString_PatternChangeTakesEffect(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GCP_API_KEY", "")
	t.Setenv("SCAVENGER_REDACT", "alpha-[0-9]+")
	if got := redactSensitiveString("alpha-1 beta-2"); strings.Contains(got, "alpha-1") {
		t.Fatalf("first pattern not applied: %q", got)
	}

	t.Setenv("SCAVENGER_REDACT", "beta-[0-9]+")
	got := redactSensitiveString("alpha-1 beta-2")
	if strings.Contains(got, "beta-2") {
		t.Fatalf("updated pattern not applied: %q", got)
	}
	if !strings.Contains(got, "alpha-1") {
		t.Fatalf("stale pattern still applied: %q", got)
	}

	t.Setenv("SCAVENGER_REDACT", "")
	if got := redactSensitiveString("alpha-1 beta-2"); got != "alpha-1 beta-2" {
		t.Fatalf("cleared config must redact nothing: %q", got)
	}
}
