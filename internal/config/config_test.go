package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFrom_ReadsDotenv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "OPENAI_API_KEY=sk-file\nMODEL=gpt-test\nBASE_URL=http://localhost:1234/v1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	for _, k := range []string{EnvAPIKey, EnvModel, EnvBaseURL} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := LoadFrom(path)
	if cfg.APIKey != "sk-file" || cfg.Model != "gpt-test" || cfg.BaseURL != "http://localhost:1234/v1" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadFrom_ProcessEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("MODEL=from-file\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv(EnvModel, "from-env")

	cfg := LoadFrom(path)
	if cfg.Model != "from-env" {
		t.Fatalf("process env must win, got %q", cfg.Model)
	}
}

func TestLoadFrom_MissingFileIsFine(t *testing.T) {
	t.Setenv(EnvModel, "m")
	t.Setenv(EnvBaseURL, "http://x/v1")
	cfg := LoadFrom(filepath.Join(t.TempDir(), "nope.env"))
	if cfg.Model != "m" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestValidateCompletion(t *testing.T) {
	ok := Config{Model: "m", BaseURL: "http://x/v1"}
	if err := ok.ValidateCompletion(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := Config{}.ValidateCompletion()
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, want := range []string{EnvModel, EnvBaseURL} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error %q missing %q", err, want)
		}
	}
}
