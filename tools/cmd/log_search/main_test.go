package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	return root
}

func TestSearch_PlainMatch(t *testing.T) {
	root := writeTree(t, map[string]string{
		"app.log":   "ok\nERROR timeout\nok\n",
		"other.txt": "nothing here\n",
	})
	matches, truncated, err := search(root, searchInput{Query: "ERROR"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if truncated {
		t.Fatalf("unexpected truncation")
	}
	if len(matches) != 1 {
		t.Fatalf("matches = %v", matches)
	}
	m := matches[0]
	if m.Path != "app.log" || m.Line != 2 || m.Col != 1 || m.Preview != "ERROR timeout" {
		t.Fatalf("match = %+v", m)
	}
}

func TestSearch_RegexAndIgnoreCase(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.log": "warn: disk\nWARN: net\n",
	})
	matches, _, err := search(root, searchInput{Query: "^warn", Regex: true, IgnoreCase: true})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %v", matches)
	}
}

func TestSearch_BadRegex(t *testing.T) {
	if _, _, err := search(t.TempDir(), searchInput{Query: "(", Regex: true}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestSearch_GlobFilter(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.log":        "hit\n",
		"b.txt":        "hit\n",
		"nested/c.log": "hit\n",
	})
	matches, _, err := search(root, searchInput{Query: "hit", Globs: []string{"*.log"}})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, m := range matches {
		if !strings.HasSuffix(m.Path, ".log") {
			t.Fatalf("glob leaked %q", m.Path)
		}
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %v", matches)
	}
}

func TestSearch_MaxResultsTruncates(t *testing.T) {
	root := writeTree(t, map[string]string{
		"a.log": "x\nx\nx\nx\nx\n",
	})
	matches, truncated, err := search(root, searchInput{Query: "x", MaxResults: 3})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 3 || !truncated {
		t.Fatalf("matches = %d truncated = %v", len(matches), truncated)
	}
}

func TestSearch_SkipsGitDir(t *testing.T) {
	root := writeTree(t, map[string]string{
		".git/config": "secret\n",
		"a.log":       "secret\n",
	})
	matches, _, err := search(root, searchInput{Query: "secret"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 || matches[0].Path != "a.log" {
		t.Fatalf("matches = %v", matches)
	}
}

func TestRun_JSONContract(t *testing.T) {
	root := writeTree(t, map[string]string{"a.log": "needle\n"})
	wd, _ := os.Getwd()
	if err := os.Chdir(root); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(wd) }()

	var out bytes.Buffer
	if err := run(strings.NewReader(`{"query":"needle"}`), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	var got searchOutput
	if err := json.Unmarshal(out.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Matches) != 1 || got.Matches[0].Path != "a.log" {
		t.Fatalf("output = %+v", got)
	}
}

func TestRun_RejectsMissingQuery(t *testing.T) {
	var out bytes.Buffer
	if err := run(strings.NewReader(`{}`), &out); err == nil {
		t.Fatalf("expected error")
	}
}
