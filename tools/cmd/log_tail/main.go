// log_tail returns the last N lines of a file with a bounded read. Input is
// JSON on stdin:
//
//	{"path":"string","lines":int,"maxBytes":int}
//
// Output is JSON on stdout: {"content":"...","lines":int,"truncated":bool}.
// The path must be relative to the working tree; parent escapes are
// rejected.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type tailInput struct {
	Path     string `json:"path"`
	Lines    int    `json:"lines,omitempty"`
	MaxBytes int    `json:"maxBytes,omitempty"`
}

type tailOutput struct {
	Content string `json:"content"`
	Lines   int    `json:"lines"`
	// Truncated reports that the byte bound cut the read short, so earlier
	// lines may exist beyond it.
	Truncated bool `json:"truncated"`
}

const (
	defaultLines    = 10
	defaultMaxBytes = 64 * 1024
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		msg := strings.TrimSpace(err.Error())
		if errors.Is(err, os.ErrNotExist) {
			msg = "NOT_FOUND: " + msg
		}
		fmt.Fprintln(os.Stderr, msg)
		os.Exit(1)
	}
}

func run(r io.Reader, w io.Writer) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	var in tailInput
	if err := json.Unmarshal(b, &in); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}
	out, err := tail(in)
	if err != nil {
		return err
	}
	return json.NewEncoder(w).Encode(out)
}

func tail(in tailInput) (tailOutput, error) {
	if strings.TrimSpace(in.Path) == "" {
		return tailOutput{}, errors.New("path is required")
	}
	if filepath.IsAbs(in.Path) || strings.Contains(filepath.ToSlash(in.Path), "../") {
		return tailOutput{}, fmt.Errorf("path %q must stay inside the working tree", in.Path)
	}
	lines := in.Lines
	if lines <= 0 {
		lines = defaultLines
	}
	maxBytes := in.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxBytes
	}

	f, err := os.Open(in.Path)
	if err != nil {
		return tailOutput{}, err
	}
	defer func() { _ = f.Close() }()

	st, err := f.Stat()
	if err != nil {
		return tailOutput{}, fmt.Errorf("stat %s: %w", in.Path, err)
	}
	size := st.Size()
	offset := int64(0)
	truncated := false
	if size > int64(maxBytes) {
		offset = size - int64(maxBytes)
		truncated = true
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return tailOutput{}, fmt.Errorf("seek %s: %w", in.Path, err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return tailOutput{}, fmt.Errorf("read %s: %w", in.Path, err)
	}

	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return tailOutput{Content: "", Lines: 0, Truncated: truncated}, nil
	}
	all := strings.Split(text, "\n")
	if offset > 0 && len(all) > 0 {
		// The first line after a mid-file seek is almost surely partial.
		all = all[1:]
	}
	if len(all) > lines {
		all = all[len(all)-lines:]
	}
	return tailOutput{Content: strings.Join(all, "\n"), Lines: len(all), Truncated: truncated}, nil
}
