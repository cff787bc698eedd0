// log_search scans files in the working tree for a pattern and reports
// per-match path, line, column and a preview line. Input is JSON on stdin:
//
//	{"query":"string","regex":bool,"ignoreCase":bool,"globs":["*.log"],"maxResults":int}
//
// Output is JSON on stdout: {"matches":[...],"truncated":bool}.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

type searchInput struct {
	Query      string   `json:"query"`
	Regex      bool     `json:"regex,omitempty"`
	IgnoreCase bool     `json:"ignoreCase,omitempty"`
	Globs      []string `json:"globs,omitempty"`
	MaxResults int      `json:"maxResults,omitempty"`
}

type match struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Preview string `json:"preview"`
}

type searchOutput struct {
	Matches   []match `json:"matches"`
	Truncated bool    `json:"truncated"`
}

const (
	defaultMaxResults = 1000
	previewCap        = 200
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}

func run(r io.Reader, w io.Writer) error {
	in, err := readInput(r)
	if err != nil {
		return err
	}
	matches, truncated, err := search(".", in)
	if err != nil {
		return err
	}
	if matches == nil {
		matches = []match{}
	}
	return json.NewEncoder(w).Encode(searchOutput{Matches: matches, Truncated: truncated})
}

func readInput(r io.Reader) (searchInput, error) {
	var in searchInput
	b, err := io.ReadAll(r)
	if err != nil {
		return in, fmt.Errorf("read stdin: %w", err)
	}
	if err := json.Unmarshal(b, &in); err != nil {
		return in, fmt.Errorf("parse json: %w", err)
	}
	if strings.TrimSpace(in.Query) == "" {
		return in, errors.New("query is required")
	}
	return in, nil
}

func compileMatcher(in searchInput) (func(line string) int, error) {
	if in.Regex {
		expr := in.Query
		if in.IgnoreCase {
			expr = "(?i)" + expr
		}
		rx, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("bad regex: %w", err)
		}
		return func(line string) int {
			if loc := rx.FindStringIndex(line); loc != nil {
				return loc[0]
			}
			return -1
		}, nil
	}
	query := in.Query
	if in.IgnoreCase {
		query = strings.ToLower(query)
		return func(line string) int {
			return strings.Index(strings.ToLower(line), query)
		}, nil
	}
	return func(line string) int { return strings.Index(line, query) }, nil
}

func search(root string, in searchInput) ([]match, bool, error) {
	matchLine, err := compileMatcher(in)
	if err != nil {
		return nil, false, err
	}
	max := in.MaxResults
	if max <= 0 {
		max = defaultMaxResults
	}

	var matches []match
	truncated := false
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			// Skip VCS metadata and the audit directory.
			if d.Name() == ".git" || d.Name() == ".scavenger" {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesAnyGlob(rel, in.Globs) {
			return nil
		}
		found, fileErr := scanFile(path, rel, matchLine, max-len(matches))
		if fileErr != nil {
			return nil
		}
		matches = append(matches, found...)
		if len(matches) >= max {
			truncated = true
			return fs.SkipAll
		}
		return nil
	})
	if walkErr != nil {
		return nil, false, walkErr
	}
	return matches, truncated, nil
}

func scanFile(path, rel string, matchLine func(string) int, budget int) ([]match, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	var out []match
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		idx := matchLine(line)
		if idx < 0 {
			continue
		}
		out = append(out, match{Path: rel, Line: lineNo, Col: idx + 1, Preview: preview(line)})
		if len(out) >= budget {
			break
		}
	}
	return out, sc.Err()
}

func preview(line string) string {
	line = strings.TrimRight(line, "\r")
	if len(line) > previewCap {
		return line[:previewCap]
	}
	return line
}

// matchesAnyGlob matches rel against the provided globs. A glob applies to
// the base name unless it contains a path separator. Empty globs match
// everything.
func matchesAnyGlob(rel string, globs []string) bool {
	if len(globs) == 0 {
		return true
	}
	base := filepath.Base(rel)
	for _, g := range globs {
		g = filepath.ToSlash(g)
		target := base
		if strings.Contains(g, "/") {
			target = rel
			g = strings.TrimPrefix(g, "**/")
			if ok, _ := filepath.Match(g, target); ok {
				return true
			}
			// also try the base for "**/*.ext" style patterns
			target = base
		}
		if ok, _ := filepath.Match(g, target); ok {
			return true
		}
	}
	return false
}
