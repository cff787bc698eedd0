package tools

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Manifest is the on-disk shape of tools.json: external subprocess tools
// that speak JSON over stdin/stdout.
type Manifest struct {
	Tools []Spec `json:"tools"`
}

// LoadManifest reads tools.json and registers each external tool into reg.
// Relative command paths must stay inside ./tools/bin and are resolved
// against the manifest's directory so they do not depend on the process
// working directory.
func LoadManifest(manifestPath string, reg *Registry) error {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	var man Manifest
	if err := json.Unmarshal(data, &man); err != nil {
		return fmt.Errorf("parse manifest: %w", err)
	}
	manifestDir := filepath.Dir(manifestPath)
	for i, t := range man.Tools {
		if t.Name == "" {
			return fmt.Errorf("tool[%d]: name is required", i)
		}
		if _, dup := reg.Lookup(t.Name); dup {
			return fmt.Errorf("tool[%d] %q: duplicate name", i, t.Name)
		}
		if len(t.Command) < 1 {
			return fmt.Errorf("tool[%d] %q: command must have at least program name", i, t.Name)
		}
		if len(t.EnvPassthrough) > 0 {
			norm, err := normalizeEnvAllowlist(t.EnvPassthrough)
			if err != nil {
				return fmt.Errorf("tool[%d] %q: %v", i, t.Name, err)
			}
			t.EnvPassthrough = norm
		}
		resolved, err := resolveCommandPath(t.Command[0], manifestDir)
		if err != nil {
			return fmt.Errorf("tool[%d] %q: %v", i, t.Name, err)
		}
		t.Command[0] = resolved
		t.Run = nil
		reg.Register(t)
	}
	return nil
}

// resolveCommandPath validates argv[0]. Absolute paths pass through.
// Relative paths must stay inside ./tools/bin and are anchored at the
// manifest directory.
func resolveCommandPath(cmd0, manifestDir string) (string, error) {
	if filepath.IsAbs(cmd0) {
		return cmd0, nil
	}
	norm := filepath.ToSlash(path.Clean(strings.ReplaceAll(cmd0, "\\", "/")))
	if strings.HasPrefix(norm, "tools/") {
		norm = "./" + norm
	}
	if strings.HasPrefix(norm, "../") || norm == ".." {
		return "", fmt.Errorf("command[0] must not escape tools/bin (got %q)", cmd0)
	}
	if !strings.HasPrefix(norm, "./tools/bin/") {
		return "", fmt.Errorf("relative command[0] must start with ./tools/bin/ (got %q)", cmd0)
	}
	resolved := filepath.Join(manifestDir, filepath.FromSlash(strings.TrimPrefix(norm, "./")))
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return "", fmt.Errorf("resolve command[0]: %v", err)
	}
	return abs, nil
}

// normalizeEnvAllowlist normalizes, validates, and de-duplicates environment
// variable names. Names are upper-cased, trimmed, and must match
// [A-Z_][A-Z0-9_]*. Order of first occurrence is preserved.
func normalizeEnvAllowlist(keys []string) ([]string, error) {
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for idx, k := range keys {
		trimmed := strings.TrimSpace(k)
		if trimmed == "" {
			return nil, fmt.Errorf("envPassthrough[%d]: empty name", idx)
		}
		upper := strings.ToUpper(trimmed)
		if !isValidEnvName(upper) {
			return nil, fmt.Errorf("envPassthrough[%d]: invalid name %q (must match [A-Z_][A-Z0-9_]*)", idx, k)
		}
		if _, ok := seen[upper]; ok {
			continue
		}
		seen[upper] = struct{}{}
		out = append(out, upper)
	}
	return out, nil
}

func isValidEnvName(s string) bool {
	if len(s) == 0 {
		return false
	}
	c := s[0]
	if !((c >= 'A' && c <= 'Z') || c == '_') {
		return false
	}
	for i := 1; i < len(s); i++ {
		c = s[i]
		if !((c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_') {
			return false
		}
	}
	return true
}
