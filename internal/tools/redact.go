package tools

import (
	"os"
	"regexp"
	"strings"
	"sync"
)

// redactMask replaces every sensitive substring in audit output.
const redactMask = "***REDACTED***"

// secretEnvKeys are env vars whose values are masked wherever they appear.
var secretEnvKeys = []string{"OPENAI_API_KEY", "GCP_API_KEY"}

// patternCache memoizes the compiled SCAVENGER_REDACT patterns keyed by the
// raw variable value, so audit lines do not recompile regexes. Secret env
// values are cheap literals and are read fresh on every call.
var patternCache struct {
	mu       sync.Mutex
	key      string
	loaded   bool
	regexps  []*regexp.Regexp
	literals []string
}

// redactSensitiveStrings applies redactSensitiveString to each element and
// returns a new slice.
func redactSensitiveStrings(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = redactSensitiveString(v)
	}
	return out
}

// redactSensitiveString masks configured sensitive patterns and known secret
// env values. Patterns come from SCAVENGER_REDACT: comma/semicolon-separated
// entries, each compiled as a regex or kept as a literal when compilation
// fails.
func redactSensitiveString(s string) string {
	if s == "" {
		return s
	}
	regexps, literals := configuredPatterns()
	for _, rx := range regexps {
		s = rx.ReplaceAllString(s, redactMask)
	}
	for _, lit := range literals {
		s = strings.ReplaceAll(s, lit, redactMask)
	}
	for _, key := range secretEnvKeys {
		if v := os.Getenv(key); v != "" {
			s = strings.ReplaceAll(s, v, redactMask)
		}
	}
	return s
}

func configuredPatterns() ([]*regexp.Regexp, []string) {
	cfg := os.Getenv("SCAVENGER_REDACT")
	patternCache.mu.Lock()
	defer patternCache.mu.Unlock()
	if !patternCache.loaded || cfg != patternCache.key {
		patternCache.key = cfg
		patternCache.loaded = true
		patternCache.regexps = nil
		patternCache.literals = nil
		for _, f := range strings.FieldsFunc(cfg, func(r rune) bool { return r == ',' || r == ';' }) {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if rx, err := regexp.Compile(f); err == nil {
				patternCache.regexps = append(patternCache.regexps, rx)
			} else {
				patternCache.literals = append(patternCache.literals, f)
			}
		}
	}
	return patternCache.regexps, patternCache.literals
}
