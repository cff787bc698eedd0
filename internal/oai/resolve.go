package oai

import (
	"strconv"
	"strings"
)

// ResolveString resolves a string value with precedence:
// flag > env > default.
// Returns the resolved value and a source label: "flag"|"env"|"default".
func ResolveString(flagValue, envValue, def string) (string, string) {
	if fv := strings.TrimSpace(flagValue); fv != "" {
		return fv, "flag"
	}
	if ev := strings.TrimSpace(envValue); ev != "" {
		return ev, "env"
	}
	return def, "default"
}

// ResolveInt resolves an int with the same precedence as ResolveString.
// An env value that fails to parse falls through to the default.
func ResolveInt(flagSet bool, flagValue int, envValue string, def int) (int, string) {
	if flagSet {
		return flagValue, "flag"
	}
	if ev := strings.TrimSpace(envValue); ev != "" {
		if n, err := strconv.Atoi(ev); err == nil {
			return n, "env"
		}
	}
	return def, "default"
}

// MaskAPIKeyLast4 returns a redacted representation of an API key showing only
// the last 4 characters. Empty input returns an empty string.
func MaskAPIKeyLast4(key string) string {
	k := strings.TrimSpace(key)
	if k == "" {
		return ""
	}
	if len(k) <= 4 {
		return "****" + k
	}
	return "****" + k[len(k)-4:]
}
