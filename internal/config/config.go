// Package config resolves Scavenger settings from a .env file and the
// process environment. A missing .env file is not an error; the process
// environment always wins over file contents.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable keys.
const (
	EnvAPIKey        = "OPENAI_API_KEY"
	EnvModel         = "MODEL"
	EnvBaseURL       = "BASE_URL"
	EnvGCPAPIKey     = "GCP_API_KEY"
	EnvArchiveBucket = "SCAVENGER_ARCHIVE_BUCKET"
	EnvLogLevel      = "SCAVENGER_LOG_LEVEL"
	EnvMaxIterations = "SCAVENGER_MAX_ITERATIONS"
)

// Config holds the completion client settings plus the optional cloud
// connector credentials.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	// GCPAPIKey optionally carries service-account JSON for the storage
	// connector.
	GCPAPIKey     string
	ArchiveBucket string
	LogLevel      string
	// MaxIterations is kept as the raw env string; the CLI resolves it
	// against the flag with the usual precedence.
	MaxIterations string
}

// Load reads .env (when present) into the process environment without
// overriding variables that are already set, then snapshots the keys
// Scavenger cares about.
func Load() Config {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit dotenv path, for tests.
func LoadFrom(path string) Config {
	if _, err := os.Stat(path); err == nil {
		// Existing process env takes precedence over file values.
		_ = godotenv.Load(path)
	}
	return Config{
		APIKey:        strings.TrimSpace(os.Getenv(EnvAPIKey)),
		Model:         strings.TrimSpace(os.Getenv(EnvModel)),
		BaseURL:       strings.TrimSpace(os.Getenv(EnvBaseURL)),
		GCPAPIKey:     strings.TrimSpace(os.Getenv(EnvGCPAPIKey)),
		ArchiveBucket: strings.TrimSpace(os.Getenv(EnvArchiveBucket)),
		LogLevel:      strings.TrimSpace(os.Getenv(EnvLogLevel)),
		MaxIterations: strings.TrimSpace(os.Getenv(EnvMaxIterations)),
	}
}

// ValidateCompletion checks the fields required to talk to the chat
// completions API. The task runner path does not call this.
func (c Config) ValidateCompletion() error {
	var missing []string
	if c.Model == "" {
		missing = append(missing, EnvModel)
	}
	if c.BaseURL == "" {
		missing = append(missing, EnvBaseURL)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
