package config

import (
	"os"
	"strings"
	"time"
)

const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Config holds CLI defaults. Subcommand flags override these values.
type Config struct {
	Format  string
	Strict  bool
	NoColor bool
	Verbose bool
	Leeway  time.Duration
}

// DefaultFromEnv creates a Config with defaults from environment variables.
func DefaultFromEnv() *Config {
	return &Config{
		Format:  envOrDefault("JWTINFO_FORMAT", FormatText),
		Strict:  envBool("JWTINFO_STRICT"),
		NoColor: envBool("JWTINFO_NO_COLOR") || os.Getenv("NO_COLOR") != "",
		Verbose: envBool("JWTINFO_VERBOSE"),
		Leeway:  envDuration("JWTINFO_LEEWAY", 0),
	}
}

// ValidFormat reports whether f is a supported output format.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return strings.ToLower(strings.TrimSpace(v))
	}
	return defaultVal
}

func envBool(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return defaultVal
	}
	return d
}
