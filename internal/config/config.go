// Package config resolves the bot's runtime configuration from the
// environment. In CI everything arrives as env vars: repository auth,
// completion provider connection, and action inputs (INPUT_* per the
// GitHub Actions convention).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the resolved configuration for one run.
type Config struct {
	// GitHubToken authenticates repository API calls.
	GitHubToken string

	// GitHubAPIURL overrides the API base URL (GitHub Enterprise).
	GitHubAPIURL string

	// EventPath is the file holding the trigger event payload.
	EventPath string

	// Provider is the registered completion provider name.
	Provider string

	// Exclude holds glob patterns for paths that must not be reviewed.
	Exclude []string

	// Debug enables verbose logging.
	Debug bool

	// Settings is the provider-scoped configuration subtree handed to the
	// provider factory.
	Settings *viper.Viper
}

// Load resolves configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		GitHubToken:  os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL: os.Getenv("GITHUB_API_URL"),
		EventPath:    os.Getenv("GITHUB_EVENT_PATH"),
		Provider:     resolveProviderName(),
		Exclude:      ParseExcludes(firstEnv("INPUT_EXCLUDE", "EXCLUDE")),
		Debug:        os.Getenv("RUNNER_DEBUG") == "1" || os.Getenv("DEBUG") == "true",
	}

	if cfg.GitHubToken == "" {
		return nil, fmt.Errorf("config: GITHUB_TOKEN is required")
	}
	if cfg.EventPath == "" {
		return nil, fmt.Errorf("config: GITHUB_EVENT_PATH is required")
	}

	cfg.Settings = providerSettings(cfg.Provider)
	return cfg, nil
}

func resolveProviderName() string {
	name := firstEnv("REVU_PROVIDER", "PROVIDER")
	if name == "" {
		name = "azure"
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// providerSettings builds the viper subtree a provider factory consumes.
// The generic ENDPOINT / API_KEY / API_VERSION / DEPLOYMENT variables are
// recognized for every provider; provider-specific aliases override file
// defaults the same way the shell would.
func providerSettings(name string) *viper.Viper {
	v := viper.New()
	v.SetDefault("max_tokens", 1024)

	overrideFromEnv(v, "base_url", "ENDPOINT")
	overrideFromEnv(v, "api_key", "API_KEY")
	overrideFromEnv(v, "api_version", "API_VERSION")
	overrideFromEnv(v, "model", "DEPLOYMENT")
	overrideFromEnv(v, "model", "MODEL")
	overrideFromEnv(v, "max_tokens", "MAX_TOKENS")
	overrideFromEnv(v, "timeout", "TIMEOUT")

	switch name {
	case "azure":
		v.SetDefault("api_version", "2024-02-01")
		overrideFromEnv(v, "api_key", "AZURE_OPENAI_API_KEY")
		overrideFromEnv(v, "model", "AZURE_OPENAI_DEPLOYMENT")
		overrideFromEnv(v, "base_url", "AZURE_OPENAI_ENDPOINT")
		overrideFromEnv(v, "api_version", "AZURE_OPENAI_API_VERSION")
	case "openai":
		v.SetDefault("model", "gpt-4o")
		v.SetDefault("base_url", "https://api.openai.com/v1")
		overrideFromEnv(v, "api_key", "OPENAI_API_KEY")
		overrideFromEnv(v, "model", "OPENAI_API_MODEL")
		overrideFromEnv(v, "base_url", "OPENAI_API_BASE")
	}

	return v
}

func overrideFromEnv(v *viper.Viper, key, envName string) {
	if value := strings.TrimSpace(os.Getenv(envName)); value != "" {
		v.Set(key, value)
	}
}

func firstEnv(names ...string) string {
	for _, n := range names {
		if value := os.Getenv(n); value != "" {
			return value
		}
	}
	return ""
}

// ParseExcludes splits a comma-separated pattern list, trimming whitespace
// and dropping empty entries. Empty input means no exclusions.
func ParseExcludes(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
