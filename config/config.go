package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the service configuration, read from the environment (a .env file
// is loaded by main before this runs) with an optional YAML file for the
// per-dataset column alias tables.
type Config struct {
	Port        string
	FrontendURL string

	// SheetAPIURL is the external sheet script endpoint, the authoritative
	// store this service fronts.
	SheetAPIURL  string
	SheetTimeout time.Duration

	JWTSecret   string
	SessionTTL  time.Duration

	AuditDBPath string

	SlackToken   string
	SlackChannel string

	AnthropicAPIKey string
	AnthropicModel  string

	// RefreshSchedule is a cron expression for the background announcements
	// refresh; empty disables it.
	RefreshSchedule string

	RateLimit       int
	RateLimitWindow time.Duration

	// AliasOverrides replaces built-in alias entries per dataset and field.
	AliasOverrides map[string]map[string][]string
}

// Load reads the configuration. Only the sheet endpoint and the JWT secret
// are mandatory; everything else has a default or is optional.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            envOr("PORT", "8080"),
		FrontendURL:     envOr("FRONTEND_URL", "http://localhost:3000"),
		SheetAPIURL:     os.Getenv("SHEET_API_URL"),
		SheetTimeout:    envDurationOr("SHEET_TIMEOUT_SECONDS", 30*time.Second),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		SessionTTL:      envDurationOr("SESSION_TTL_HOURS", 12*time.Hour),
		AuditDBPath:     envOr("AUDIT_DB_PATH", "./rainmaker-audit.db"),
		SlackToken:      os.Getenv("SLACK_BOT_TOKEN"),
		SlackChannel:    os.Getenv("SLACK_APPROVAL_CHANNEL"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  os.Getenv("ANTHROPIC_MODEL"),
		RefreshSchedule: os.Getenv("REFRESH_SCHEDULE"),
		RateLimit:       envIntOr("RATE_LIMIT", 100),
		RateLimitWindow: time.Minute,
	}

	if cfg.SheetAPIURL == "" {
		return nil, fmt.Errorf("SHEET_API_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if path := os.Getenv("ALIAS_CONFIG_PATH"); path != "" {
		overrides, err := loadAliasOverrides(path)
		if err != nil {
			return nil, fmt.Errorf("load alias config: %w", err)
		}
		cfg.AliasOverrides = overrides
	}

	return cfg, nil
}

// aliasFile is the YAML shape of an alias override file:
//
//	datasets:
//	  Weekly_Report:
//	    title: ["content", "업무내용"]
type aliasFile struct {
	Datasets map[string]map[string][]string `yaml:"datasets"`
}

func loadAliasOverrides(path string) (map[string]map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var parsed aliasFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	return parsed.Datasets, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// envDurationOr reads a duration whose unit is encoded in the key name
// (_SECONDS or _HOURS).
func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	if len(key) > 6 && key[len(key)-6:] == "_HOURS" {
		return time.Duration(n) * time.Hour
	}
	return time.Duration(n) * time.Second
}
