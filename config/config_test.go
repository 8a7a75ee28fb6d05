package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("SHEET_API_URL", "https://script.google.com/macros/s/abc/exec")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)
	for _, key := range []string{"PORT", "FRONTEND_URL", "SHEET_TIMEOUT_SECONDS", "SESSION_TTL_HOURS", "AUDIT_DB_PATH", "RATE_LIMIT", "REFRESH_SCHEDULE", "ALIAS_CONFIG_PATH"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://localhost:3000", cfg.FrontendURL)
	assert.Equal(t, 30*time.Second, cfg.SheetTimeout)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "./rainmaker-audit.db", cfg.AuditDBPath)
	assert.Equal(t, 100, cfg.RateLimit)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Empty(t, cfg.RefreshSchedule)
	assert.Nil(t, cfg.AliasOverrides)
}

func TestLoadRequiresSheetURL(t *testing.T) {
	t.Setenv("SHEET_API_URL", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHEET_API_URL")
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("SHEET_API_URL", "https://example.com/exec")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadReadsDurationsByUnitSuffix(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHEET_TIMEOUT_SECONDS", "10")
	t.Setenv("SESSION_TTL_HOURS", "24")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.SheetTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SHEET_TIMEOUT_SECONDS", "not-a-number")
	t.Setenv("RATE_LIMIT", "-5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.SheetTimeout)
	assert.Equal(t, 100, cfg.RateLimit)
}

func TestLoadAliasOverridesFromYAML(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "aliases.yaml")
	yaml := `datasets:
  Weekly_Report:
    title: ["content", "업무내용", "custom_col"]
  Monthly_Quote:
    amount: ["견적금액"]
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("ALIAS_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Contains(t, cfg.AliasOverrides, "Weekly_Report")
	assert.Equal(t, []string{"content", "업무내용", "custom_col"}, cfg.AliasOverrides["Weekly_Report"]["title"])
	assert.Equal(t, []string{"견적금액"}, cfg.AliasOverrides["Monthly_Quote"]["amount"])
}

func TestLoadFailsOnMissingAliasFile(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALIAS_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "alias config")
}
