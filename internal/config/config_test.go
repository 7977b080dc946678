package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "development", cfg.General.Environment)
	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, "json", cfg.General.LogFormat)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Server.CacheTTL)
	assert.Equal(t, float64(10), cfg.Server.RateLimitRPS)
	assert.Equal(t, 8*time.Second, cfg.Analyzer.EnrichTimeout)

	assert.Equal(t, 10*time.Minute, cfg.Analyzer.Classify.QuickWithdrawalWindow)
	assert.Equal(t, float64(40), cfg.Analyzer.Scoring.Bands.Medium)
	assert.Equal(t, float64(80), cfg.Analyzer.Scoring.Bands.Critical)

	require.NoError(t, cfg.Validate())
}

func TestLoadOverridesAndDefaults(t *testing.T) {
	path := writeConfig(t, `
general:
  environment: production
  log_level: warn
server:
  addr: ":9090"
  rate_limit_rps: 25
analyzer:
  scoring:
    bands:
      medium: 30
      high: 55
      critical: 75
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.General.Environment)
	assert.Equal(t, "warn", cfg.General.LogLevel)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, float64(25), cfg.Server.RateLimitRPS)

	// Unset fields fall back to defaults.
	assert.Equal(t, "json", cfg.General.LogFormat)
	assert.Equal(t, 30, cfg.Server.RateBurst)
	assert.Equal(t, 10*time.Minute, cfg.Analyzer.Classify.QuickWithdrawalWindow)

	assert.Equal(t, float64(30), cfg.Analyzer.Scoring.Bands.Medium)
	assert.Equal(t, float64(75), cfg.Analyzer.Scoring.Bands.Critical)
}

func TestLoadPartialAnalyzerSectionsKeepUserThresholds(t *testing.T) {
	path := writeConfig(t, `
analyzer:
  classify:
    dust_count_threshold: 10
  scoring:
    weights:
      cex_penalty: 50
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	// User-set fields survive.
	assert.Equal(t, 10, cfg.Analyzer.Classify.DustCountThreshold)
	assert.Equal(t, float64(50), cfg.Analyzer.Scoring.Weights.CEXPenalty)

	// Unset siblings in the same sections get their defaults.
	assert.Equal(t, 10*time.Minute, cfg.Analyzer.Classify.QuickWithdrawalWindow)
	assert.Equal(t, 2.0, cfg.Analyzer.Classify.AmountTolerancePct)
	assert.Equal(t, 1.0, cfg.Analyzer.Classify.DustMaxValueUSD)
	assert.Equal(t, float64(35), cfg.Analyzer.Scoring.Weights.MistakeCritical)
	assert.Equal(t, float64(50), cfg.Analyzer.Scoring.Weights.DegenMemecoinMax)
	assert.Equal(t, float64(40), cfg.Analyzer.Scoring.Bands.Medium)
	assert.Equal(t, float64(80), cfg.Analyzer.Scoring.Bands.Critical)
	assert.Equal(t, 30*24*time.Hour, cfg.Analyzer.Scoring.RecencyWindow)
}

func TestLoadExpandsEnvironmentVariables(t *testing.T) {
	t.Setenv("WALLETSPY_TEST_KEY", "sekrit")
	path := writeConfig(t, `
enrich:
  roast_endpoint: https://roast.example.com/v1
  roast_api_key: ${WALLETSPY_TEST_KEY}
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sekrit", cfg.Enrich.RoastAPIKey)
}

func TestLoadRejectsNonIncreasingBands(t *testing.T) {
	path := writeConfig(t, `
analyzer:
  scoring:
    bands:
      medium: 60
      high: 50
      critical: 80
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strictly increasing")
}

func TestLoadRejectsNegativeRateLimit(t *testing.T) {
	path := writeConfig(t, `
server:
  rate_limit_rps: -1
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit_rps")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "general: [not a map")
	_, err := Load(path)
	assert.Error(t, err)
}
