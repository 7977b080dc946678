package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/walletspy/walletspy/internal/analyzer"
)

// Config is the root configuration structure for WalletSpy.
type Config struct {
	General  GeneralConfig   `yaml:"general"`
	Server   ServerConfig    `yaml:"server"`
	Analyzer analyzer.Config `yaml:"analyzer"`
	Enrich   EnrichConfig    `yaml:"enrich"`
	RefData  RefDataConfig   `yaml:"refdata"`
}

type GeneralConfig struct {
	InstanceID  string `yaml:"instance_id"`
	Environment string `yaml:"environment"` // production|staging|development
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // json|text
}

type ServerConfig struct {
	Addr          string        `yaml:"addr"`
	CacheTTL      time.Duration `yaml:"cache_ttl"`
	RateLimitRPS  float64       `yaml:"rate_limit_rps"`
	RateBurst     int           `yaml:"rate_burst"`
	FeedDir       string        `yaml:"feed_dir"` // file-backed feed source for development
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`
}

type EnrichConfig struct {
	RoastEndpoint  string        `yaml:"roast_endpoint"`
	RoastAPIKey    string        `yaml:"roast_api_key"`
	SocialEndpoint string        `yaml:"social_endpoint"`
	Timeout        time.Duration `yaml:"timeout"`
}

type RefDataConfig struct {
	// OverlayPath points at a YAML file merged over the built-in tables.
	OverlayPath string `yaml:"overlay_path"`
}

// Load reads and validates a config file. Environment variables in the file
// are expanded, so secrets can stay out of the YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the full default configuration.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.General.InstanceID == "" {
		cfg.General.InstanceID = "walletspy-1"
	}
	if cfg.General.Environment == "" {
		cfg.General.Environment = "development"
	}
	if cfg.General.LogLevel == "" {
		cfg.General.LogLevel = "info"
	}
	if cfg.General.LogFormat == "" {
		cfg.General.LogFormat = "json"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.CacheTTL == 0 {
		cfg.Server.CacheTTL = 5 * time.Minute
	}
	if cfg.Server.RateLimitRPS == 0 {
		cfg.Server.RateLimitRPS = 10
	}
	if cfg.Server.RateBurst == 0 {
		cfg.Server.RateBurst = 30
	}
	if cfg.Server.ShutdownGrace == 0 {
		cfg.Server.ShutdownGrace = 10 * time.Second
	}
	if cfg.Enrich.Timeout == 0 {
		cfg.Enrich.Timeout = 8 * time.Second
	}

	def := analyzer.DefaultConfig()
	if cfg.Analyzer.EnrichTimeout == 0 {
		cfg.Analyzer.EnrichTimeout = cfg.Enrich.Timeout
	}

	// Partial analyzer sections merge per field: a user setting one threshold
	// must not lose the defaults for its siblings.
	cl, dcl := &cfg.Analyzer.Classify, def.Classify
	defaultDur(&cl.QuickWithdrawalWindow, dcl.QuickWithdrawalWindow)
	defaultFloat(&cl.AmountTolerancePct, dcl.AmountTolerancePct)
	defaultFloat(&cl.RoundUnit, dcl.RoundUnit)
	defaultDur(&cl.TimingWindow, dcl.TimingWindow)
	defaultInt(&cl.TimingMinOccurrences, dcl.TimingMinOccurrences)
	defaultFloat(&cl.DustMaxValueUSD, dcl.DustMaxValueUSD)
	defaultInt(&cl.DustCountThreshold, dcl.DustCountThreshold)

	w, dw := &cfg.Analyzer.Scoring.Weights, def.Scoring.Weights
	defaultFloat(&w.NetWorthMax, dw.NetWorthMax)
	defaultFloat(&w.TxCountMax, dw.TxCountMax)
	defaultFloat(&w.CEXPenalty, dw.CEXPenalty)
	defaultFloat(&w.MistakeCritical, dw.MistakeCritical)
	defaultFloat(&w.MistakeHigh, dw.MistakeHigh)
	defaultFloat(&w.MistakeMedium, dw.MistakeMedium)
	defaultFloat(&w.MistakeLow, dw.MistakeLow)
	defaultFloat(&w.SocialPenalty, dw.SocialPenalty)
	defaultFloat(&w.DegenMemecoinMax, dw.DegenMemecoinMax)
	defaultFloat(&w.DegenSwapMax, dw.DegenSwapMax)
	defaultFloat(&w.DegenRecencyMax, dw.DegenRecencyMax)

	b, db := &cfg.Analyzer.Scoring.Bands, def.Scoring.Bands
	defaultFloat(&b.Medium, db.Medium)
	defaultFloat(&b.High, db.High)
	defaultFloat(&b.Critical, db.Critical)
	defaultDur(&cfg.Analyzer.Scoring.RecencyWindow, def.Scoring.RecencyWindow)
}

func defaultDur(v *time.Duration, d time.Duration) {
	if *v == 0 {
		*v = d
	}
}

func defaultFloat(v *float64, d float64) {
	if *v == 0 {
		*v = d
	}
}

func defaultInt(v *int, d int) {
	if *v == 0 {
		*v = d
	}
}

// Validate rejects configurations that cannot work.
func (c *Config) Validate() error {
	if c.Server.RateLimitRPS < 0 {
		return fmt.Errorf("config: rate_limit_rps must be >= 0")
	}
	b := c.Analyzer.Scoring.Bands
	if !(b.Medium < b.High && b.High < b.Critical) {
		return fmt.Errorf("config: risk bands must be strictly increasing, got %v/%v/%v", b.Medium, b.High, b.Critical)
	}
	if c.Analyzer.Classify.AmountTolerancePct < 0 || c.Analyzer.Classify.AmountTolerancePct > 100 {
		return fmt.Errorf("config: amount_tolerance_pct out of range")
	}
	return nil
}
