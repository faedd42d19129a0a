// Package config manages application configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is the API host root. Endpoint paths (youtube/v3/...)
// are resolved against it, which keeps one override point for tests.
const DefaultBaseURL = "https://www.googleapis.com"

// Config holds all application configuration for extraction runs.
type Config struct {
	// APIKey is the YouTube Data API key (env: YT_DATA_API)
	APIKey string `json:"api_key"`
	// BaseURL is the catalog API base URL
	BaseURL string `json:"base_url"`
	// HTTPTimeout is the per-request deadline for remote calls
	HTTPTimeout time.Duration `json:"http_timeout"`

	// MonthsBack is the default look-back window in whole months (1-60)
	MonthsBack int `json:"months_back"`
	// OutputDir is where export archives are written
	OutputDir string `json:"output_dir"`

	// MaxRetries is the number of retries after a failed remote call
	MaxRetries int `json:"max_retries"`
	// InitialBackoff is the initial backoff duration for retries
	InitialBackoff time.Duration `json:"initial_backoff"`
	// MaxBackoff is the maximum backoff duration for retries
	MaxBackoff time.Duration `json:"max_backoff"`
	// BackoffMultiplier is the multiplier for exponential backoff (must be > 1)
	BackoffMultiplier float64 `json:"backoff_multiplier"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:           DefaultBaseURL,
		HTTPTimeout:       20 * time.Second,
		MonthsBack:        6,
		OutputDir:         "output",
		MaxRetries:        2,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// Load loads configuration from environment variables, config file, and applies defaults.
// Priority: env vars > config file > defaults. A .env file in the working
// directory is read first so YT_DATA_API can live there.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytextract.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytextract.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytextract", "ytextract.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YT_DATA_API"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTEXTRACT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("YTEXTRACT_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv("YTEXTRACT_MONTHS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MonthsBack = n
		}
	}
	if v := os.Getenv("YTEXTRACT_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("YTEXTRACT_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTEXTRACT_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTEXTRACT_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url must not be empty")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.MonthsBack < 1 || c.MonthsBack > 60 {
		return fmt.Errorf("months_back must be between 1 and 60")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	if c.BackoffMultiplier <= 1 {
		return fmt.Errorf("backoff_multiplier must be > 1")
	}
	return nil
}
