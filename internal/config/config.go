package config

import (
	"fmt"
	"net/url"
	"os"
	"time"
)

type Config struct {
	// APIBaseURL is the single upstream HR API base. Every component goes
	// through this one value; per-view URLs are not allowed.
	APIBaseURL string

	PortalAddr  string
	SessionFile string

	HTTPTimeout  time.Duration
	PollInterval time.Duration
	BannerTTL    time.Duration

	PageSize int
}

func Load() (*Config, error) {
	httpTimeout, err := time.ParseDuration(getEnv("HTTP_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	pollInterval, err := time.ParseDuration(getEnv("POLL_INTERVAL", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL: %w", err)
	}
	bannerTTL, err := time.ParseDuration(getEnv("BANNER_TTL", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid BANNER_TTL: %w", err)
	}

	cfg := &Config{
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:3000"),
		PortalAddr:   getEnv("PORTAL_ADDR", "localhost:8080"),
		SessionFile:  getEnv("SESSION_DB", "stafflink.db"),
		HTTPTimeout:  httpTimeout,
		PollInterval: pollInterval,
		BannerTTL:    bannerTTL,
		PageSize:     5,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", c.APIBaseURL)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be greater than 0")
	}

	if c.BannerTTL <= 0 {
		return fmt.Errorf("BANNER_TTL must be greater than 0")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
