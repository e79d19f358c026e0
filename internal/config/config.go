package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Monitoring endpoint
	MonitorURL         string
	MonitorUser        string
	MonitorPassword    string
	MonitorInsecureTLS bool
	MonitorSelector    string

	// Auth for this service's own API (optional)
	APIKey string

	// Scrape behavior
	FetchTimeout time.Duration
	PollInterval time.Duration
	HistorySize  int

	// Report
	ReportTitle string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		MonitorURL:      envOr("MONITOR_URL", "https://localhost:9443"),
		MonitorUser:     os.Getenv("MONITOR_USER"),
		MonitorPassword: os.Getenv("MONITOR_PASSWORD"),
		// Appliances ship self-signed certificates, so verification is
		// off unless explicitly enabled.
		MonitorInsecureTLS: envBool("MONITOR_INSECURE_TLS", true),
		MonitorSelector:    os.Getenv("MONITOR_SELECTOR"),

		APIKey: os.Getenv("STATFLAT_API_KEY"),

		FetchTimeout: envDuration("FETCH_TIMEOUT", 30*time.Second),
		PollInterval: envDuration("POLL_INTERVAL", time.Minute),
		HistorySize:  envInt("HISTORY_SIZE", 60),

		ReportTitle: envOr("REPORT_TITLE", "Monitor statistics"),
	}

	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Minute
	}
	if cfg.HistorySize <= 0 {
		cfg.HistorySize = 60
	}

	return cfg
}

func (c Config) Validate() error {
	if c.MonitorURL == "" {
		return fmt.Errorf("MONITOR_URL is required")
	}
	if c.MonitorUser == "" {
		return fmt.Errorf("MONITOR_USER is required")
	}
	if c.MonitorPassword == "" {
		return fmt.Errorf("MONITOR_PASSWORD is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
