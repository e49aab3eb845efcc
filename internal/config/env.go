package config

import (
	"os"
	"strconv"
	"time"
)

// LoadFromEnv loads configuration from environment variables.
// Environment variables override file and default values.
func LoadFromEnv(cfg *Config) {
	if dbPath := os.Getenv("CALLWATCH_DB_PATH"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	if pollInterval := os.Getenv("CALLWATCH_POLL_INTERVAL"); pollInterval != "" {
		if seconds, err := strconv.Atoi(pollInterval); err == nil && seconds > 0 {
			interval := time.Duration(seconds) * time.Second
			if interval >= cfg.Detector.MinPollInterval && interval <= cfg.Detector.MaxPollInterval {
				cfg.Detector.PollInterval = interval
			}
		}
	}

	if cooldown := os.Getenv("CALLWATCH_COOLDOWN"); cooldown != "" {
		if seconds, err := strconv.Atoi(cooldown); err == nil && seconds >= 0 {
			cfg.Detector.Cooldown = time.Duration(seconds) * time.Second
		}
	}

	if outputDir := os.Getenv("CALLWATCH_RECORDING_DIR"); outputDir != "" {
		cfg.Recording.OutputDir = outputDir
	}

	if pidFile := os.Getenv("CALLWATCH_PID_FILE"); pidFile != "" {
		cfg.Daemon.PIDFile = pidFile
	}

	if webHost := os.Getenv("CALLWATCH_WEB_HOST"); webHost != "" {
		cfg.Web.Host = webHost
	}

	if webPort := os.Getenv("CALLWATCH_WEB_PORT"); webPort != "" {
		if port, err := strconv.Atoi(webPort); err == nil && port > 0 && port <= 65535 {
			cfg.Web.Port = port
		}
	}
}

// New creates a new Config from defaults, the optional config file, and
// environment overrides, in that order.
func New() *Config {
	cfg := Default()
	LoadFromFile(cfg)
	LoadFromEnv(cfg)
	return cfg
}
