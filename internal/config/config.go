package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Detector configuration
	Detector DetectorConfig

	// Recording configuration
	Recording RecordingConfig

	// Daemon configuration
	Daemon DaemonConfig

	// Web server configuration
	Web WebConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // Path to SQLite database file
}

// DetectorConfig holds meeting-detection behavior configuration
type DetectorConfig struct {
	PollInterval    time.Duration // How often to probe pull-based sources
	MinPollInterval time.Duration // Minimum allowed poll interval
	MaxPollInterval time.Duration // Maximum allowed poll interval
	Cooldown        time.Duration // Quiet period after a stop before a new session may be adopted
}

// RecordingConfig holds recording output configuration
type RecordingConfig struct {
	OutputDir string // Directory recordings are written to
}

// DaemonConfig holds daemon process configuration
type DaemonConfig struct {
	PIDFile string // Path to PID file for daemon management
}

// WebConfig holds status API server configuration
type WebConfig struct {
	Host string // Host to bind the status API to
	Port int    // Port for the status API
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "", // Empty means use default ~/.config/callwatch/callwatch.db
		},
		Detector: DetectorConfig{
			PollInterval:    2 * time.Second,
			MinPollInterval: 1 * time.Second,
			MaxPollInterval: 60 * time.Second,
			Cooldown:        30 * time.Second,
		},
		Recording: RecordingConfig{
			OutputDir: defaultRecordingDir(),
		},
		Daemon: DaemonConfig{
			PIDFile: fmt.Sprintf("/tmp/callwatch-%d.pid", os.Getuid()),
		},
		Web: WebConfig{
			Host: "localhost",
			Port: 10100 + os.Getuid(),
		},
	}
}

func defaultRecordingDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "recordings"
	}
	return filepath.Join(homeDir, ".local", "share", "callwatch", "recordings")
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Detector.PollInterval < c.Detector.MinPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be less than minimum (%v)",
			c.Detector.PollInterval, c.Detector.MinPollInterval)
	}

	if c.Detector.PollInterval > c.Detector.MaxPollInterval {
		return fmt.Errorf("poll interval (%v) cannot be greater than maximum (%v)",
			c.Detector.PollInterval, c.Detector.MaxPollInterval)
	}

	if c.Detector.Cooldown < 0 {
		return fmt.Errorf("cooldown cannot be negative")
	}

	if c.Recording.OutputDir == "" {
		return fmt.Errorf("recording output directory cannot be empty")
	}

	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port must be between 1 and 65535, got %d", c.Web.Port)
	}

	if c.Web.Host == "" {
		return fmt.Errorf("web host cannot be empty")
	}

	if c.Daemon.PIDFile == "" {
		return fmt.Errorf("PID file path cannot be empty")
	}

	return nil
}

// SetPollInterval sets the poll interval with validation
func (c *Config) SetPollInterval(interval time.Duration) error {
	if interval < c.Detector.MinPollInterval {
		return fmt.Errorf("poll interval cannot be less than %v", c.Detector.MinPollInterval)
	}
	if interval > c.Detector.MaxPollInterval {
		return fmt.Errorf("poll interval cannot be greater than %v", c.Detector.MaxPollInterval)
	}
	c.Detector.PollInterval = interval
	return nil
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(`Configuration:
  Database:
    Path: %s
  Detector:
    Poll Interval: %v
    Min Interval: %v
    Max Interval: %v
    Cooldown: %v
  Recording:
    Output Dir: %s
  Daemon:
    PID File: %s
  Web:
    Host: %s
    Port: %d`,
		c.Database.Path,
		c.Detector.PollInterval,
		c.Detector.MinPollInterval,
		c.Detector.MaxPollInterval,
		c.Detector.Cooldown,
		c.Recording.OutputDir,
		c.Daemon.PIDFile,
		c.Web.Host,
		c.Web.Port,
	)
}
