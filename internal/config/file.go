package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type fileConfig struct {
	DBPath              string `toml:"db_path"`
	PollIntervalSeconds int    `toml:"poll_interval_seconds"`
	CooldownSeconds     int    `toml:"cooldown_seconds"`
	RecordingDir        string `toml:"recording_dir"`
	PIDFile             string `toml:"pid_file"`
	WebHost             string `toml:"web_host"`
	WebPort             int    `toml:"web_port"`
}

// LoadFromFile applies ~/.config/callwatch/config.toml when present.
// A missing or unreadable file is not an error; the file layer is
// optional.
func LoadFromFile(cfg *Config) {
	path := configFilePath()
	if path == "" {
		return
	}

	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return
	}

	if fc.DBPath != "" {
		cfg.Database.Path = expandTilde(fc.DBPath)
	}
	if fc.PollIntervalSeconds > 0 {
		interval := time.Duration(fc.PollIntervalSeconds) * time.Second
		if interval >= cfg.Detector.MinPollInterval && interval <= cfg.Detector.MaxPollInterval {
			cfg.Detector.PollInterval = interval
		}
	}
	if fc.CooldownSeconds > 0 {
		cfg.Detector.Cooldown = time.Duration(fc.CooldownSeconds) * time.Second
	}
	if fc.RecordingDir != "" {
		cfg.Recording.OutputDir = expandTilde(fc.RecordingDir)
	}
	if fc.PIDFile != "" {
		cfg.Daemon.PIDFile = fc.PIDFile
	}
	if fc.WebHost != "" {
		cfg.Web.Host = fc.WebHost
	}
	if fc.WebPort > 0 && fc.WebPort <= 65535 {
		cfg.Web.Port = fc.WebPort
	}
}

func configFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(homeDir, ".config", "callwatch", "config.toml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, path[2:])
}
