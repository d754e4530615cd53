package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

const (
	EnvHome    = "WEEKSHEET_HOME"
	EnvAMQPURL = "WEEKSHEET_AMQP_URL"
)

type Config struct {
	// DefaultTimeCode is used for rows copied from a prior week.
	DefaultTimeCode string `toml:"default_time_code"`
	// SeedSample fills an empty week with sample rows.
	SeedSample   bool   `toml:"seed_sample"`
	ExportOutput string `toml:"export_output"`
	LogLevel     string `toml:"log_level"`

	AMQPURL      string `toml:"amqp_url"`
	AMQPExchange string `toml:"amqp_exchange"`
	AMQPQueue    string `toml:"amqp_queue"`
}

func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		DefaultTimeCode: "1",
		ExportOutput:    filepath.Join(homeDir, "Documents", "timesheets"),
		LogLevel:        "info",
		AMQPExchange:    "weeksheet",
		AMQPQueue:       "timesheet_approvals",
	}
}

// WeeksheetDir returns $WEEKSHEET_HOME, or weeksheet under the XDG config home.
func WeeksheetDir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return expandPath(dir), nil
	}
	if xdg.ConfigHome == "" {
		return "", fmt.Errorf("no config home directory")
	}
	return filepath.Join(xdg.ConfigHome, "weeksheet"), nil
}

func ConfigPath() (string, error) {
	dir, err := WeeksheetDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

func DatabasePath() (string, error) {
	dir, err := WeeksheetDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db", "weeksheet.sqlite"), nil
}

func LogPath() (string, error) {
	dir, err := WeeksheetDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "weeksheet.log"), nil
}

func EnsureDirectories() error {
	dir, err := WeeksheetDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Join(dir, "db"), 0755); err != nil {
		return err
	}

	return nil
}

// Load reads config.toml, creating it with defaults on first run, and then
// applies environment overrides.
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := EnsureDirectories(); err != nil {
			return nil, err
		}
		if err := Save(cfg); err != nil {
			return nil, err
		}
	} else if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", configPath, err)
	}

	if v := os.Getenv(EnvAMQPURL); v != "" {
		cfg.AMQPURL = v
	}
	cfg.ExportOutput = expandPath(cfg.ExportOutput)

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DefaultTimeCode) == "" {
		errs = append(errs, "default_time_code cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Sprintf("invalid log_level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "amqp_exchange cannot be empty when amqp_url is set")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "amqp_queue cannot be empty when amqp_url is set")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[1:])
	}
	return path
}
