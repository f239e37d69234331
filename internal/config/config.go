package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"netcheck/internal/models"
	"netcheck/internal/monitor"
)

// Environment variables that override file configuration.
const (
	EnvCheckInterval     = "CHECK_INTERVAL"
	EnvNotificationToken = "TELEGRAM_BOT_TOKEN"
	EnvProbeTimeout      = "PROBE_TIMEOUT"
	EnvListenAddr        = "LISTEN_ADDR"
	EnvHistoryLimit      = "HISTORY_LIMIT"
	EnvLogDir            = "LOG_DIR"
	EnvLogLevel          = "LOG_LEVEL"
	EnvLogFormat         = "LOG_FORMAT"
)

// Config represents configuration data for the connectivity checker.
type Config struct {
	CheckIntervalSeconds int    `yaml:"check_interval_seconds"`
	ProbeTimeoutSeconds  int    `yaml:"probe_timeout_seconds"`
	NotificationToken    string `yaml:"notification_token"`
	ListenAddr           string `yaml:"listen_addr"`
	HistoryLimit         int    `yaml:"history_limit"`
	LogDir               string `yaml:"log_dir"`
	LogLevel             string `yaml:"log_level"`
	LogFormat            string `yaml:"log_format"`
}

// DefaultConfig returns the configuration used when nothing else is provided.
func DefaultConfig() Config {
	return Config{
		CheckIntervalSeconds: 60,
		ProbeTimeoutSeconds:  10,
		ListenAddr:           ":8080",
		HistoryLimit:         1440,
		LogDir:               "logs",
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

// LoadEnv loads variables from the given env files into the process
// environment. Missing files are skipped and existing variables win.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("load %s: %w", file, err)
		}
	}
	return nil
}

// Load reads configuration from a yaml file, then applies environment
// overrides. A missing file falls back to defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(content, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.CheckIntervalSeconds < 1 {
		return fmt.Errorf("check interval must be at least 1 second, got %d", c.CheckIntervalSeconds)
	}
	if c.ProbeTimeoutSeconds < 1 {
		return fmt.Errorf("probe timeout must be at least 1 second, got %d", c.ProbeTimeoutSeconds)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit)
	}
	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	return nil
}

// NotificationEnabled reports whether the optional endpoint should be probed.
func (c Config) NotificationEnabled() bool {
	return strings.TrimSpace(c.NotificationToken) != ""
}

// Endpoints returns the endpoints to probe. The notification endpoint is
// left unconfigured unless a token is set.
func (c Config) Endpoints() []models.Endpoint {
	token := ""
	if c.NotificationEnabled() {
		token = c.NotificationToken
	}
	return monitor.DefaultEndpoints(token)
}

func applyEnv(cfg *Config) error {
	if err := envInt(EnvCheckInterval, &cfg.CheckIntervalSeconds); err != nil {
		return err
	}
	if err := envInt(EnvProbeTimeout, &cfg.ProbeTimeoutSeconds); err != nil {
		return err
	}
	if err := envInt(EnvHistoryLimit, &cfg.HistoryLimit); err != nil {
		return err
	}
	envString(EnvNotificationToken, &cfg.NotificationToken)
	envString(EnvListenAddr, &cfg.ListenAddr)
	envString(EnvLogDir, &cfg.LogDir)
	envString(EnvLogLevel, &cfg.LogLevel)
	envString(EnvLogFormat, &cfg.LogFormat)
	return nil
}

func envString(key string, dst *string) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*dst = strings.TrimSpace(value)
	}
}

func envInt(key string, dst *int) error {
	value, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("parse %s: %w", key, err)
	}
	*dst = parsed
	return nil
}
