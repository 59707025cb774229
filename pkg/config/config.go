package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for x11-idle-sync
type Config struct {
	// Idle classification
	IdleThreshold time.Duration `yaml:"idle_threshold" env:"IDLE_SYNC_THRESHOLD"`

	// Behavior flags
	NoResetOnExit bool `yaml:"no_reset_on_exit" env:"IDLE_SYNC_NO_RESET_ON_EXIT"`
	OneShot       bool `yaml:"one_shot" env:"IDLE_SYNC_ONE_SHOT"`

	// Idle source backend: auto, x11, dbus or xprintidle
	Source string `yaml:"source" env:"IDLE_SYNC_SOURCE"`

	// logind session object path
	SessionPath string `yaml:"session_path" env:"IDLE_SYNC_SESSION_PATH"`
}

// Sources lists the accepted values for the source setting.
var Sources = []string{"auto", "x11", "dbus", "xprintidle"}

// DefaultSessionPath is the logind alias for the caller's own session.
const DefaultSessionPath = "/org/freedesktop/login1/session/self"

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		IdleThreshold: 5 * time.Minute,
		Source:        "auto",
		SessionPath:   DefaultSessionPath,
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// Try to load from config file
	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// Validate configuration
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("IDLE_SYNC_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "x11-idle-sync", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "x11-idle-sync", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// UnmarshalYAML decodes the config file, accepting idle_threshold as
// either a duration string ("5m") or a bare number of seconds.
// Settings absent from the file keep their current values.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	type rawConfig struct {
		IdleThreshold string  `yaml:"idle_threshold"`
		NoResetOnExit *bool   `yaml:"no_reset_on_exit"`
		OneShot       *bool   `yaml:"one_shot"`
		Source        *string `yaml:"source"`
		SessionPath   *string `yaml:"session_path"`
	}

	var raw rawConfig
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.IdleThreshold != "" {
		d, err := ParseThreshold(raw.IdleThreshold)
		if err != nil {
			return err
		}
		c.IdleThreshold = d
	}
	if raw.NoResetOnExit != nil {
		c.NoResetOnExit = *raw.NoResetOnExit
	}
	if raw.OneShot != nil {
		c.OneShot = *raw.OneShot
	}
	if raw.Source != nil {
		c.Source = *raw.Source
	}
	if raw.SessionPath != nil {
		c.SessionPath = *raw.SessionPath
	}

	return nil
}

// ParseThreshold parses an idle threshold given as a Go duration
// string or a bare number of seconds.
func ParseThreshold(s string) (time.Duration, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return d, nil
	}
	if secs, err := strconv.ParseFloat(s, 64); err == nil {
		return time.Duration(secs * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("invalid idle threshold %q (use a duration like \"5m\" or seconds)", s)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if threshold := os.Getenv("IDLE_SYNC_THRESHOLD"); threshold != "" {
		d, err := ParseThreshold(threshold)
		if err != nil {
			return fmt.Errorf("invalid IDLE_SYNC_THRESHOLD: %w", err)
		}
		cfg.IdleThreshold = d
	}

	if noReset := os.Getenv("IDLE_SYNC_NO_RESET_ON_EXIT"); noReset != "" {
		switch noReset {
		case "true", "1", "yes":
			cfg.NoResetOnExit = true
		case "false", "0", "no":
			cfg.NoResetOnExit = false
		default:
			return fmt.Errorf("invalid IDLE_SYNC_NO_RESET_ON_EXIT value: %q (use true/false)", noReset)
		}
	}

	if oneShot := os.Getenv("IDLE_SYNC_ONE_SHOT"); oneShot != "" {
		switch oneShot {
		case "true", "1", "yes":
			cfg.OneShot = true
		case "false", "0", "no":
			cfg.OneShot = false
		default:
			return fmt.Errorf("invalid IDLE_SYNC_ONE_SHOT value: %q (use true/false)", oneShot)
		}
	}

	if source := os.Getenv("IDLE_SYNC_SOURCE"); source != "" {
		cfg.Source = source
	}

	if path := os.Getenv("IDLE_SYNC_SESSION_PATH"); path != "" {
		cfg.SessionPath = path
	}

	return nil
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.IdleThreshold <= 0 {
		return fmt.Errorf("idle_threshold must be positive, got %v", cfg.IdleThreshold)
	}

	valid := false
	for _, s := range Sources {
		if cfg.Source == s {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("source must be one of %s, got %q", strings.Join(Sources, ", "), cfg.Source)
	}

	if !strings.HasPrefix(cfg.SessionPath, "/") {
		return fmt.Errorf("session_path must be an absolute D-Bus object path, got %q", cfg.SessionPath)
	}

	return nil
}
