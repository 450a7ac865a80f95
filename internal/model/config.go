package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// OverdueCheckSec is how often (in seconds) the overdue watcher
	// rescans the board.
	OverdueCheckSec int `mapstructure:"overdue_check_sec" yaml:"overdue_check_sec"`
}

// OverdueCheckInterval returns the watcher rescan period as a Duration.
func (c DisplayConfig) OverdueCheckInterval() time.Duration {
	if c.OverdueCheckSec <= 0 {
		return time.Minute
	}
	return time.Duration(c.OverdueCheckSec) * time.Second
}

// DemoConfig controls the fixture data loaded at startup.
type DemoConfig struct {
	// Enabled seeds the demo workspace when true.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Seed fixes the random offsets used by the fixture generator.
	// Zero means derive a seed from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Demo    DemoConfig    `mapstructure:"demo" yaml:"demo"`

	// RememberLogin keeps the last signed-in email in the system keyring
	// so the login form can prefill it. Entity state is never persisted.
	RememberLogin bool `mapstructure:"remember_login" yaml:"remember_login"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/synergysphere/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "synergysphere", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Display: DisplayConfig{
			Theme:           "default",
			OverdueCheckSec: 60,
		},
		Demo: DemoConfig{
			Enabled: true,
		},
		RememberLogin: true,
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("display.theme", "default")
	v.SetDefault("display.overdue_check_sec", 60)
	v.SetDefault("demo.enabled", true)
	v.SetDefault("demo.seed", 0)
	v.SetDefault("remember_login", true)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Display.OverdueCheckSec <= 0 {
		cfg.Display.OverdueCheckSec = 60
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("display", cfg.Display)
	v.Set("demo", cfg.Demo)
	v.Set("remember_login", cfg.RememberLogin)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
