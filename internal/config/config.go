package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds the resolved application configuration.
type Config struct {
	// Theme name: "dark" (default) or "light".
	Theme string `mapstructure:"theme"`
	// Editor opens files and diffs (falls back to $VISUAL, then $EDITOR).
	Editor string `mapstructure:"editor"`
	// Icons prefixes file rows with nerd font glyphs.
	Icons bool `mapstructure:"icons"`
	// MenuWidth is the width of a menu row.
	MenuWidth int `mapstructure:"menu_width"`
	// NameWidth is the column reserved for the file name.
	NameWidth int `mapstructure:"name_width"`
	// ReviewCacheTTL is how long a pull request file list stays fresh.
	ReviewCacheTTL time.Duration `mapstructure:"review_cache_ttl"`
	// BaseRef overrides the revert target in status mode.
	BaseRef string `mapstructure:"base_ref"`
	// StartMode is the mode of the first open: "status" or "review".
	StartMode string `mapstructure:"start_mode"`
	// LogLevel and LogFile configure the file logger. No file, no logs.
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
	// Watch refreshes status mode when .git state changes.
	Watch         bool          `mapstructure:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch_debounce"`
}

// Load reads configuration from ~/.config/zgr/config.yaml (or TOML/JSON).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AddConfigPath(configDirectory())
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("ZGR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is fine; use defaults.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the menu cannot lay out.
func (c *Config) Validate() error {
	switch c.StartMode {
	case "status", "review":
	default:
		return fmt.Errorf("start_mode %q: want status or review", c.StartMode)
	}
	if c.MenuWidth < MinMenuWidth {
		return fmt.Errorf("menu_width %d: must be at least %d", c.MenuWidth, MinMenuWidth)
	}
	if c.NameWidth < 1 || c.NameWidth >= c.MenuWidth {
		return fmt.Errorf("name_width %d: must be between 1 and menu_width", c.NameWidth)
	}
	if c.ReviewCacheTTL <= 0 {
		return fmt.Errorf("review_cache_ttl %s: must be positive", c.ReviewCacheTTL)
	}
	return nil
}

// Dir returns the directory config.yaml is read from.
func Dir() string { return configDirectory() }

func configDirectory() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "zgr")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "zgr")
}
