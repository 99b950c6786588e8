package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the slog output. An empty File discards logs since the
// terminal belongs to the UI.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Title         string `mapstructure:"title"`
	DefaultPreset string `mapstructure:"default_preset"`
	Host          string `mapstructure:"host"`
	Autosave      bool   `mapstructure:"autosave"`
}

// Load reads configuration from file and env. Env var overrides use prefix SELSYNC_.
func Load() (Config, error) {
	return LoadFile(os.Getenv("SELSYNC_CONFIG"))
}

// LoadFile is Load with an explicit config file. An empty path falls back to
// ~/.config/selsync/config.toml.
func LoadFile(cfgPath string) (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "selsync", "selsync.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("ui.title", "selsync")
	v.SetDefault("ui.default_preset", "Favourites")
	v.SetDefault("ui.host", "listbox")
	v.SetDefault("ui.autosave", true)

	v.SetConfigType("toml")

	explicit := cfgPath != ""
	if explicit {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "selsync"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SELSYNC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil && explicit {
		return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// DefaultPath is the config file used when none is given: $SELSYNC_CONFIG,
// else ~/.config/selsync/config.toml.
func DefaultPath() string {
	if path := os.Getenv("SELSYNC_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "selsync", "config.toml")
}

// Save writes cfg to path, or to DefaultPath when path is empty, creating the
// config directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("ui.title", cfg.UI.Title)
	v.Set("ui.default_preset", cfg.UI.DefaultPreset)
	v.Set("ui.host", cfg.UI.Host)
	v.Set("ui.autosave", cfg.UI.Autosave)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
