package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Scripts  ScriptsConfig  `mapstructure:"scripts"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// ScriptsConfig holds the scripts directory settings.
type ScriptsConfig struct {
	Dir          string `mapstructure:"dir"`
	SeedExamples bool   `mapstructure:"seed_examples"`
}

// LogConfig holds log file settings. An empty path disables logging.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	KeymapPath     string `mapstructure:"keymap_path"`
	RestoreSession bool   `mapstructure:"restore_session"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "jaskcalc")
}

func configDir() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "jaskcalc")
}

// Load reads configuration from file and env. Env var overrides use prefix JASKCALC_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(dataDir(), "jaskcalc.db"))
	v.SetDefault("scripts.dir", filepath.Join(dataDir(), "scripts"))
	v.SetDefault("scripts.seed_examples", true)
	v.SetDefault("log.path", filepath.Join(dataDir(), "jaskcalc.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.keymap_path", filepath.Join(configDir(), "keymap.toml"))
	v.SetDefault("ui.restore_session", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("JASKCALC_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(configDir())
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("JASKCALC")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Path is the config file Save writes to.
func Path() string {
	if path := os.Getenv("JASKCALC_CONFIG"); path != "" {
		return path
	}
	return filepath.Join(configDir(), "config.toml")
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("scripts.dir", cfg.Scripts.Dir)
	v.Set("scripts.seed_examples", cfg.Scripts.SeedExamples)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.keymap_path", cfg.UI.KeymapPath)
	v.Set("ui.restore_session", cfg.UI.RestoreSession)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SessionPath is where open tabs are remembered between runs.
func SessionPath() string {
	return filepath.Join(dataDir(), "session.json")
}
