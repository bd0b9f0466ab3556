// Package config loads server configuration from a yaml file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the arena server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Replay   ReplayConfig   `mapstructure:"replay"`
	Oracle   OracleConfig   `mapstructure:"oracle"`
	Game     GameConfig     `mapstructure:"game"`
}

// ServerConfig configures the websocket listener.
type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig configures the optional report store. An empty URL
// disables persistence.
type DatabaseConfig struct {
	URL string `mapstructure:"url"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ReplayConfig configures battle replay recording.
type ReplayConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// OracleConfig configures the external decision oracle.
type OracleConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Model   string        `mapstructure:"model"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// GameConfig holds gameplay policy knobs.
type GameConfig struct {
	HealAmount    int           `mapstructure:"heal_amount"`
	BattleTimeout time.Duration `mapstructure:"battle_timeout"`
}

// Load reads the configuration file at path. A missing file is not an
// error; defaults and ARENA_* environment variables still apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("database.url", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("replay.enabled", true)
	v.SetDefault("replay.dir", "replays")
	v.SetDefault("oracle.base_url", "")
	v.SetDefault("oracle.model", "")
	v.SetDefault("oracle.timeout", 30*time.Second)
	v.SetDefault("game.heal_amount", 30)
	v.SetDefault("game.battle_timeout", 10*time.Minute)

	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			// A missing file keeps defaults; a parse failure is fatal.
			if !isNotExist(err) {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

func isNotExist(err error) bool {
	if errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound)
}
