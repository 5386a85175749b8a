// Package config provides Viper-based configuration loading for the chat server.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ListenConfig holds websocket listener settings.
type ListenConfig struct {
	// Host is the bind address for the HTTP listener.
	Host string `mapstructure:"host"`
	// Port is the TCP port for the HTTP listener.
	Port int `mapstructure:"port"`
	// Path is the URL path the websocket endpoint is served on.
	Path string `mapstructure:"path"`
	// ReadTimeout is the per-read timeout for websocket connections.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for websocket connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (l ListenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// GameConfig holds skeleton-fight tuning.
type GameConfig struct {
	// Tick is the skeleton's decision interval while it has a living target.
	Tick time.Duration `mapstructure:"tick"`
	// IdleWait is the skeleton's polling interval with no living target.
	IdleWait time.Duration `mapstructure:"idle_wait"`
	// CombatCapacity bounds how many clients may share one skeleton fight.
	CombatCapacity int `mapstructure:"combat_capacity"`
	// ContentDir is the directory of creature template YAML files. Empty
	// means the built-in templates.
	ContentDir string `mapstructure:"content_dir"`
}

// Config is the top-level application configuration.
type Config struct {
	Listen  ListenConfig  `mapstructure:"listen"`
	Logging LoggingConfig `mapstructure:"logging"`
	Game    GameConfig    `mapstructure:"game"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateListen(c.Listen); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateGame(c.Game); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateListen(l ListenConfig) error {
	var errs []string
	if l.Port < 1 || l.Port > 65535 {
		errs = append(errs, fmt.Sprintf("listen.port must be 1-65535, got %d", l.Port))
	}
	if !strings.HasPrefix(l.Path, "/") {
		errs = append(errs, fmt.Sprintf("listen.path must start with /, got %q", l.Path))
	}
	if l.ReadTimeout < 0 {
		errs = append(errs, "listen.read_timeout must not be negative")
	}
	if l.WriteTimeout < 0 {
		errs = append(errs, "listen.write_timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateGame(g GameConfig) error {
	var errs []string
	if g.Tick <= 0 {
		errs = append(errs, "game.tick must be positive")
	}
	if g.IdleWait <= 0 {
		errs = append(errs, "game.idle_wait must be positive")
	}
	if g.CombatCapacity < 1 {
		errs = append(errs, fmt.Sprintf("game.combat_capacity must be >= 1, got %d", g.CombatCapacity))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SKEL_ prefix
	v.SetEnvPrefix("SKEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the built-in configuration used when no file is given.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, _ := LoadFromViper(v)
	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen.host", "0.0.0.0")
	v.SetDefault("listen.port", 8080)
	v.SetDefault("listen.path", "/ws")
	v.SetDefault("listen.read_timeout", "5m")
	v.SetDefault("listen.write_timeout", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("game.tick", "1s")
	v.SetDefault("game.idle_wait", "5s")
	v.SetDefault("game.combat_capacity", 2)
	v.SetDefault("game.content_dir", "")
}
