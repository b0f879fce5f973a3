// Package config loads tmplcmp CLI settings through Viper from .tmplcmp.yml,
// TMPLCMP_ environment variables and command-line flags.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pthm/tmplcmp"
	"github.com/spf13/viper"
)

type Config struct {
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
	Render RenderConfig `yaml:"render" mapstructure:"render"`
	Serve  ServeConfig  `yaml:"serve" mapstructure:"serve"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

type RenderConfig struct {
	NoRenderAttr string `yaml:"norender_attr" mapstructure:"norender_attr"`
	Debounce     int    `yaml:"debounce_ms" mapstructure:"debounce_ms"`
}

type ServeConfig struct {
	Addr       string `yaml:"addr" mapstructure:"addr"`
	Key        string `yaml:"key" mapstructure:"key"`
	Sealed     bool   `yaml:"sealed" mapstructure:"sealed"`
	StreamPath string `yaml:"stream_path" mapstructure:"stream_path"`
}

// Load reads the current Viper state into a Config, applies defaults and
// validates the result.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Flags are bound flat; they win over the nested file keys.
	if viper.IsSet("log-level") {
		config.Log.Level = viper.GetString("log-level")
	}
	if viper.IsSet("log-format") {
		config.Log.Format = viper.GetString("log-format")
	}

	if config.Log.Level == "" {
		config.Log.Level = "info"
	}
	if config.Log.Format == "" {
		config.Log.Format = "text"
	}
	if config.Render.NoRenderAttr == "" {
		config.Render.NoRenderAttr = tmplcmp.NoRenderAttr
	}
	if config.Render.Debounce <= 0 {
		config.Render.Debounce = 100
	}
	if config.Serve.Addr == "" {
		config.Serve.Addr = "localhost:8080"
	}
	if config.Serve.StreamPath == "" {
		config.Serve.StreamPath = "/patches"
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks values that Load cannot default.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log format %q must be text or json", c.Log.Format)
	}
	if strings.ContainsAny(c.Render.NoRenderAttr, " \t\n\"'=<>/") {
		return fmt.Errorf("config: norender_attr %q is not a valid attribute name", c.Render.NoRenderAttr)
	}
	if !strings.HasPrefix(c.Serve.StreamPath, "/") {
		return fmt.Errorf("config: stream_path %q must start with /", c.Serve.StreamPath)
	}
	return nil
}

// Logger builds the slog logger described by the log section.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("config: log level %q: %w", s, err)
	}
	return level, nil
}
