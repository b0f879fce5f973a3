package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setup       func()
		expectError bool
		check       func(t *testing.T, c *Config)
	}{
		{
			name:  "defaults",
			setup: func() { viper.Reset() },
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "info", c.Log.Level)
				assert.Equal(t, "text", c.Log.Format)
				assert.Equal(t, "norender", c.Render.NoRenderAttr)
				assert.Equal(t, 100, c.Render.Debounce)
				assert.Equal(t, "localhost:8080", c.Serve.Addr)
				assert.Equal(t, "/patches", c.Serve.StreamPath)
				assert.False(t, c.Serve.Sealed)
			},
		},
		{
			name: "file values",
			setup: func() {
				viper.Reset()
				viper.Set("log.level", "debug")
				viper.Set("log.format", "json")
				viper.Set("render.norender_attr", "data-static")
				viper.Set("serve.addr", ":9000")
				viper.Set("serve.sealed", true)
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "debug", c.Log.Level)
				assert.Equal(t, "json", c.Log.Format)
				assert.Equal(t, "data-static", c.Render.NoRenderAttr)
				assert.Equal(t, ":9000", c.Serve.Addr)
				assert.True(t, c.Serve.Sealed)
			},
		},
		{
			name: "flag overrides file",
			setup: func() {
				viper.Reset()
				viper.Set("log.level", "debug")
				viper.Set("log-level", "warn")
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "warn", c.Log.Level)
			},
		},
		{
			name: "invalid level",
			setup: func() {
				viper.Reset()
				viper.Set("log.level", "loud")
			},
			expectError: true,
		},
		{
			name: "invalid format",
			setup: func() {
				viper.Reset()
				viper.Set("log.format", "xml")
			},
			expectError: true,
		},
		{
			name: "invalid norender attribute",
			setup: func() {
				viper.Reset()
				viper.Set("render.norender_attr", "no render")
			},
			expectError: true,
		},
		{
			name: "relative stream path",
			setup: func() {
				viper.Reset()
				viper.Set("serve.stream_path", "patches")
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer viper.Reset()

			c, err := Load()
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestLogConfig_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.Logger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "kind", "counter")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"kind":"counter"`)

	text := LogConfig{Level: "debug", Format: "text"}.Logger(&buf)
	assert.True(t, text.Enabled(context.Background(), slog.LevelDebug))
}
