package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(c *Config)
		field string
	}{
		{"overscan", func(c *Config) { c.Overscan = -1 }, "list.overscan"},
		{"threshold zero", func(c *Config) { c.LoadThreshold = 0 }, "infinite.threshold"},
		{"threshold high", func(c *Config) { c.LoadThreshold = 1.2 }, "infinite.threshold"},
		{"page size", func(c *Config) { c.PageSize = 0 }, "infinite.pageSize"},
		{"columns", func(c *Config) { c.BoardColumns = 0 }, "board.columns"},
		{"frame", func(c *Config) { c.FrameInterval = 0 }, "board.frameInterval"},
		{"quiet", func(c *Config) { c.IsScrollingQuiet = -time.Second }, "list.isScrollingQuiet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mod(c)
			var cfgErr *ConfigurationError
			require.True(t, errors.As(c.Validate(), &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LISTKIT_COLOR_SCHEME", "light")
	t.Setenv("LISTKIT_OVERSCAN", "7")

	c := DefaultConfig()
	require.NoError(t, c.ApplyEnv())
	require.NoError(t, c.Validate())
	assert.Equal(t, "light", c.ColorScheme)
	assert.Equal(t, 7, c.Overscan)
	assert.Equal(t, 7, c.GridOverscan)
}

func TestApplyEnvRejectsBadOverscan(t *testing.T) {
	t.Setenv("LISTKIT_OVERSCAN", "lots")

	err := DefaultConfig().ApplyEnv()
	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "LISTKIT_OVERSCAN", cfgErr.Field)
}
