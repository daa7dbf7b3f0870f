package core

import (
	"os"
	"strconv"
	"time"
)

// Config holds the resolved runtime configuration shared by the components
// and the demo application.
type Config struct {
	// Virtual list
	Overscan         int
	ShowScrollbar    bool
	IsScrollingQuiet time.Duration
	// ListTemplate optionally formats the first line of each contact row
	ListTemplate string

	// Infinite scroll
	LoadThreshold        float64
	PullRefreshThreshold int
	PageSize             int

	// Data grid
	GridOverscan     int
	GridSelectable   bool
	GridGlobalFilter bool

	// Drag-and-drop board
	BoardColumns       int
	AutoScroll         bool
	AutoScrollEdge     int
	AutoScrollSpeed    int
	FrameInterval      time.Duration
	KeyboardNavigation bool

	ColorScheme string
	LogLevel    string
	LogFile     string
	ItemCount   int
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Overscan:             3,
		ShowScrollbar:        true,
		IsScrollingQuiet:     150 * time.Millisecond,
		LoadThreshold:        0.8,
		PullRefreshThreshold: 4, // terminal rows
		PageSize:             50,
		GridOverscan:         3,
		GridSelectable:       true,
		GridGlobalFilter:     true,
		BoardColumns:         4,
		AutoScroll:           true,
		AutoScrollEdge:       2,
		AutoScrollSpeed:      1,
		FrameInterval:        16 * time.Millisecond, // ~60fps
		KeyboardNavigation:   true,
		ColorScheme:          "default",
		LogLevel:             "info",
		ItemCount:            1000,
	}
}

// ApplyEnv overrides fields from LISTKIT_* environment variables
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("LISTKIT_COLOR_SCHEME"); v != "" {
		c.ColorScheme = v
	}
	if v := os.Getenv("LISTKIT_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("LISTKIT_LOG_FILE"); v != "" {
		c.LogFile = v
	}
	if v := os.Getenv("LISTKIT_OVERSCAN"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return NewConfigurationError("LISTKIT_OVERSCAN", "must be a non-negative integer, got %q", v)
		}
		c.Overscan = n
		c.GridOverscan = n
	}
	return nil
}

// Validate checks the configuration for contradictory or out-of-range values
func (c *Config) Validate() error {
	switch {
	case c.Overscan < 0:
		return NewConfigurationError("list.overscan", "must be >= 0, got %d", c.Overscan)
	case c.IsScrollingQuiet < 0:
		return NewConfigurationError("list.isScrollingQuiet", "must be >= 0, got %s", c.IsScrollingQuiet)
	case c.GridOverscan < 0:
		return NewConfigurationError("grid.overscan", "must be >= 0, got %d", c.GridOverscan)
	case c.LoadThreshold <= 0 || c.LoadThreshold > 1:
		return NewConfigurationError("infinite.threshold", "must be in (0,1], got %v", c.LoadThreshold)
	case c.PullRefreshThreshold <= 0:
		return NewConfigurationError("infinite.pullThreshold", "must be > 0, got %d", c.PullRefreshThreshold)
	case c.PageSize <= 0:
		return NewConfigurationError("infinite.pageSize", "must be > 0, got %d", c.PageSize)
	case c.BoardColumns <= 0:
		return NewConfigurationError("board.columns", "must be > 0, got %d", c.BoardColumns)
	case c.AutoScrollEdge < 0:
		return NewConfigurationError("board.autoScrollEdge", "must be >= 0, got %d", c.AutoScrollEdge)
	case c.AutoScrollSpeed <= 0:
		return NewConfigurationError("board.autoScrollSpeed", "must be > 0, got %d", c.AutoScrollSpeed)
	case c.FrameInterval <= 0:
		return NewConfigurationError("board.frameInterval", "must be > 0, got %s", c.FrameInterval)
	case c.ItemCount < 0:
		return NewConfigurationError("demo.itemCount", "must be >= 0, got %d", c.ItemCount)
	}
	return nil
}
