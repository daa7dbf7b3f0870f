// Package config loads the listkit YAML configuration file and converts it
// into the runtime core.Config.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/HamStudy/listkit/internal/core"
)

// FileName is the configuration file inside the config directory
const FileName = "config.yaml"

// Config represents the configuration file
type Config struct {
	Version  string         `yaml:"version"`
	Theme    string         `yaml:"theme"`
	List     ListConfig     `yaml:"list"`
	Infinite InfiniteConfig `yaml:"infinite"`
	Grid     GridConfig     `yaml:"grid"`
	Board    BoardConfig    `yaml:"board"`
	Logging  LoggingConfig  `yaml:"logging"`
	Demo     DemoConfig     `yaml:"demo"`
}

// ListConfig configures virtual lists
type ListConfig struct {
	Overscan         int      `yaml:"overscan"`
	Scrollbar        bool     `yaml:"scrollbar"`
	IsScrollingQuiet Duration `yaml:"isScrollingQuiet"`
	Template         string   `yaml:"template,omitempty"`
}

// InfiniteConfig configures infinite scroll feeds
type InfiniteConfig struct {
	Threshold     float64 `yaml:"threshold"`
	PullThreshold int     `yaml:"pullThreshold"`
	PageSize      int     `yaml:"pageSize"`
}

// GridConfig configures data grids
type GridConfig struct {
	Overscan     int  `yaml:"overscan"`
	Selectable   bool `yaml:"selectable"`
	GlobalFilter bool `yaml:"globalFilter"`
}

// BoardConfig configures drag-and-drop boards
type BoardConfig struct {
	Columns            int      `yaml:"columns"`
	KeyboardNavigation bool     `yaml:"keyboardNavigation"`
	AutoScroll         bool     `yaml:"autoScroll"`
	AutoScrollEdge     int      `yaml:"autoScrollEdge"`
	AutoScrollSpeed    int      `yaml:"autoScrollSpeed"`
	FrameInterval      Duration `yaml:"frameInterval"`
}

// LoggingConfig configures the log output
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// DemoConfig configures the demo application data
type DemoConfig struct {
	ItemCount int `yaml:"itemCount"`
}

// Duration is a time.Duration written as a Go duration string ("150ms")
type Duration time.Duration

// UnmarshalYAML parses a duration string
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML writes the duration string
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Loader handles configuration loading and saving
type Loader struct {
	configDir string
	defaults  Config
	merged    *Config
	mu        sync.RWMutex
}

// NewLoader creates a configuration loader for configDir. An empty dir
// means ~/.config/listkit.
func NewLoader(configDir string) *Loader {
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config", "listkit")
	}

	return &Loader{
		configDir: configDir,
		defaults:  DefaultConfig(),
	}
}

// Dir returns the configuration directory
func (l *Loader) Dir() string { return l.configDir }

// Path returns the configuration file path
func (l *Loader) Path() string {
	return filepath.Join(l.configDir, FileName)
}

// Load reads the configuration file over the defaults. A missing file is
// not an error.
func (l *Loader) Load() error {
	cfg := l.defaults

	f, err := os.Open(l.Path())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("failed to open config: %w", err)
	default:
		defer f.Close()
		parsed, err := parseConfig(f, l.defaults)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", l.Path(), err)
		}
		cfg = *parsed
	}

	l.mu.Lock()
	l.merged = &cfg
	l.mu.Unlock()
	return nil
}

// LoadFile parses a specific configuration file over the defaults
func (l *Loader) LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return parseConfig(f, l.defaults)
}

// LoadString parses configuration from a string over the defaults
func (l *Loader) LoadString(content string) (*Config, error) {
	return parseConfig(strings.NewReader(content), l.defaults)
}

// parseConfig decodes r on top of base. Unknown keys are rejected.
func parseConfig(r io.Reader, base Config) (*Config, error) {
	cfg := base
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Validate fills empty identity fields and checks every value
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	if c.Theme == "" {
		c.Theme = "default"
	}
	return c.Runtime().Validate()
}

// Get returns a copy of the current configuration
func (l *Loader) Get() Config {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.merged != nil {
		return *l.merged
	}
	return l.defaults
}

// Set replaces the current configuration after validating it
func (l *Loader) Set(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	l.mu.Lock()
	l.merged = &cfg
	l.mu.Unlock()
	return nil
}

// Save writes the current configuration to disk
func (l *Loader) Save() error {
	cfg := l.Get()

	if err := os.MkdirAll(l.configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(cfg)
	if err != nil {
		return err
	}

	if err := os.WriteFile(l.Path(), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Marshal encodes a configuration as YAML
func Marshal(cfg Config) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Runtime converts the file configuration into the runtime configuration
func (c Config) Runtime() *core.Config {
	return &core.Config{
		Overscan:             c.List.Overscan,
		ShowScrollbar:        c.List.Scrollbar,
		IsScrollingQuiet:     time.Duration(c.List.IsScrollingQuiet),
		ListTemplate:         c.List.Template,
		LoadThreshold:        c.Infinite.Threshold,
		PullRefreshThreshold: c.Infinite.PullThreshold,
		PageSize:             c.Infinite.PageSize,
		GridOverscan:         c.Grid.Overscan,
		GridSelectable:       c.Grid.Selectable,
		GridGlobalFilter:     c.Grid.GlobalFilter,
		BoardColumns:         c.Board.Columns,
		AutoScroll:           c.Board.AutoScroll,
		AutoScrollEdge:       c.Board.AutoScrollEdge,
		AutoScrollSpeed:      c.Board.AutoScrollSpeed,
		FrameInterval:        time.Duration(c.Board.FrameInterval),
		KeyboardNavigation:   c.Board.KeyboardNavigation,
		ColorScheme:          c.Theme,
		LogLevel:             c.Logging.Level,
		LogFile:              c.Logging.File,
		ItemCount:            c.Demo.ItemCount,
	}
}

// DefaultConfig returns the built-in configuration
func DefaultConfig() Config {
	return FromRuntime(core.DefaultConfig())
}

// FromRuntime converts a runtime configuration back into its file form
func FromRuntime(rc *core.Config) Config {
	return Config{
		Version: "1.0.0",
		Theme:   rc.ColorScheme,
		List: ListConfig{
			Overscan:         rc.Overscan,
			Scrollbar:        rc.ShowScrollbar,
			IsScrollingQuiet: Duration(rc.IsScrollingQuiet),
			Template:         rc.ListTemplate,
		},
		Infinite: InfiniteConfig{
			Threshold:     rc.LoadThreshold,
			PullThreshold: rc.PullRefreshThreshold,
			PageSize:      rc.PageSize,
		},
		Grid: GridConfig{
			Overscan:     rc.GridOverscan,
			Selectable:   rc.GridSelectable,
			GlobalFilter: rc.GridGlobalFilter,
		},
		Board: BoardConfig{
			Columns:            rc.BoardColumns,
			KeyboardNavigation: rc.KeyboardNavigation,
			AutoScroll:         rc.AutoScroll,
			AutoScrollEdge:     rc.AutoScrollEdge,
			AutoScrollSpeed:    rc.AutoScrollSpeed,
			FrameInterval:      Duration(rc.FrameInterval),
		},
		Logging: LoggingConfig{Level: rc.LogLevel, File: rc.LogFile},
		Demo:    DemoConfig{ItemCount: rc.ItemCount},
	}
}
