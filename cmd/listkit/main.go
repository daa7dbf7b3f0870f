package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/HamStudy/listkit/configs"
	"github.com/HamStudy/listkit/internal/components/style"
	"github.com/HamStudy/listkit/internal/config"
	"github.com/HamStudy/listkit/internal/core"
	"github.com/HamStudy/listkit/internal/logging"
	"github.com/HamStudy/listkit/internal/ui"
	"github.com/HamStudy/listkit/internal/ui/views"
)

// Build-time variables injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// reloadDebounce coalesces editor save bursts into one reload
const reloadDebounce = 300 * time.Millisecond

func main() {
	if err := buildRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func buildRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "listkit",
		Short: "Virtualized lists, feeds, grids and boards for the terminal",
		Long: `listkit demonstrates windowed rendering in a terminal UI: a virtual
list of variable height rows, an infinite feed with pull-to-refresh, a
sortable and filterable data grid, and a drag-and-drop board.

Configuration is read from <config-dir>/config.yaml and may be overridden
with flags or LISTKIT_* environment variables. Edits to the file are
applied while the demo runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), v)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf("listkit %s (commit: %s, built: %s)\n", Version, Commit, BuildTime))

	flags := rootCmd.PersistentFlags()
	flags.String("config-dir", "", "Configuration directory (default ~/.config/listkit)")
	flags.String("theme", "", "Color theme ("+strings.Join(style.ThemeNames(), ", ")+")")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-file", "", "Write logs to this file")
	flags.Int("items", 0, "Number of generated demo contacts")
	flags.Int64("seed", 1, "Seed for generated demo data")
	flags.Duration("latency", 200*time.Millisecond, "Simulated feed page latency")
	flags.String("export-dir", "", "Directory for grid exports (default working directory)")

	v.SetEnvPrefix("LISTKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	for _, name := range []string{"config-dir", "theme", "log-level", "log-file", "items", "seed", "latency", "export-dir"} {
		_ = v.BindPFlag(name, flags.Lookup(name))
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive demo (the default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), v)
		},
	}

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(buildConfigCmd(v))
	rootCmd.AddCommand(buildVersionCmd())
	return rootCmd
}

func buildConfigCmd(v *viper.Viper) *cobra.Command {
	var pathOnly bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := config.NewLoader(v.GetString("config-dir"))
			if pathOnly {
				fmt.Fprintln(cmd.OutOrStdout(), loader.Path())
				return nil
			}
			cfg, err := resolveConfig(v, loader)
			if err != nil {
				return err
			}
			data, err := config.Marshal(config.FromRuntime(cfg))
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&pathOnly, "path", false, "Print the configuration file path only")

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the annotated default configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			loader := config.NewLoader(v.GetString("config-dir"))
			if _, err := os.Stat(loader.Path()); err == nil {
				return fmt.Errorf("%s already exists", loader.Path())
			}
			if err := os.MkdirAll(loader.Dir(), 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			if err := os.WriteFile(loader.Path(), configs.Example, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", loader.Path())
			return nil
		},
	})
	return cmd
}

func buildVersionCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := map[string]string{
				"version": Version,
				"commit":  Commit,
				"built":   BuildTime,
				"go":      runtime.Version(),
			}
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listkit version %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// resolveConfig loads the configuration file and applies environment and
// flag overrides, in that order.
func resolveConfig(v *viper.Viper, loader *config.Loader) (*core.Config, error) {
	if err := loader.Load(); err != nil {
		return nil, err
	}
	cfg := loader.Get().Runtime()
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if v.IsSet("theme") {
		cfg.ColorScheme = v.GetString("theme")
	}
	if v.IsSet("log-level") {
		cfg.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("log-file") {
		cfg.LogFile = v.GetString("log-file")
	}
	if v.IsSet("items") {
		cfg.ItemCount = v.GetInt("items")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runDemo(ctx context.Context, v *viper.Viper) error {
	loader := config.NewLoader(v.GetString("config-dir"))
	cfg, err := resolveConfig(v, loader)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// The terminal belongs to the UI, so logs always go to a file
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(os.TempDir(), "listkit.log")
	}
	if err := logging.Init(cfg.LogLevel, logFile); err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logging.Close()
	log := logging.Component("main")

	opts := ui.Options{
		Config:    cfg,
		Seed:      v.GetInt64("seed"),
		Feed:      views.FeedOptions{Latency: v.GetDuration("latency")},
		ExportDir: v.GetString("export-dir"),
		Reload: func() (*core.Config, error) {
			return resolveConfig(v, loader)
		},
	}

	events, stop, err := config.Watch(loader.Path(), reloadDebounce, logging.Component("config"))
	if err != nil {
		log.Warn().Err(err).Str("path", loader.Path()).Msg("config hot reload disabled")
	} else {
		defer stop()
		opts.Events = events
	}

	app, err := ui.NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Str("version", Version).
		Str("theme", cfg.ColorScheme).
		Int("items", cfg.ItemCount).
		Msg("starting demo")

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	_, err = p.Run()
	return err
}
