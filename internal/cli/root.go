// Package cli provides the command-line interface for the trading diary.
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/filter"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/analytics/performance"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/config"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/logging"
	"github.com/codedbyabhishek/trading-diary-sub001/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// commandTimeout bounds every store-backed command.
const commandTimeout = 30 * time.Second

// App holds the application dependencies.
type App struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Store   store.Store
	Presets *filter.PresetManager
	Goals   *config.Goals

	// Location is the analytics timezone from the configuration.
	Location *time.Location
}

// NewRootCmd creates the root command for the CLI. A nil cfg is loaded from
// the --config directory before the first command runs; the logger is then
// built from it as well.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	rootCmd := &cobra.Command{
		Use:   "diary",
		Short: "Trading diary - journal analytics from the command line",
		Long: `Trading diary records completed trades and analyzes them.

It computes P&L and R-multiples, time-bucketed performance, emotion and
note sentiment, and setup statistics over any filtered subset of the
journal. Filters can be saved as named presets.

Use 'diary help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.init(cmd); err != nil {
				return err
			}

			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return app.Close()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/trading-diary)")
	rootCmd.PersistentFlags().String("db", "", "journal database file (overrides journal.db_path)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	// Add all command groups
	addCoreCommands(rootCmd, app)
	addTradeCommands(rootCmd, app)
	addAnalyzeCommands(rootCmd, app)
	addPresetCommands(rootCmd, app)

	return rootCmd
}

// init loads configuration when none was injected and applies the flags
// that override it.
func (app *App) init(cmd *cobra.Command) error {
	if app.Config == nil {
		dir, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(dir)
		if err != nil {
			return err
		}
		app.Config = cfg
		app.Logger = logging.NewLoggerWithConfig(cfg.LogConfig())
	}

	if db, _ := cmd.Flags().GetString("db"); db != "" {
		app.Config.Journal.DBPath = db
	}

	loc, err := app.Config.Location()
	if err != nil {
		return err
	}
	app.Location = loc
	return nil
}

// openStore opens the journal database on first use.
func (app *App) openStore() (store.Store, error) {
	if app.Store != nil {
		return app.Store, nil
	}

	s, err := store.NewSQLiteStore(app.Config.Journal.DBPath, app.Logger)
	if err != nil {
		return nil, err
	}
	app.Store = s
	app.Presets = filter.NewPresetManager(s, app.Logger)
	app.Logger.Debug().Str("path", app.Config.Journal.DBPath).Msg("Journal store opened")
	return s, nil
}

// goals loads the monthly targets file on first use.
func (app *App) goals() (performance.TargetProvider, error) {
	if app.Goals != nil {
		return app.Goals, nil
	}
	g, err := config.LoadGoals(app.Config.Goals.Path)
	if err != nil {
		return nil, err
	}
	app.Goals = g
	return g, nil
}

// Close releases the store.
func (app *App) Close() error {
	if app.Store == nil {
		return nil
	}
	err := app.Store.Close()
	app.Store = nil
	app.Presets = nil
	return err
}

func commandContext(app *App) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	return logging.WithLogger(ctx, app.Logger), cancel
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Trading diary v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": app.Config.Dir})
			} else {
				output.Println(app.Config.Dir)
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if _, err := app.goals(); err != nil {
				output.Error("Goals file validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Journal")
	output.Printf("  Database:        %s\n", cfg.Journal.DBPath)
	output.Println()

	output.Bold("Analytics")
	output.Printf("  Timezone:        %s\n", cfg.Analytics.Timezone)
	output.Printf("  Similar Limit:   %d\n", cfg.Analytics.SimilarLimit)
	output.Printf("  Top Setups:      %d\n", cfg.Analytics.TopSetups)
	output.Printf("  Workers:         %s\n", workersLabel(cfg.Analytics.Workers))
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  Console:         %v\n", cfg.Logging.Console)
	output.Printf("  File:            %v\n", cfg.Logging.File)
	if cfg.Logging.File {
		output.Printf("  File Path:       %s\n", cfg.Logging.FilePath)
	}
	output.Println()

	output.Bold("Goals")
	output.Printf("  Path:            %s\n", cfg.Goals.Path)
}

func workersLabel(n int) string {
	if n == 0 {
		return "one per CPU"
	}
	return fmt.Sprintf("%d", n)
}
