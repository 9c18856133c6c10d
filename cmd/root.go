package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rail44/roster/internal/app"
	"github.com/rail44/roster/internal/config"
	"github.com/rail44/roster/internal/formatter"
	"github.com/rail44/roster/internal/log"
	"github.com/rail44/roster/internal/ui"
)

var (
	cfgFile  string
	endpoint string
	output   string
	logLevel string
	plain    bool
)

var rootCmd = &cobra.Command{
	Use:   "roster",
	Short: "Fetch, deduplicate and print users from a remote endpoint",
	Long: `Roster fetches the user list from a JSON endpoint, caches one model
instance per user id and prints the result to the console.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is roster.toml in the current or a parent directory)")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "API root the users are fetched from")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output format: table, json, yaml, markdown or plain")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: error, warn, info or debug")
	rootCmd.PersistentFlags().BoolVar(&plain, "plain", false, "disable the interactive UI")
}

// loadConfig reads the config file and applies flag overrides
func loadConfig() *config.Config {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		log.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if output != "" {
		cfg.Output = output
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	cfg.Plain = plain

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	setupLogging(cfg)
	if cfg.Path() != "" {
		log.Debug("using config file", slog.String("path", cfg.Path()))
	}
	return cfg
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Error("invalid log level", slog.String("level", cfg.LogLevel))
		os.Exit(1)
	}
	if err := log.SetLevel(level); err != nil {
		log.Error("failed to set log level", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// newApp loads the config and builds the App writing to stdout
func newApp() (*app.App, *config.Config) {
	cfg := loadConfig()
	a, err := app.New(cfg, app.Options{
		Out: os.Stdout,
		Terminal: formatter.Options{
			Terminal: ui.IsTerminal(),
			Width:    ui.TerminalWidth(),
		},
	})
	if err != nil {
		log.Error("failed to initialise", slog.String("error", err.Error()))
		os.Exit(1)
	}
	return a, cfg
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
