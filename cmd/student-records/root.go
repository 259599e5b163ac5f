package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aanand-mishra/student-records/internal/config"
	"github.com/aanand-mishra/student-records/internal/storage"
	"github.com/aanand-mishra/student-records/internal/storage/flatfile"
	"github.com/spf13/cobra"
)

// Shared state wired up once in PersistentPreRunE, before any
// subcommand runs. Every subcommand talks to the store through the
// storage.Storage interface, never the flatfile type directly.
var (
	cfgPath string
	cfg     *config.Config
	store   storage.Storage
)

var rootCmd = &cobra.Command{
	Use:   "student-records",
	Short: "Keep student academic records as flat files on disk",
	Long: `student-records maintains one KEY = VALUE text file per student under
a data root, with a persisted counter handing out sequential IDs.

Records hold identity fields (name, date of birth, parent names, phone
number) and four subject grades with a derived average. Fields are
edited one at a time; every write is an atomic whole-file replace.`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.MustLoad(cfgPath)
		slog.SetDefault(setupLogger(cfg.Env))

		st, err := flatfile.New(cfg)
		if err != nil {
			return fmt.Errorf("initialise storage: %w", err)
		}
		store = st
		return nil
	},
}

// Execute runs the command tree. Errors are printed once, here, and
// turn into a non-zero exit code for scripts to check.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "",
		"path to the configuration YAML file (default: env + built-ins)")
}

// setupLogger returns a *slog.Logger configured for the given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
// Logs go to stderr so command output on stdout stays scriptable.
func setupLogger(env string) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
