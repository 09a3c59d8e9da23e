package main

import (
	"log/slog"
	"os"

	"github.com/cwbudde/diffevo/internal/store"
	"github.com/spf13/cobra"
)

var (
	logLevel  string
	logger    *slog.Logger
	dataDir   string
	storeKind string
)

var rootCmd = &cobra.Command{
	Use:   "diffevo",
	Short: "Differential evolution search over benchmark problems",
	Long: `diffevo minimizes objective functions with differential evolution,
keeps a history of every run and serves searches over HTTP with live progress.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logger
		var level slog.Level
		switch logLevel {
		case "debug":
			level = slog.LevelDebug
		case "info":
			level = slog.LevelInfo
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		default:
			level = slog.LevelInfo
		}

		opts := &slog.HandlerOptions{Level: level}
		handler := slog.NewJSONHandler(os.Stderr, opts)
		logger = slog.New(handler)
		slog.SetDefault(logger)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "./data", "Base directory for stored runs")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "fs", "Run store backend (fs, sqlite)")
}

// openStore opens the run store selected by the global flags
func openStore() (store.Store, error) {
	return store.NewStore(storeKind, dataDir)
}
