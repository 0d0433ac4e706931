package main

import (
	"fmt"
	"os"

	"morpho/adapters/postgres"
	"morpho/adapters/sqlite"
	"morpho/internal"
	"morpho/internal/config"
	"morpho/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger = internal.DefaultLogger
)

var rootCmd = &cobra.Command{
	Use:   "morpho",
	Short: "Neuromorphology measurement wrangling and statistics",
	Long: `morpho ingests tabular neuromorphology measurement files (CSV, XLSX,
XLS, JSON) named by the lab convention, normalizes them into a relational
store, and runs descriptive statistics, hypothesis testing and export
generation over the stored measurements.`,
}

// Execute is the entry point called by main.
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func loadConfig() {
	// Missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	c, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	cfg = c
}

// newStore picks the backend from configuration: a DATABASE_URL selects the
// shared Postgres store, otherwise the file-backed SQLite store is used.
func newStore() ports.MeasurementStore {
	if cfg.Database.URL != "" {
		return postgres.New(cfg.Database.URL, logger)
	}
	return sqlite.New(cfg.Database.Path, logger)
}
