package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/penilai/internal/config"
	"github.com/abhisek/penilai/internal/store"
)

// Resolved by the root command before any subcommand runs.
var (
	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "penilai",
	Short: "Rubric extraction and grading for lesson plans",
	Long: "Penilai reads AI-authored lesson plans (Modul Ajar), recovers the assessment rubric\n" +
		"they contain and turns per-criterion scores into final grades.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides PENILAI_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (overrides PENILAI_CONFIG env var)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(gradeCmd)
	rootCmd.AddCommand(gradesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves defaults, the config file and environment, then
// applies the global flags on top.
func loadConfig(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	c, err := config.Load(path)
	if err != nil {
		return err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		c.DBPath = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		c.LogLevel = l
	}

	l, err := c.NewLogger(os.Stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(l)
	cfg, logger = c, l
	return nil
}

// resolveDBPath returns the configured database path, or the default XDG
// path when none is set.
func resolveDBPath() (string, error) {
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	logger.Debug("database opened", "path", dbPath)
	return s, nil
}
