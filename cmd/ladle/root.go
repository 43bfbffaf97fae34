package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/ladle/internal/config"
	"github.com/aretw0/ladle/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "ladle",
	Short: "Ladle is a recipe walkthrough assistant",
	Long: `Ladle walks you through a recipe one step at a time without ever losing
your place: navigation is deterministic, recipe questions are answered from
the recipe itself, and everything else can be deferred to an LLM.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to a ladle.yaml config file")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn, error")
}

// loadConfig resolves the effective configuration for a command: file first,
// then flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	levelStr, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		level = slog.LevelWarn
	}
	return logging.New(level)
}
