package main

import (
	"context"
	"fmt"
	"os"

	"github.com/doclab/doclab/internal/config"
	"github.com/doclab/doclab/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	envFile  string
	logLevel string

	cfg *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "document",
	Short: "DocLab laboratory document catalog",
	Long: `DocLab keeps the laboratory's protocols, methods, reports and instructions
together with their review status, version history and comment threads.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.SetOutput(os.Stderr)
		var err error
		cfg, err = config.LoadConfig(envFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		level := cfg.LogLevel
		if logLevel != "" {
			level = logLevel
		}
		logger.Init(level)
		logger.Debugf("startup: LOG_LEVEL=%s", logger.LevelString())
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug|info|warn|error (overrides LOG_LEVEL)")
}
