package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoSim-25-26J-441/system-autopsy/pkg/config"
	"github.com/GoSim-25-26J-441/system-autopsy/pkg/logger"
)

var (
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	// cfg is resolved once in PersistentPreRunE for every subcommand.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "autopsy",
	Short: "System autopsy failure simulator",
	Long: "autopsy simulates a small service topology, injects failure scenarios, " +
		"propagates degradation along dependencies and explains the outcome.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath, envFile)
		if err != nil {
			return err
		}
		var level, format string
		if cmd.Flags().Changed("log-level") {
			level = logLevel
		}
		if cmd.Flags().Changed("log-format") {
			format = logFormat
		}
		if err := overrideLogging(loaded, level, format); err != nil {
			return err
		}
		cfg = loaded
		logger.SetDefault(logger.NewWithFormat(cfg.LogLevel, cfg.LogFormat, os.Stderr))
		return nil
	},
}

// overrideLogging applies non-empty flag values and revalidates c.
func overrideLogging(c *config.Config, level, format string) error {
	if level != "" {
		c.LogLevel = strings.ToLower(level)
	}
	if format != "" {
		c.LogFormat = strings.ToLower(format)
	}
	return config.Validate(c)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config (defaults are used when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the process environment")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (json, text)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(explainCmd)
}
