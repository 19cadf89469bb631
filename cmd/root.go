// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-dashboard/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "pr-dashboard",
	Short: "A dashboard of pull request and review statistics.",
	Long: `pr-dashboard collects pull request and review statistics from GitHub,
serves them as a dashboard API and draws them as bar and stacked bar charts.
The charts can be served as a web page or rendered to SVG, HTML, ECharts,
JSON, YAML, text tables or an Excel workbook.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Config file (default is ./.pr-dashboard.yaml or $HOME/.pr-dashboard.yaml)")
}

// newLogger discards all logs unless --verbose is set.
func newLogger(cmd *cobra.Command) *log.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := log.New(io.Discard, "", log.LstdFlags)
	if verbose {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

// mustLoadConfig loads the configuration or exits.
func mustLoadConfig(cmd *cobra.Command) *config.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(path)
	if err != nil {
		cmd.PrintErrf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
