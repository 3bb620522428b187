//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retail-reports.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/retailytics/retail-reports/internal/config"
	"github.com/retailytics/retail-reports/internal/logging"
	"github.com/retailytics/retail-reports/internal/reports"
	"github.com/retailytics/retail-reports/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-reports",
		Short: "Analytical reporting pipeline for a small retail dataset",
		Long: `retail-reports runs a batch reporting pipeline against a PostgreSQL
database holding a retail dataset of customers, products and sales.

The pipeline has a fixed order: 'init' creates the schema and seeds
synthetic data, 'clean' normalizes locations and deduplicates sales,
and 'run' executes the analytical reports and exports each result set
to a file. Reports refuse to run before the cleaning stage has been
recorded as complete.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-reports.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available reports",
	Long: `List all reports in the catalog. Each report is an independent
read-only query over the cleaned dataset.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available reports:")
		cmd.Println()
		for _, r := range reports.All() {
			cmd.Printf("  %-28s %s\n", r.Name, r.Description)
		}
		cmd.Println()
		cmd.Println("Use 'retail-reports run --report <name>' to run a subset.")
	},
}
