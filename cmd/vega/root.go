package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "vega",
	Short: "Vega - condition engine for payload routing",
	Long: `Vega compiles a small boolean expression language into JSON-Logic,
validates expressions against a typed variable catalog, and evaluates
compiled conditions against runtime payloads to pick routes.

It provides:
  - Expression parsing with precise source ranges in diagnostics
  - Catalog-driven semantic validation (types, allowed operators)
  - Bidirectional JSON-Logic transcoding with canonical rendering
  - A priority-ordered routing gate with an audit trail`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
