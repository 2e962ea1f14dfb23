package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// testCmd represents the test command
var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the connection to the Watchmode API",
	Long:  `Check that the configured API key is accepted and show the active settings.`,
	RunE:  runTest,
}

func runTest(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	configFile := cfg.File
	if configFile == "" {
		configFile = "(environment only)"
	}

	fmt.Fprintf(out, "marquee %s (built %s)\n", appVersion, appBuildTime)
	fmt.Fprintf(out, "├── Config: %s\n", configFile)
	fmt.Fprintf(out, "├── API: %s\n", cfg.API.BaseURL)
	fmt.Fprintf(out, "├── Fan-out: %s (limit %d, concurrency %d)\n", cfg.Catalog.FanOut, cfg.Catalog.DetailLimit, cfg.Catalog.Concurrency)
	fmt.Fprintf(out, "├── List failures: %s\n", cfg.Catalog.ListFailure)
	fmt.Fprintf(out, "╰── Details misses: %s\n\n", cfg.Details.MissPolicy)

	start := time.Now()
	if err := client.TestConnection(cmd.Context()); err != nil {
		return fmt.Errorf("connection test failed: %w", err)
	}

	fmt.Fprintf(out, "✓ Connected to Watchmode in %s\n", time.Since(start).Round(time.Millisecond))
	return nil
}
