package bracketcli

import (
	"fmt"
	"os"

	"github.com/okian/seedline/pkg/logger"
)

// SetupLogging initializes the logger on stderr so stdout stays clean for output.
func SetupLogging(verbose bool) error {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(logger.WithWriter(os.Stderr), logger.WithLevel(level)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the offline evaluator.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`Seedline Bracket Tool
=====================

Evaluates a set of ranking inputs and prints the twelve-team brackets.

Usage:
  go run ./cmd/seedline-cli [options]

Options:
  -inputs string
        JSON file holding rankings, record feeds and SOR rows (default: fetch live)
  -tables string
        YAML file overriding the conference, weight and hint tables
  -mode string
        fair, direct or both (default "both")
  -json
        Print JSON instead of a table
  -url string
        Upstream base URL for live fetches
  -timeout duration
        Per-source timeout for live fetches (default 10s)
  -verbose
        Enable debug logging on stderr
  -help
        Show this help message

Examples:
  # Live brackets in both modes
  go run ./cmd/seedline-cli

  # Replay a saved cycle with custom weights
  go run ./cmd/seedline-cli -inputs cycle.json -tables weights.yaml -mode fair -json
`)
}
