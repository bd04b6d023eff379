package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/seedline/internal/bracketcli"
)

// Default configuration constants.
const (
	defaultTimeout    = 10 * time.Second
	defaultRunTimeout = 2 * time.Minute
)

func main() {
	var (
		inputsFile = flag.String("inputs", "", "JSON inputs file (default: fetch live)")
		tablesFile = flag.String("tables", "", "YAML tables override file")
		mode       = flag.String("mode", "both", "fair, direct or both")
		asJSON     = flag.Bool("json", false, "Print JSON instead of a table")
		baseURL    = flag.String("url", "", "Upstream base URL for live fetches")
		timeout    = flag.Duration("timeout", defaultTimeout, "Per-source timeout for live fetches")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		bracketcli.ShowHelp()
		return
	}

	if err := bracketcli.SetupLogging(*verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &bracketcli.Config{
		InputsFile: *inputsFile,
		TablesFile: *tablesFile,
		Mode:       *mode,
		JSON:       *asJSON,
		BaseURL:    *baseURL,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := bracketcli.Run(ctx, config, os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString("Evaluation failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel already called
	}
}
