// Package main is the entry point for the Facet issue browser backend.
// Facet serves a nested security-findings document and its flat, display-ready
// projection over HTTP, handles issue mutations, scrapes reference pages, and
// proxies remediation chat to a completion backend.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joshsymonds/facet/cmd/serve"
	"github.com/joshsymonds/facet/cmd/validate"
	"github.com/joshsymonds/facet/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	// Global flags
	var (
		debug       bool
		logFormat   string
		showVersion bool
	)

	globalFlags := flag.NewFlagSet("facet", flag.ExitOnError)
	globalFlags.BoolVar(&debug, "debug", false, "Enable debug logging")
	globalFlags.StringVar(&logFormat, "log-format", "text", "Log format (text or json)")
	globalFlags.BoolVar(&showVersion, "version", false, "Show version information")

	if err := globalFlags.Parse(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if showVersion {
		fmt.Printf("facet version %s (built %s)\n", version, buildTime) //nolint:forbidigo
		os.Exit(0)
	}

	logger.SetupLogger(debug, logFormat)

	args := globalFlags.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "serve":
		if err := serve.Run(commandArgs); err != nil {
			logger.GetGlobalLogger().Error("serve failed", "error", err)
			os.Exit(1)
		}
	case "validate":
		if err := validate.Run(commandArgs); err != nil {
			logger.GetGlobalLogger().Error("config validation failed", "error", err)
			os.Exit(1)
		}
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	//nolint:forbidigo
	fmt.Println(`Facet Issue Browser

Usage:
  facet [global flags] <command> [command flags]

Commands:
  serve          Serve the issue browser API
  validate       Validate configuration
  help           Show this help message

Global Flags:
  --debug         Enable debug logging
  --log-format    Log format (text or json) (default: text)
  --version       Show version information

Examples:
  facet serve --config facet.yaml
  facet serve --addr :9090 --data data/issues.json
  facet validate --config facet.yaml

Use "facet <command> --help" for more information about a command.`)
}
