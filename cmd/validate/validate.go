// Package validate checks a Facet configuration file.
package validate

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/joshsymonds/facet/internal/config"
)

// Run executes the validate command.
func Run(args []string) error {
	var configFile string

	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.StringVar(&configFile, "config", "", "Configuration file to validate (required)")

	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, `Usage: facet validate [options]

Validate a Facet configuration file.

Options:`)
		fs.PrintDefaults()
		fmt.Fprintln(os.Stderr, `
Examples:
  facet validate --config facet.yaml`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if configFile == "" {
		return fmt.Errorf("--config flag is required")
	}

	fmt.Printf("Validating configuration: %s\n\n", configFile)

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	printValidationResults(cfg)

	fmt.Println("\nConfiguration is valid.")
	return nil
}

func printValidationResults(cfg *config.Config) {
	fmt.Println("Server:")
	fmt.Printf("   Addr: %s\n", cfg.Server.Addr)
	fmt.Printf("   Allowed origins: %s\n", strings.Join(cfg.Server.AllowedOrigins, ", "))

	fmt.Println("\nStorage:")
	fmt.Printf("   Backend: %s\n", cfg.Storage.Backend)
	switch cfg.Storage.Backend {
	case config.BackendS3:
		fmt.Printf("   Bucket: %s\n", cfg.Storage.Bucket)
		fmt.Printf("   Key: %s\n", cfg.Storage.Key)
		if cfg.Storage.Region != "" {
			fmt.Printf("   Region: %s\n", cfg.Storage.Region)
		}
	default:
		fmt.Printf("   Path: %s\n", cfg.Storage.Path)
	}

	fmt.Println("\nScrape:")
	fmt.Printf("   Timeout: %s\n", cfg.ScrapeTimeout())
	fmt.Printf("   Max URLs: %d\n", cfg.Scrape.MaxURLs)

	fmt.Println("\nChat:")
	fmt.Printf("   Driver: %s\n", cfg.Chat.Driver)
	if cfg.Chat.Model != "" {
		fmt.Printf("   Model: %s\n", cfg.Chat.Model)
	}
	if cfg.Chat.APIKeyEnv != "" {
		if cfg.APIKey() != "" {
			fmt.Printf("   Credential: %s (set)\n", cfg.Chat.APIKeyEnv)
		} else {
			fmt.Printf("   Credential: %s (not set)\n", cfg.Chat.APIKeyEnv)
		}
	}
}
