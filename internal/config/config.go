// Package config provides configuration loading and validation for Facet.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joshsymonds/facet/pkg/pathutil"
)

// Storage backend names accepted in configuration.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// Config represents the complete configuration for a Facet server.
type Config struct {
	Server  ServerConfig  `yaml:"server,omitempty"`
	Storage StorageConfig `yaml:"storage,omitempty"`
	Scrape  ScrapeConfig  `yaml:"scrape,omitempty"`
	Chat    ChatConfig    `yaml:"chat,omitempty"`
}

// ServerConfig contains the HTTP listener settings.
type ServerConfig struct {
	Addr           string   `yaml:"addr,omitempty"`
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"`
}

// StorageConfig selects and configures the issue document backend.
type StorageConfig struct {
	Backend string `yaml:"backend,omitempty"`
	Path    string `yaml:"path,omitempty"`
	Bucket  string `yaml:"bucket,omitempty"`
	Key     string `yaml:"key,omitempty"`
	Region  string `yaml:"region,omitempty"`
}

// ScrapeConfig contains reference scraping limits.
type ScrapeConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
	MaxURLs        int `yaml:"max_urls,omitempty"`
}

// ChatConfig configures the chat completion driver.
type ChatConfig struct {
	Driver    string `yaml:"driver,omitempty"`
	BaseURL   string `yaml:"base_url,omitempty"`
	Model     string `yaml:"model,omitempty"`
	APIKeyEnv string `yaml:"api_key_env,omitempty"`
}

// Default returns a configuration with every knob set to its built-in value.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "data/issues.json",
			Key:     "issues.json",
		},
		Scrape: ScrapeConfig{
			TimeoutSeconds: 15,
			MaxURLs:        10,
		},
		Chat: ChatConfig{
			Driver:    "openai",
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}

// LoadConfig reads and parses a YAML configuration file, layering it over the
// defaults. An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	config := Default()
	if path == "" {
		return config, nil
	}

	if _, err := pathutil.ValidateConfigPath(path); err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(path) //nolint:gosec // Path validated above
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate ensures the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	switch c.Storage.Backend {
	case BackendFile:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path is required for the file backend")
		}
	case BackendS3:
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for the s3 backend")
		}
		if c.Storage.Key == "" {
			return fmt.Errorf("storage.key is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (expected %q or %q)", c.Storage.Backend, BackendFile, BackendS3)
	}

	if c.Scrape.TimeoutSeconds <= 0 {
		return fmt.Errorf("scrape.timeout_seconds must be positive")
	}
	if c.Scrape.MaxURLs <= 0 {
		return fmt.Errorf("scrape.max_urls must be positive")
	}

	if c.Chat.Driver == "" {
		return fmt.Errorf("chat.driver is required")
	}

	return nil
}

// ScrapeTimeout returns the scrape timeout as a duration.
func (c *Config) ScrapeTimeout() time.Duration {
	return time.Duration(c.Scrape.TimeoutSeconds) * time.Second
}

// APIKey resolves the chat credential from the configured environment
// variable. Missing credentials are not an error here; the driver reports
// them per request.
func (c *Config) APIKey() string {
	if c.Chat.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Chat.APIKeyEnv)
}
