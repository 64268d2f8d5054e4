// Package serve starts the Facet HTTP server.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/facet/internal/chat"
	"github.com/joshsymonds/facet/internal/config"
	"github.com/joshsymonds/facet/internal/issues"
	"github.com/joshsymonds/facet/internal/scrape"
	"github.com/joshsymonds/facet/internal/server"
	"github.com/joshsymonds/facet/internal/store"
	"github.com/joshsymonds/facet/pkg/logger"
)

var (
	configFile string
	addr       string
	dataPath   string
)

const shutdownGrace = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the issue browser API",
		Long: `Serve the Facet issue browser API.

The server exposes the issue document and its flat projection, handles
create/update/delete mutations, scrapes reference pages, and proxies
remediation chat to a completion backend.`,
		Example: `  # Serve with built-in defaults (file store at data/issues.json)
  facet serve

  # Serve with a config file
  facet serve --config facet.yaml

  # Override the listen address
  facet serve --addr :9090`,
		RunE: runServe,
	}

	cmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to config file")
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&dataPath, "data", "", "Issue document path for the file backend (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.GetGlobalLogger()

	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if dataPath != "" {
		cfg.Storage.Path = dataPath
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	driver, err := chat.DefaultRegistry.Get(cfg.Chat.Driver, chat.Options{
		BaseURL: cfg.Chat.BaseURL,
		Model:   cfg.Chat.Model,
		APIKey:  cfg.APIKey(),
	}, log)
	if err != nil {
		return fmt.Errorf("initializing chat driver: %w", err)
	}

	svc := issues.NewService(st, log)
	fetcher := scrape.NewFetcher(cfg.ScrapeTimeout(), cfg.Scrape.MaxURLs, log)
	srv := server.New(svc, fetcher, driver, cfg.Server.AllowedOrigins, log)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server listening",
			"addr", cfg.Server.Addr,
			"backend", cfg.Storage.Backend,
			"chat_driver", cfg.Chat.Driver,
		)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildStore(ctx context.Context, cfg *config.Config, log logger.Logger) (store.Store, error) {
	switch cfg.Storage.Backend {
	case config.BackendS3:
		return store.NewS3Store(ctx, cfg.Storage.Bucket, cfg.Storage.Key, cfg.Storage.Region, log)
	default:
		return store.NewFileStore(cfg.Storage.Path, log)
	}
}

// Run executes the serve command.
func Run(args []string) error {
	cmd := NewServeCommand()
	cmd.SetArgs(args)
	return cmd.Execute()
}
