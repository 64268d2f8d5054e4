// Package chat proxies remediation-assistant conversations to a completion
// backend, optionally grounding them in scraped reference text.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshsymonds/facet/pkg/logger"
)

// Message is one role-tagged turn of the conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Source is scraped reference text the reply should be grounded in.
type Source struct {
	URL  string `json:"url"`
	Text string `json:"text"`
}

// Driver is the interface completion backends implement.
type Driver interface {
	// Complete returns a natural-language reply to the conversation.
	Complete(ctx context.Context, messages []Message, sources []Source) (string, error)
}

// Options configures a driver instance.
type Options struct {
	BaseURL   string
	Model     string
	APIKey    string
	TimeoutMS int
}

// ErrNoCredential is returned when the upstream API key is not configured.
var ErrNoCredential = errors.New("chat completion API key not configured")

// UpstreamError reports a non-success response from the completion backend.
// The status is passed through to the caller.
type UpstreamError struct {
	Message string
	Status  int
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream completion failed with status %d: %s", e.Status, e.Message)
}

// DriverRegistry manages available completion drivers.
type DriverRegistry struct {
	drivers map[string]func(opts Options, log logger.Logger) (Driver, error)
}

// NewDriverRegistry creates a new driver registry.
func NewDriverRegistry() *DriverRegistry {
	return &DriverRegistry{
		drivers: make(map[string]func(opts Options, log logger.Logger) (Driver, error)),
	}
}

// Register registers a new driver factory.
func (r *DriverRegistry) Register(name string, factory func(opts Options, log logger.Logger) (Driver, error)) {
	r.drivers[name] = factory
}

// Get builds a driver by name.
func (r *DriverRegistry) Get(name string, opts Options, log logger.Logger) (Driver, error) {
	factory, ok := r.drivers[name]
	if !ok {
		return nil, fmt.Errorf("chat driver not found: %s", name)
	}
	return factory(opts, log)
}

// DefaultRegistry is the global driver registry.
var DefaultRegistry = NewDriverRegistry()
