// Package httpclient configures outbound HTTP clients.
package httpclient

import (
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/joshsymonds/facet/pkg/logger"
)

// loggerAdapter forwards resty's log calls to a facet logger.
type loggerAdapter struct {
	logger logger.Logger
}

// Errorf logs a message at error level.
func (a *loggerAdapter) Errorf(format string, v ...any) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

// Warnf logs a message at warning level.
func (a *loggerAdapter) Warnf(format string, v ...any) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

// Debugf logs a message at debug level.
func (a *loggerAdapter) Debugf(format string, v ...any) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}

// New returns a resty client with the given timeout, logging through log.
// No retries: callers here either tolerate individual failures (scrape) or
// surface them directly (chat).
func New(timeout time.Duration, log logger.Logger) *resty.Client {
	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0)
	if log != nil {
		client.SetLogger(&loggerAdapter{logger: log})
	}
	return client
}
