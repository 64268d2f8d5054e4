package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/joshsymonds/facet/internal/httpclient"
	"github.com/joshsymonds/facet/pkg/logger"
)

// Defaults for the OpenAI-compatible driver.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 20 * time.Second

	// Source texts beyond this many runes are cut before prompting.
	maxSourceRunes = 8000
)

// OpenAIDriver talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIDriver struct {
	client  *resty.Client
	logger  logger.Logger
	baseURL string
	model   string
	apiKey  string
}

// NewOpenAIDriver creates the driver. A missing API key is not an error
// here; Complete reports ErrNoCredential so the boundary can answer 401.
func NewOpenAIDriver(opts Options, log logger.Logger) (*OpenAIDriver, error) {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := opts.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := DefaultTimeout
	if opts.TimeoutMS > 0 {
		timeout = time.Duration(opts.TimeoutMS) * time.Millisecond
	}

	return &OpenAIDriver{
		client:  httpclient.New(timeout, log),
		logger:  log,
		baseURL: baseURL,
		model:   model,
		apiKey:  opts.APIKey,
	}, nil
}

type completionRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete implements Driver.
func (d *OpenAIDriver) Complete(ctx context.Context, messages []Message, sources []Source) (string, error) {
	if d.apiKey == "" {
		return "", ErrNoCredential
	}

	req := completionRequest{
		Model:    d.model,
		Messages: append([]Message{{Role: "system", Content: buildSystemPrompt(sources)}}, messages...),
	}

	var out completionResponse
	resp, err := d.client.R().
		SetContext(ctx).
		SetAuthToken(d.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		SetResult(&out).
		SetError(&out).
		Post(d.baseURL + "/chat/completions")
	if err != nil {
		return "", fmt.Errorf("calling completion backend: %w", err)
	}

	if resp.IsError() {
		msg := out.Error.Message
		if msg == "" {
			msg = resp.Status()
		}
		d.logger.Warn("Completion backend returned error", "status", resp.StatusCode())
		return "", &UpstreamError{Status: resp.StatusCode(), Message: msg}
	}

	if len(out.Choices) == 0 {
		return "", &UpstreamError{Status: resp.StatusCode(), Message: "empty completion response"}
	}

	return out.Choices[0].Message.Content, nil
}

// buildSystemPrompt frames the assistant and folds in scraped reference
// text. Conversations carry no memory beyond the submitted messages.
func buildSystemPrompt(sources []Source) string {
	var b strings.Builder
	b.WriteString("You are a security remediation assistant. Answer questions about the selected security issue concisely and practically.")

	withText := make([]Source, 0, len(sources))
	for _, src := range sources {
		if strings.TrimSpace(src.Text) != "" {
			withText = append(withText, src)
		}
	}
	if len(withText) == 0 {
		return b.String()
	}

	b.WriteString(" Ground your answers in the following reference material when relevant.\n")
	for _, src := range withText {
		text := src.Text
		if runes := []rune(text); len(runes) > maxSourceRunes {
			text = string(runes[:maxSourceRunes])
		}
		fmt.Fprintf(&b, "\n--- Source: %s ---\n%s\n", src.URL, text)
	}
	return b.String()
}

// init registers the driver.
func init() {
	DefaultRegistry.Register("openai", func(opts Options, log logger.Logger) (Driver, error) {
		return NewOpenAIDriver(opts, log)
	})
}
