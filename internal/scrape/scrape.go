// Package scrape fetches reference URLs and extracts readable text for the
// remediation assistant to ground its answers in.
package scrape

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/joshsymonds/facet/internal/httpclient"
	"github.com/joshsymonds/facet/pkg/logger"
)

// Result is the outcome of fetching one URL. Failures are per-URL; a bad
// entry never fails the batch.
type Result struct {
	URL    string `json:"url"`
	Error  string `json:"error,omitempty"`
	Text   string `json:"text,omitempty"`
	Status int    `json:"status,omitempty"`
	OK     bool   `json:"ok"`
}

// Defaults for the fetcher.
const (
	DefaultTimeout  = 15 * time.Second
	DefaultMaxURLs  = 10
	defaultMaxRunes = 20000
)

// Fetcher downloads pages and extracts their text.
type Fetcher struct {
	client   *resty.Client
	logger   logger.Logger
	maxURLs  int
	maxRunes int
}

// NewFetcher creates a fetcher. A non-positive timeout or maxURLs falls back
// to the defaults.
func NewFetcher(timeout time.Duration, maxURLs int, log logger.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}

	client := httpclient.New(timeout, log).
		SetHeader("User-Agent", "facet-scraper/1.0").
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &Fetcher{
		client:   client,
		logger:   log,
		maxURLs:  maxURLs,
		maxRunes: defaultMaxRunes,
	}
}

// FetchAll fetches the given URLs in parallel. Input is deduplicated in
// order and capped at the fetcher's URL limit; each URL produces exactly one
// Result, in input order.
func (f *Fetcher) FetchAll(ctx context.Context, urls []string) []Result {
	targets := dedupe(urls, f.maxURLs)
	results := make([]Result, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			results[i] = f.fetchOne(ctx, target)
		}(i, target)
	}
	wg.Wait()

	return results
}

func (f *Fetcher) fetchOne(ctx context.Context, target string) Result {
	result := Result{URL: target}

	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		result.Error = "not a valid http(s) URL"
		return result
	}

	resp, err := f.client.R().SetContext(ctx).Get(target)
	if err != nil {
		f.logger.Debug("Scrape failed", "url", target, "error", err)
		result.Error = "fetch failed"
		return result
	}

	result.Status = resp.StatusCode()
	if resp.StatusCode() >= 400 {
		result.Error = "fetch returned " + resp.Status()
		return result
	}

	result.OK = true
	result.Text = truncateRunes(ExtractText(string(resp.Body())), f.maxRunes)
	return result
}

// dedupe drops empty entries and duplicates while preserving first-seen
// order, keeping at most max entries.
func dedupe(urls []string, max int) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
		if len(out) >= max {
			break
		}
	}
	return out
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
