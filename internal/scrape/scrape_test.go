package scrape

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshsymonds/facet/pkg/logger"
)

const testPage = `<!DOCTYPE html>
<html>
<head><title>Hardening guide</title><style>body { color: red; }</style></head>
<body>
<script>console.log("tracking");</script>
<h1>Disable legacy auth</h1>
<p>Legacy &amp; basic authentication should be turned off.</p>
</body>
</html>`

func TestFetchAllSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(testPage))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 10, logger.NewMockLogger())
	results := f.FetchAll(context.Background(), []string{srv.URL})

	require.Len(t, results, 1)
	r := results[0]
	assert.True(t, r.OK)
	assert.Equal(t, http.StatusOK, r.Status)
	assert.Contains(t, r.Text, "Disable legacy auth")
	assert.Contains(t, r.Text, "Legacy & basic authentication")
	assert.NotContains(t, r.Text, "console.log", "script content stripped")
	assert.NotContains(t, r.Text, "color: red", "style content stripped")
	assert.NotContains(t, r.Text, "<h1>", "tags stripped")
}

func TestFetchAllPartialFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<p>ok</p>"))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 10, logger.NewMockLogger())
	results := f.FetchAll(context.Background(), []string{srv.URL, "not a url"})

	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.NotEmpty(t, results[1].Error)
}

func TestFetchAllHTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 10, logger.NewMockLogger())
	results := f.FetchAll(context.Background(), []string{srv.URL})

	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Equal(t, http.StatusNotFound, results[0].Status)
}

func TestFetchAllUnreachableHost(t *testing.T) {
	// A server that is already closed refuses connections.
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	f := NewFetcher(2*time.Second, 10, logger.NewMockLogger())
	results := f.FetchAll(context.Background(), []string{srv.URL})

	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.Equal(t, "fetch failed", results[0].Error)
}

func TestFetchAllDedupesAndCaps(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := NewFetcher(5*time.Second, 2, logger.NewMockLogger())
	results := f.FetchAll(context.Background(), []string{
		srv.URL, srv.URL, "", srv.URL + "/second", srv.URL + "/third",
	})

	require.Len(t, results, 2, "duplicates and empties dropped, capped at 2")
	assert.Equal(t, srv.URL, results[0].URL)
	assert.Equal(t, srv.URL+"/second", results[1].URL)
}

func TestFetchAllRejectsNonHTTPSchemes(t *testing.T) {
	f := NewFetcher(time.Second, 10, logger.NewMockLogger())
	results := f.FetchAll(context.Background(), []string{"ftp://example.com/file"})

	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
}

func TestFetchAllEmptyInput(t *testing.T) {
	f := NewFetcher(time.Second, 10, logger.NewMockLogger())
	assert.Empty(t, f.FetchAll(context.Background(), nil))
}

func TestExtractText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain text passes through",
			in:   "just text",
			want: "just text",
		},
		{
			name: "entities decoded",
			in:   "<p>a &lt; b &amp;&nbsp;c</p>",
			want: "a < b & c",
		},
		{
			name: "whitespace collapsed",
			in:   "<div>\n   one\n\n two  </div>",
			want: "one two",
		},
		{
			name: "unclosed markup degrades gracefully",
			in:   "<p>hello <b",
			want: "hello <b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractText(tt.in))
		})
	}
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abcd", 2))
	assert.Equal(t, "日本", truncateRunes("日本語", 2), "truncation is rune-safe")
}
