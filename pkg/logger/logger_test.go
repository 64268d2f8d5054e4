package logger

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLoggerWith(t *testing.T) {
	var buf strings.Builder
	base := NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	child := base.With("component", "store")
	child.Info("loaded document", "sections", 2)

	out := buf.String()
	assert.Contains(t, out, "component=store")
	assert.Contains(t, out, "sections=2")
	assert.Contains(t, out, "loaded document")
}

func TestGlobalLogger(t *testing.T) {
	orig := GetGlobalLogger()
	defer SetGlobalLogger(orig)

	mock := NewMockLogger()
	SetGlobalLogger(mock)

	GetGlobalLogger().Warn("something odd")
	require.True(t, mock.HasMessage("WARN", "something odd"))
}

// Both implementations must satisfy the full Logger surface, no more.
var (
	_ Logger = (*SlogLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)

func TestMockLoggerHasMessageContaining(t *testing.T) {
	mock := NewMockLogger()
	mock.Info("seeded issue document from embedded copy")

	assert.True(t, mock.HasMessageContaining("INFO", "seeded issue"))
	assert.False(t, mock.HasMessageContaining("WARN", "seeded issue"))
	assert.False(t, mock.HasMessageContaining("INFO", "no such text"))
}

func TestMockLoggerSharesMessagesAcrossWith(t *testing.T) {
	mock := NewMockLogger()
	child := mock.With("request_id", "abc")
	child.Error("boom")

	require.Len(t, *mock.Messages, 1)
	assert.Equal(t, "ERROR", (*mock.Messages)[0].Level)
	assert.Contains(t, (*mock.Messages)[0].Args, "request_id")
}
