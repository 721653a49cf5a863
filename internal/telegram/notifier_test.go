package telegram

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNotifierEmptyToken(t *testing.T) {
	_, err := NewNotifier("", slog.New(slog.DiscardHandler))
	require.Error(t, err)

	_, err = NewNotifier("   ", slog.New(slog.DiscardHandler))
	require.Error(t, err)
}

func TestNewNotifierOffline(t *testing.T) {
	// Offline construction must not require network access.
	n, err := NewNotifier("123456:test-token", slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	assert.NotNil(t, n)
}
