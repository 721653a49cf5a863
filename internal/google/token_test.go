package google

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func writeTokenFile(t *testing.T, contents map[string]any) string {
	t.Helper()
	data, err := json.Marshal(contents)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, data, 0600))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestNewFileTokenSourceMissingFile(t *testing.T) {
	_, err := NewFileTokenSource(context.Background(), filepath.Join(t.TempDir(), "absent.json"), discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read credential file")
}

func TestNewFileTokenSourceMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := NewFileTokenSource(context.Background(), path, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse credential file")
}

func TestNewFileTokenSourceMissingClient(t *testing.T) {
	path := writeTokenFile(t, map[string]any{
		"refresh_token": "r",
	})

	_, err := NewFileTokenSource(context.Background(), path, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client_id")
}

func TestNewFileTokenSourceMissingTokens(t *testing.T) {
	path := writeTokenFile(t, map[string]any{
		"client_id":     "id",
		"client_secret": "secret",
	})

	_, err := NewFileTokenSource(context.Background(), path, discardLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neither a refresh token nor an access token")
}

// A token that is still valid must be served as-is, without hitting the
// refresh endpoint or rewriting the file.
func TestTokenServesValidTokenWithoutRefresh(t *testing.T) {
	expiry := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
	path := writeTokenFile(t, map[string]any{
		"client_id":     "id",
		"client_secret": "secret",
		"refresh_token": "r",
		"token":         "access",
		"expiry":        expiry,
	})

	source, err := NewFileTokenSource(context.Background(), path, discardLogger())
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	token, err := source.Token()
	require.NoError(t, err)
	assert.Equal(t, "access", token.AccessToken)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after, "file must not be rewritten when no refresh happened")
}

func TestPersistRewritesFile(t *testing.T) {
	path := writeTokenFile(t, map[string]any{
		"client_id":     "id",
		"client_secret": "secret",
		"refresh_token": "r",
		"token":         "old-access",
		"expiry":        time.Now().Add(time.Hour).UTC().Format(time.RFC3339),
	})

	source, err := NewFileTokenSource(context.Background(), path, discardLogger())
	require.NoError(t, err)

	newExpiry := time.Now().Add(2 * time.Hour)
	require.NoError(t, source.persist(&oauth2.Token{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		Expiry:       newExpiry,
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var file tokenFile
	require.NoError(t, json.Unmarshal(data, &file))
	assert.Equal(t, "new-access", file.AccessToken)
	assert.Equal(t, "new-refresh", file.RefreshToken)
	assert.Equal(t, "id", file.ClientID)
	assert.Equal(t, newExpiry.UTC().Format(time.RFC3339), file.Expiry)
}
