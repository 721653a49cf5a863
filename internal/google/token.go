package google

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"schedbot/internal/logging"
)

// CalendarEventsScope is the only Google OAuth scope this service needs.
const CalendarEventsScope = "https://www.googleapis.com/auth/calendar.events"

// tokenFile mirrors the Google "authorized user" credential JSON written by
// the standard OAuth tooling (client id/secret plus refresh token, with the
// current access token and its expiry alongside).
type tokenFile struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"token,omitempty"`
	Expiry       string `json:"expiry,omitempty"`
	Type         string `json:"type,omitempty"`
}

// FileTokenSource is an oauth2.TokenSource backed by an authorized-user
// credential file. Refreshed tokens are written back to the file so the next
// process start reuses them instead of burning another refresh.
//
// There is no cross-process lock around the file; concurrent runs may race
// on a refresh, which is acceptable at this service's concurrency level.
type FileTokenSource struct {
	path   string
	logger *slog.Logger

	mu     sync.Mutex
	file   tokenFile
	source oauth2.TokenSource
	last   string // last persisted access token
}

// NewFileTokenSource loads the credential file at path and returns a token
// source for it. A missing or malformed file is a hard failure: there is no
// self-healing path, the operator must re-supply the credential.
func NewFileTokenSource(ctx context.Context, path string, logger *slog.Logger) (*FileTokenSource, error) {
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credential file %s: %w", path, err)
	}

	var file tokenFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse credential file %s: %w", path, err)
	}
	if file.ClientID == "" || file.ClientSecret == "" {
		return nil, fmt.Errorf("credential file %s is missing client_id or client_secret", path)
	}
	if file.RefreshToken == "" && file.AccessToken == "" {
		return nil, fmt.Errorf("credential file %s holds neither a refresh token nor an access token", path)
	}

	conf := &oauth2.Config{
		ClientID:     file.ClientID,
		ClientSecret: file.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{CalendarEventsScope},
	}

	token := &oauth2.Token{
		AccessToken:  file.AccessToken,
		TokenType:    "Bearer",
		RefreshToken: file.RefreshToken,
	}
	if file.Expiry != "" {
		if expiry, parseErr := time.Parse(time.RFC3339, file.Expiry); parseErr == nil {
			token.Expiry = expiry
		} else {
			// Unparseable expiry: treat the access token as already expired
			// so the source refreshes instead of sending a stale credential.
			token.Expiry = time.Unix(1, 0)
		}
	} else {
		token.Expiry = time.Unix(1, 0)
	}

	return &FileTokenSource{
		path:   path,
		logger: logging.WithService(logger, "google"),
		file:   file,
		source: conf.TokenSource(ctx, token),
		last:   file.AccessToken,
	}, nil
}

// Token implements oauth2.TokenSource. A refresh that the upstream endpoint
// rejects (revoked or expired refresh token) surfaces as an error; callers
// convert it into per-event outcomes.
func (s *FileTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.source.Token()
	if err != nil {
		return nil, fmt.Errorf("oauth token expired or missing, re-supply the credential file: %w", err)
	}

	if token.AccessToken != s.last {
		if persistErr := s.persist(token); persistErr != nil {
			// The token itself is still valid; losing the persisted copy only
			// costs an extra refresh on the next start.
			s.logger.Warn("failed to persist refreshed token",
				logging.Operation("refresh"), logging.Err(persistErr))
		} else {
			s.logger.Info("persisted refreshed token", logging.Operation("refresh"))
		}
		s.last = token.AccessToken
	}

	return token, nil
}

func (s *FileTokenSource) persist(token *oauth2.Token) error {
	out := s.file
	out.AccessToken = token.AccessToken
	if token.RefreshToken != "" {
		out.RefreshToken = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		out.Expiry = token.Expiry.UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode credential file: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write credential file %s: %w", s.path, err)
	}

	s.file = out
	return nil
}
