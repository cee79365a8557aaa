package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"
)

// TokenProvider supplies bearer tokens for API calls.
// Implementations may cache; callers request a token per call path and never
// assume a long-lived session.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// M2MConfig holds configuration for the machine-to-machine token source.
type M2MConfig struct {
	// TokenURL is the OAuth client-credentials token endpoint (required).
	TokenURL string

	// ClientID is the M2M client id (required).
	ClientID string

	// ClientSecret is the M2M client secret (required).
	ClientSecret string

	// Audience is the audience claim to request.
	Audience string

	// HTTPClient is the client used for token requests (default: 30s timeout).
	HTTPClient *http.Client

	// Leeway is subtracted from the token lifetime so a token is refreshed
	// before it actually expires (default: 60s).
	Leeway time.Duration
}

// M2MTokenSource fetches client-credentials tokens and caches them until
// shortly before expiry. Safe for concurrent use.
type M2MTokenSource struct {
	config M2MConfig

	mu      sync.Mutex
	token   string
	expires time.Time
}

var _ TokenProvider = (*M2MTokenSource)(nil)

// NewM2MTokenSource creates a token source with the given configuration.
// Applies defaults for HTTPClient and Leeway if not set.
func NewM2MTokenSource(cfg M2MConfig) *M2MTokenSource {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if cfg.Leeway == 0 {
		cfg.Leeway = 60 * time.Second
	}

	return &M2MTokenSource{config: cfg}
}

// Token returns a cached token when still valid, otherwise fetches a new one.
func (s *M2MTokenSource) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && time.Now().Before(s.expires) {
		return s.token, nil
	}

	token, expiresIn, err := s.fetch(ctx)
	if err != nil {
		return "", err
	}

	s.token = token
	s.expires = time.Now().Add(expiresIn - s.config.Leeway)
	return token, nil
}

func (s *M2MTokenSource) fetch(ctx context.Context) (string, time.Duration, error) {
	body, err := json.Marshal(map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     s.config.ClientID,
		"client_secret": s.config.ClientSecret,
		"audience":      s.config.Audience,
	})
	if err != nil {
		return "", 0, fmt.Errorf("failed to encode token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL, bytes.NewReader(body))
	if err != nil {
		return "", 0, fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.config.HTTPClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", 0, fmt.Errorf("token endpoint returned status %d: %s", resp.StatusCode, snippet)
	}

	var payload struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", 0, fmt.Errorf("failed to decode token response: %w", err)
	}
	if payload.AccessToken == "" {
		return "", 0, fmt.Errorf("token endpoint returned an empty access token")
	}

	return payload.AccessToken, time.Duration(payload.ExpiresIn) * time.Second, nil
}

// StaticToken is a TokenProvider returning a fixed token, for tests and local
// development against unauthenticated stubs.
type StaticToken string

// Token returns the static token value.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}
