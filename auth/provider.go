package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadenza"
)

// Provider produces a valid bearer token on demand.
//
// AccessToken may perform network I/O (a token exchange or refresh); Close
// releases any HTTP client the provider created itself.
type Provider interface {
	AccessToken(ctx context.Context) (string, error)
	Close() error
}

// Options configures a credential provider. ClientID and ClientSecret fall
// back to the SPOTIFY_CLIENT_ID / SPOTIFY_CLIENT_SECRET environment
// variables when empty.
type Options struct {
	ClientID     string
	ClientSecret string

	// TokenCache defaults to a fresh MemoryTokenCache.
	TokenCache TokenCache

	// Timeout bounds each token endpoint request. Defaults to 30s.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first.
	// Zero means the default of 3.
	MaxRetries int

	// Skew is the safety margin subtracted from expiry. Defaults to 30s.
	Skew time.Duration

	// HTTPClient, when set, is used for token requests and is owned by the
	// caller; the provider will not close it.
	HTTPClient *http.Client

	// TokenURL overrides the accounts-service token endpoint. Intended for
	// tests and proxies; defaults to [TokenURL].
	TokenURL string

	Logger *log.Logger
}

// test seams
var (
	sleep = func(ctx context.Context, d time.Duration) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
	jitter = func() float64 { return 0.5 + rand.Float64()*0.5 }
)

// NormalizeScope joins scope fragments into a single space-separated string.
//
// Each fragment may itself be space- or comma-separated; empty fragments are
// removed. An empty result normalizes to "".
func NormalizeScope(scope ...string) string {
	var parts []string
	for _, fragment := range scope {
		fragment = strings.ReplaceAll(fragment, ",", " ")
		for _, part := range strings.Fields(fragment) {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

// basicAuthHeader builds the Authorization header for the token endpoint.
func basicAuthHeader(clientID, clientSecret string) string {
	raw := clientID + ":" + clientSecret
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(raw))
}

// calculateBackoff returns the jittered exponential backoff for an attempt.
func calculateBackoff(attempt int) time.Duration {
	backoff := float64(initialBackoff) * math.Pow(backoffMultiplier, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}
	return time.Duration(backoff * jitter())
}

// tokenExchanger performs POSTs against the token endpoint with the retry
// policy shared by both providers: connect/timeout errors and 5xx responses
// retry with backoff, everything else surfaces immediately.
type tokenExchanger struct {
	tokenURL     string
	clientID     string
	clientSecret string
	maxRetries   int
	client       *http.Client
	logger       *log.Logger
}

// fetch runs the exchange. requireRefreshToken makes a response without a
// refresh_token an authentication failure; fallbackRefreshToken is retained
// when the server does not rotate the refresh token; fallbackScope fills in
// when the response omits scope.
func (t *tokenExchanger) fetch(
	ctx context.Context,
	form url.Values,
	requireRefreshToken bool,
	fallbackRefreshToken string,
	fallbackScope string,
) (*TokenInfo, error) {
	var lastErr error

	for attempt := 0; attempt <= t.maxRetries; attempt++ {
		token, err := t.post(ctx, form, requireRefreshToken, fallbackRefreshToken, fallbackScope)
		if err == nil {
			return token, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}

		var serverErr *cadenza.ServerError
		retryable := errors.As(err, &serverErr) || isTransportError(err)
		if !retryable || attempt >= t.maxRetries {
			break
		}

		backoff := calculateBackoff(attempt)
		t.logger.Debug("token request failed, retrying", "attempt", attempt+1, "backoff", backoff, "error", err)
		if sleepErr := sleep(ctx, backoff); sleepErr != nil {
			return nil, lastErr
		}
	}

	if isTransportError(lastErr) {
		return nil, &cadenza.APIError{Message: fmt.Sprintf("connection error: %v", lastErr)}
	}
	return nil, lastErr
}

// post performs one token endpoint request.
func (t *tokenExchanger) post(
	ctx context.Context,
	form url.Values,
	requireRefreshToken bool,
	fallbackRefreshToken string,
	fallbackScope string,
) (*TokenInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Authorization", basicAuthHeader(t.clientID, t.clientSecret))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, transportError{err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError{err}
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		data = map[string]any{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := extractErrorMessage(data)
		if resp.StatusCode >= 500 {
			return nil, &cadenza.ServerError{APIError: cadenza.APIError{
				Message: message, StatusCode: resp.StatusCode, Body: body,
			}}
		}
		return nil, &cadenza.AuthError{APIError: cadenza.APIError{
			Message: message, StatusCode: resp.StatusCode, Body: body,
		}}
	}

	accessToken, _ := data["access_token"].(string)
	expiresIn, hasExpiry := data["expires_in"].(float64)
	if accessToken == "" || !hasExpiry {
		return nil, &cadenza.AuthError{APIError: cadenza.APIError{
			Message: "token response missing access_token or expires_in", StatusCode: resp.StatusCode, Body: body,
		}}
	}

	refreshToken := fallbackRefreshToken
	if fromServer, ok := data["refresh_token"].(string); ok && fromServer != "" {
		refreshToken = fromServer
	}
	if requireRefreshToken && refreshToken == "" {
		return nil, &cadenza.AuthError{APIError: cadenza.APIError{
			Message: "token response missing refresh_token", StatusCode: resp.StatusCode, Body: body,
		}}
	}

	scope := fallbackScope
	if fromServer, ok := data["scope"].(string); ok && fromServer != "" {
		scope = fromServer
	}

	return &TokenInfo{
		AccessToken:  accessToken,
		ExpiresAt:    timeNow().Add(time.Duration(expiresIn * float64(time.Second))),
		RefreshToken: refreshToken,
		Scope:        scope,
	}, nil
}

// transportError tags connect/timeout failures so the retry loop can
// distinguish them from mapped API errors.
type transportError struct{ err error }

func (e transportError) Error() string { return e.err.Error() }
func (e transportError) Unwrap() error { return e.err }

func isTransportError(err error) bool {
	var te transportError
	return errors.As(err, &te)
}

func extractErrorMessage(data map[string]any) string {
	if raw, ok := data["error"]; ok {
		switch v := raw.(type) {
		case map[string]any:
			if msg, ok := v["message"].(string); ok {
				return msg
			}
			return "Unknown error"
		case string:
			return v
		default:
			return fmt.Sprint(v)
		}
	}
	return "Unknown error"
}
