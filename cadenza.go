// Package cadenza is a client library for the Spotify Web API.
//
// The [Client] owns a low-level request primitive with bearer-token
// injection, retry with jittered exponential backoff, and structured error
// mapping; per-resource services (albums, tracks, playlists, search, ...)
// are thin wrappers over it. Token acquisition and refresh live in the
// auth subpackage.
//
//	provider, _ := auth.NewClientCredentials(auth.Options{})
//	client, _ := cadenza.NewClient(cadenza.Options{Provider: provider})
//	defer client.Close()
//	album, err := client.Albums.Get(ctx, "4aawyAB9vmqN3uQ7FjRGTy", "")
package cadenza

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadenza/internal/shared"
	"golang.org/x/time/rate"
)

// BaseURL is the Spotify Web API root.
const BaseURL = "https://api.spotify.com/v1"

const (
	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
	initialBackoff    = 500 * time.Millisecond
	maxBackoff        = 8 * time.Second
	backoffMultiplier = 2
)

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

// TokenProvider yields bearer tokens for API requests. auth.Provider
// satisfies this interface.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	Close() error
}

// Options configures a [Client]. Exactly one of AccessToken or Provider
// must be set.
type Options struct {
	// AccessToken is a static bearer token.
	AccessToken string

	// Provider supplies tokens dynamically and is closed with the client.
	Provider TokenProvider

	// BaseURL overrides the API root. Intended for tests and proxies.
	BaseURL string

	// Timeout bounds each individual HTTP attempt. Defaults to 30s.
	Timeout time.Duration

	// MaxRetries is the number of additional attempts after the first.
	// Zero means the default of 3.
	MaxRetries int

	// RateLimit caps outgoing requests per second; zero means no client-side
	// pacing.
	RateLimit float64

	// HTTPClient, when set, is owned by the caller and never closed here.
	HTTPClient *http.Client

	Logger *log.Logger
}

// Client is the low-level Spotify API client. All resource services share
// its request primitive, connection, and retry policy.
type Client struct {
	baseURL     string
	accessToken string
	provider    TokenProvider
	timeout     time.Duration
	maxRetries  int
	limiter     *rate.Limiter
	logger      *log.Logger

	mu         sync.Mutex
	httpClient *http.Client
	ownsClient bool
	closed     bool

	Albums     *AlbumService
	Artists    *ArtistService
	Tracks     *TrackService
	Playlists  *PlaylistService
	Search     *SearchService
	Users      *UserService
	Library    *LibraryService
	Shows      *ShowService
	Episodes   *EpisodeService
	Audiobooks *AudiobookService
	Chapters   *ChapterService
}

// NewClient creates a client with exactly one bearer source.
func NewClient(opts Options) (*Client, error) {
	if opts.AccessToken != "" && opts.Provider != nil {
		return nil, fmt.Errorf("%w: provide only one of access token or provider", shared.ErrInvalidArgument)
	}
	if opts.AccessToken == "" && opts.Provider == nil {
		return nil, fmt.Errorf("%w: either an access token or a provider is required", shared.ErrInvalidArgument)
	}

	c := &Client{
		baseURL:     opts.BaseURL,
		accessToken: opts.AccessToken,
		provider:    opts.Provider,
		timeout:     opts.Timeout,
		maxRetries:  opts.MaxRetries,
		logger:      opts.Logger,
		httpClient:  opts.HTTPClient,
		ownsClient:  opts.HTTPClient == nil,
	}
	if c.baseURL == "" {
		c.baseURL = BaseURL
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if opts.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	if c.logger == nil {
		c.logger = shared.NopLogger()
	}

	c.Albums = &AlbumService{client: c}
	c.Artists = &ArtistService{client: c}
	c.Tracks = &TrackService{client: c}
	c.Playlists = &PlaylistService{client: c}
	c.Search = &SearchService{client: c}
	c.Users = &UserService{client: c}
	c.Library = &LibraryService{client: c}
	c.Shows = &ShowService{client: c}
	c.Episodes = &EpisodeService{client: c}
	c.Audiobooks = &AudiobookService{client: c}
	c.Chapters = &ChapterService{client: c}
	return c, nil
}

// Request performs an API request with bearer injection, retry, and error
// mapping, returning the raw JSON body.
//
// A 204 response yields an empty JSON object, as does a 2xx body that is
// not valid JSON. Rate-limit and server errors are retried with jittered
// exponential backoff (a 429 sleeps for the server's Retry-After instead);
// connect and timeout failures retry the same way and are wrapped into a
// generic [APIError] only once retries are exhausted. All other errors
// surface immediately.
func (c *Client) Request(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}
	return c.do(ctx, method, path, params, "application/json", payload)
}

// do runs the retry loop for an already-encoded payload.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, contentType string, payload []byte) (json.RawMessage, error) {
	requestURL := c.baseURL + path
	if encoded := cleanParams(params).Encode(); encoded != "" {
		requestURL += "?" + encoded
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		data, err := c.attempt(ctx, method, requestURL, contentType, payload)
		if err == nil {
			return data, nil
		}

		lastErr = err
		if ctx.Err() != nil {
			return nil, err
		}
		if attempt >= c.maxRetries {
			break
		}

		var backoff time.Duration
		var rateLimit *RateLimitError
		switch {
		case errors.As(err, &rateLimit):
			backoff = rateLimit.RetryAfter
			if backoff <= 0 {
				backoff = calculateBackoff(attempt)
			}
		case IsRetryable(err) || isConnectionError(err):
			backoff = calculateBackoff(attempt)
		default:
			return nil, err
		}

		c.logger.Debug("request failed, retrying", "method", method, "path", path, "attempt", attempt+1, "backoff", backoff, "error", err)
		if sleepErr := sleep(ctx, backoff); sleepErr != nil {
			return nil, lastErr
		}
	}

	if isConnectionError(lastErr) {
		return nil, &APIError{Message: fmt.Sprintf("connection error: %v", lastErr)}
	}
	return nil, lastErr
}

// attempt performs a single HTTP round trip.
func (c *Client) attempt(ctx context.Context, method, requestURL, contentType string, payload []byte) (json.RawMessage, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, requestURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http().Do(req)
	if err != nil {
		return nil, connectionError{err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, connectionError{err}
	}

	return handleResponse(resp, body)
}

// bearerToken resolves the static token or asks the provider; the provider
// may perform its own network exchange with its own retry policy.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	if c.accessToken != "" {
		return c.accessToken, nil
	}
	return c.provider.AccessToken(ctx)
}

// http lazily builds the underlying connection object, created once and
// reused for every request.
func (c *Client) http() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}
	return c.httpClient
}

// Close releases the client's own HTTP connection and closes an owned
// provider. Safe to call multiple times.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	if c.httpClient != nil && c.ownsClient {
		c.httpClient.CloseIdleConnections()
		c.httpClient = nil
	}
	provider := c.provider
	c.mu.Unlock()

	if provider != nil {
		return provider.Close()
	}
	return nil
}

// handleResponse maps an HTTP response to a raw JSON value or a typed error.
func handleResponse(resp *http.Response, body []byte) (json.RawMessage, error) {
	if resp.StatusCode == http.StatusNoContent {
		return json.RawMessage("{}"), nil
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if len(body) == 0 || !json.Valid(body) {
			return json.RawMessage("{}"), nil
		}
		return json.RawMessage(body), nil
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		data = map[string]any{}
	}

	base := APIError{
		Message:    extractErrorMessage(data),
		StatusCode: resp.StatusCode,
		Body:       body,
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &BadRequestError{base}
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, &AuthError{base}
	case resp.StatusCode == http.StatusForbidden:
		return nil, &ForbiddenError{base}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &NotFoundError{base}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{APIError: base, RetryAfter: retryAfter(resp)}
	case resp.StatusCode >= 500:
		return nil, &ServerError{base}
	default:
		return nil, &base
	}
}

// retryAfter parses the Retry-After header, defaulting to one second.
func retryAfter(resp *http.Response) time.Duration {
	if raw := resp.Header.Get("Retry-After"); raw != "" {
		if seconds, err := strconv.Atoi(raw); err == nil && seconds >= 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return time.Second
}

// cleanParams strips empty values from query parameters before encoding.
func cleanParams(params url.Values) url.Values {
	cleaned := url.Values{}
	for key, values := range params {
		for _, value := range values {
			if value != "" {
				cleaned.Add(key, value)
			}
		}
	}
	return cleaned
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

func calculateBackoff(attempt int) time.Duration {
	backoff := float64(initialBackoff) * math.Pow(backoffMultiplier, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}
	return time.Duration(backoff * jitter())
}

// connectionError tags transport-level failures (no HTTP status) so the
// retry loop can distinguish them from mapped API errors.
type connectionError struct{ err error }

func (e connectionError) Error() string { return e.err.Error() }
func (e connectionError) Unwrap() error { return e.err }

func isConnectionError(err error) bool {
	var ce connectionError
	return errors.As(err, &ce)
}
