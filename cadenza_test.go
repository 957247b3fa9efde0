package cadenza

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	th "github.com/desertthunder/cadenza/internal/testing"
)

// recordSleeps swaps the backoff sleep for a recorder so retry tests run
// instantly. Returns the recorded durations.
func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var mu sync.Mutex
	recorded := &[]time.Duration{}
	restore := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		mu.Lock()
		*recorded = append(*recorded, d)
		mu.Unlock()
		return nil
	}
	t.Cleanup(func() { sleep = restore })
	return recorded
}

// staticProvider is a bearer source with a closable state, standing in for
// the auth providers without importing them.
type staticProvider struct {
	token  string
	closed atomic.Bool
}

func (p *staticProvider) AccessToken(ctx context.Context) (string, error) {
	if p.token == "" {
		return "", errors.New("no token configured")
	}
	return p.token, nil
}

func (p *staticProvider) Close() error {
	p.closed.Store(true)
	return nil
}

// newTestClient points a token-backed client at the given handler.
func newTestClient(t *testing.T, opts Options, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	if opts.AccessToken == "" && opts.Provider == nil {
		opts.AccessToken = "test-token"
	}
	opts.BaseURL = server.URL

	client, err := NewClient(opts)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNewClient(t *testing.T) {
	t.Run("RequiresOneBearerSource", func(t *testing.T) {
		if _, err := NewClient(Options{}); err == nil {
			t.Error("a client without any bearer source should be rejected")
		}
		_, err := NewClient(Options{AccessToken: "x", Provider: &staticProvider{token: "y"}})
		if err == nil {
			t.Error("a client with both bearer sources should be rejected")
		}
	})

	t.Run("AcceptsToken", func(t *testing.T) {
		client, err := NewClient(Options{AccessToken: "x"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		defer client.Close()
		if client.Albums == nil || client.Search == nil || client.Chapters == nil {
			t.Error("resource services should be wired on construction")
		}
	})
}

func TestRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("SendsBearerToken", func(t *testing.T) {
		var authHeader string
		client := newTestClient(t, Options{AccessToken: "secret-token"}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader = r.Header.Get("Authorization")
			fmt.Fprint(w, `{"ok":true}`)
		}))

		if _, err := client.Request(ctx, http.MethodGet, "/me", nil, nil); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if authHeader != "Bearer secret-token" {
			t.Errorf("Authorization = %q, want Bearer secret-token", authHeader)
		}
	})

	t.Run("StripsEmptyParams", func(t *testing.T) {
		var query url.Values
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			fmt.Fprint(w, `{}`)
		}))

		params := url.Values{}
		params.Set("market", "US")
		params.Set("limit", "")
		if _, err := client.Request(ctx, http.MethodGet, "/search", params, nil); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if query.Get("market") != "US" {
			t.Errorf("market = %q, want US", query.Get("market"))
		}
		if query.Has("limit") {
			t.Error("empty parameters should not be sent")
		}
	})

	t.Run("NoContentYieldsEmptyObject", func(t *testing.T) {
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))

		data, err := client.Request(ctx, http.MethodPut, "/me/tracks", nil, nil)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if string(data) != "{}" {
			t.Errorf("data = %s, want {}", data)
		}
	})

	t.Run("InvalidSuccessBodyYieldsEmptyObject", func(t *testing.T) {
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "not json at all")
		}))

		data, err := client.Request(ctx, http.MethodGet, "/me", nil, nil)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if string(data) != "{}" {
			t.Errorf("data = %s, want {}", data)
		}
	})

	t.Run("RateLimitSleepsForRetryAfter", func(t *testing.T) {
		slept := recordSleeps(t)
		var requests atomic.Int64
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) == 1 {
				w.Header().Set("Retry-After", "2")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprint(w, `{"error":{"message":"rate limited","status":429}}`)
				return
			}
			fmt.Fprint(w, `{"ok":true}`)
		}))

		if _, err := client.Request(ctx, http.MethodGet, "/me", nil, nil); err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if requests.Load() != 2 {
			t.Errorf("server saw %d requests, want 2", requests.Load())
		}
		if len(*slept) != 1 || (*slept)[0] != 2*time.Second {
			t.Errorf("slept %v, want exactly [2s]", *slept)
		}
	})

	t.Run("ServerErrorsRetryUntilExhausted", func(t *testing.T) {
		recordSleeps(t)
		var requests atomic.Int64
		client := newTestClient(t, Options{MaxRetries: 1}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"message":"upstream down","status":500}}`)
		}))

		_, err := client.Request(ctx, http.MethodGet, "/me", nil, nil)
		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("want ServerError, got %T: %v", err, err)
		}
		if serverErr.Message != "upstream down" {
			t.Errorf("message = %q, want upstream down", serverErr.Message)
		}
		if requests.Load() != 2 {
			t.Errorf("server saw %d requests, want 2 (initial + 1 retry)", requests.Load())
		}
	})

	t.Run("ClientErrorsNeverRetry", func(t *testing.T) {
		cases := []struct {
			status  int
			matches func(error) bool
		}{
			{http.StatusBadRequest, func(err error) bool {
				var e *BadRequestError
				return errors.As(err, &e)
			}},
			{http.StatusUnauthorized, func(err error) bool {
				var e *AuthError
				return errors.As(err, &e)
			}},
			{http.StatusForbidden, func(err error) bool {
				var e *ForbiddenError
				return errors.As(err, &e)
			}},
			{http.StatusNotFound, func(err error) bool {
				var e *NotFoundError
				return errors.As(err, &e)
			}},
		}
		for _, tc := range cases {
			t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
				recordSleeps(t)
				var requests atomic.Int64
				client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					requests.Add(1)
					w.WriteHeader(tc.status)
					fmt.Fprint(w, `{"error":{"message":"nope"}}`)
				}))

				_, err := client.Request(ctx, http.MethodGet, "/me", nil, nil)
				if err == nil {
					t.Fatal("expected an error")
				}
				if !tc.matches(err) {
					t.Errorf("status %d mapped to %T", tc.status, err)
				}
				if requests.Load() != 1 {
					t.Errorf("server saw %d requests, want 1 (no retries)", requests.Load())
				}
			})
		}
	})

	t.Run("ErrorsCarryStatusAndBody", func(t *testing.T) {
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"message":"album not found","status":404}}`)
		}))

		_, err := client.Request(ctx, http.MethodGet, "/albums/nope", nil, nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("every mapped error should unwrap to *APIError, got %T", err)
		}
		if apiErr.StatusCode != http.StatusNotFound {
			t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
		}
		if apiErr.Message != "album not found" {
			t.Errorf("Message = %q", apiErr.Message)
		}
		if len(apiErr.Body) == 0 {
			t.Error("Body should carry the raw response")
		}
	})

	t.Run("ConnectionErrorsRetryThenWrap", func(t *testing.T) {
		slept := recordSleeps(t)

		// A closed server makes every attempt fail at the transport level.
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		client, err := NewClient(Options{AccessToken: "x", BaseURL: server.URL, MaxRetries: 2})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		defer client.Close()

		_, err = client.Request(ctx, http.MethodGet, "/me", nil, nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("exhausted connection errors should wrap into *APIError, got %T: %v", err, err)
		}
		if apiErr.StatusCode != 0 {
			t.Errorf("StatusCode = %d, want 0 for a transport failure", apiErr.StatusCode)
		}
		if len(*slept) != 2 {
			t.Errorf("slept %d times, want 2", len(*slept))
		}
	})

	t.Run("TransientTransportErrorRecovers", func(t *testing.T) {
		recordSleeps(t)
		transport := &th.SequenceRoundTripper{
			Responses: []*http.Response{
				nil,
				{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"ok":true}`)), Header: http.Header{}},
			},
			Errors: []error{errors.New("connection reset")},
		}
		client, err := NewClient(Options{
			AccessToken: "x",
			BaseURL:     "http://api.test",
			HTTPClient:  &http.Client{Transport: transport},
		})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		defer client.Close()

		data, err := client.Request(ctx, http.MethodGet, "/me", nil, nil)
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		if string(data) != `{"ok":true}` {
			t.Errorf("data = %s", data)
		}
		if transport.Calls() != 2 {
			t.Errorf("transport saw %d calls, want 2", transport.Calls())
		}
	})

	t.Run("BodyReadFailureRetries", func(t *testing.T) {
		recordSleeps(t)
		transport := th.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       &th.FCloser{},
			Header:     http.Header{},
		}, nil)
		client, err := NewClient(Options{
			AccessToken: "x",
			BaseURL:     "http://api.test",
			MaxRetries:  1,
			HTTPClient:  &http.Client{Transport: transport},
		})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		defer client.Close()

		_, err = client.Request(ctx, http.MethodGet, "/me", nil, nil)
		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("exhausted body failures should wrap into *APIError, got %T: %v", err, err)
		}
	})

	t.Run("ProviderErrorSurfacesImmediately", func(t *testing.T) {
		var requests atomic.Int64
		client := newTestClient(t, Options{Provider: &staticProvider{}}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
		}))

		if _, err := client.Request(ctx, http.MethodGet, "/me", nil, nil); err == nil {
			t.Fatal("a failing provider should fail the request")
		}
		if requests.Load() != 0 {
			t.Errorf("server saw %d requests, want 0", requests.Load())
		}
	})
}

func TestCalculateBackoffSchedule(t *testing.T) {
	restore := jitter
	jitter = func() float64 { return 1.0 }
	defer func() { jitter = restore }()

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 500 * time.Millisecond},
		{1, time.Second},
		{2, 2 * time.Second},
		{3, 4 * time.Second},
		{4, 8 * time.Second},
		{10, 8 * time.Second},
	}
	for _, tc := range cases {
		if got := calculateBackoff(tc.attempt); got != tc.want {
			t.Errorf("calculateBackoff(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
}

func TestClose(t *testing.T) {
	t.Run("Idempotent", func(t *testing.T) {
		client, err := NewClient(Options{AccessToken: "x"})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})

	t.Run("ClosesProvider", func(t *testing.T) {
		provider := &staticProvider{token: "x"}
		client, err := NewClient(Options{Provider: provider})
		if err != nil {
			t.Fatalf("NewClient failed: %v", err)
		}
		if err := client.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if !provider.closed.Load() {
			t.Error("Close should close an attached provider")
		}
	})
}
