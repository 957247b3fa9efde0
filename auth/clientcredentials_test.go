package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/desertthunder/cadenza"
	th "github.com/desertthunder/cadenza/internal/testing"
)

// noSleep swaps the backoff sleep for a recorder so retry tests run
// instantly. Returns the recorded durations.
func noSleep(t *testing.T) *[]time.Duration {
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

func newClientCredentials(t *testing.T, endpoint *th.TokenEndpoint, opts Options) *ClientCredentials {
	t.Helper()
	if opts.ClientID == "" {
		opts.ClientID = "test-client"
	}
	if opts.ClientSecret == "" {
		opts.ClientSecret = "test-secret"
	}
	opts.TokenURL = endpoint.URL()

	provider, err := NewClientCredentials(opts)
	if err != nil {
		t.Fatalf("NewClientCredentials failed: %v", err)
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func TestClientCredentials(t *testing.T) {
	ctx := context.Background()

	t.Run("MissingCredentials", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "")
		if _, err := NewClientCredentials(Options{}); err == nil {
			t.Error("expected an error without credentials")
		}
	})

	t.Run("EnvironmentFallback", func(t *testing.T) {
		t.Setenv("SPOTIFY_CLIENT_ID", "env-client")
		t.Setenv("SPOTIFY_CLIENT_SECRET", "env-secret")
		provider, err := NewClientCredentials(Options{})
		if err != nil {
			t.Fatalf("NewClientCredentials failed: %v", err)
		}
		defer provider.Close()
		if provider.clientID != "env-client" || provider.clientSecret != "env-secret" {
			t.Error("credentials should fall back to the environment")
		}
	})

	t.Run("FetchesAndCaches", func(t *testing.T) {
		endpoint := th.NewTokenEndpoint(t)
		endpoint.AccessToken = "fresh-token"
		provider := newClientCredentials(t, endpoint, Options{})

		token, err := provider.AccessToken(ctx)
		if err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}
		if token != "fresh-token" {
			t.Errorf("token = %q, want %q", token, "fresh-token")
		}
		if form := endpoint.LastForm(); form.Get("grant_type") != "client_credentials" {
			t.Errorf("grant_type = %q, want client_credentials", form.Get("grant_type"))
		}
	})

	t.Run("CachedFastPathIsIdempotent", func(t *testing.T) {
		endpoint := th.NewTokenEndpoint(t)
		provider := newClientCredentials(t, endpoint, Options{})

		first, err := provider.AccessToken(ctx)
		if err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}
		for i := 0; i < 5; i++ {
			token, err := provider.AccessToken(ctx)
			if err != nil {
				t.Fatalf("AccessToken failed on call %d: %v", i+2, err)
			}
			if token != first {
				t.Errorf("call %d returned %q, want %q", i+2, token, first)
			}
		}
		if endpoint.Requests() != 1 {
			t.Errorf("endpoint served %d requests, want 1", endpoint.Requests())
		}
	})

	t.Run("RefetchesBlankCachedToken", func(t *testing.T) {
		endpoint := th.NewTokenEndpoint(t)
		endpoint.AccessToken = "replacement"

		cache := NewMemoryTokenCache()
		cache.Set(&TokenInfo{AccessToken: "", ExpiresAt: time.Now().Add(time.Hour)})
		provider := newClientCredentials(t, endpoint, Options{TokenCache: cache})

		token, err := provider.AccessToken(ctx)
		if err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}
		if token != "replacement" {
			t.Errorf("token = %q, want a fresh exchange for a blank cached token", token)
		}
		if endpoint.Requests() != 1 {
			t.Errorf("endpoint served %d requests, want 1", endpoint.Requests())
		}
	})

	t.Run("ConcurrentCallersShareOneExchange", func(t *testing.T) {
		endpoint := th.NewTokenEndpoint(t)
		provider := newClientCredentials(t, endpoint, Options{})

		const callers = 20
		var wg sync.WaitGroup
		start := make(chan struct{})
		tokens := make([]string, callers)
		errs := make([]error, callers)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				<-start
				tokens[i], errs[i] = provider.AccessToken(ctx)
			}(i)
		}
		close(start)
		wg.Wait()

		for i := 0; i < callers; i++ {
			if errs[i] != nil {
				t.Fatalf("caller %d failed: %v", i, errs[i])
			}
			if tokens[i] != tokens[0] {
				t.Errorf("caller %d got %q, want %q", i, tokens[i], tokens[0])
			}
		}
		if endpoint.Requests() != 1 {
			t.Errorf("endpoint served %d requests, want exactly 1", endpoint.Requests())
		}
	})

	t.Run("RefetchesExpiredToken", func(t *testing.T) {
		base := time.Now()
		restore := timeNow
		timeNow = func() time.Time { return base }
		defer func() { timeNow = restore }()

		endpoint := th.NewTokenEndpoint(t)
		endpoint.ExpiresIn = 3600
		provider := newClientCredentials(t, endpoint, Options{})

		if _, err := provider.AccessToken(ctx); err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}

		timeNow = func() time.Time { return base.Add(2 * time.Hour) }
		endpoint.AccessToken = "second-token"

		token, err := provider.AccessToken(ctx)
		if err != nil {
			t.Fatalf("AccessToken failed after expiry: %v", err)
		}
		if token != "second-token" {
			t.Errorf("token = %q, want second-token", token)
		}
		if endpoint.Requests() != 2 {
			t.Errorf("endpoint served %d requests, want 2", endpoint.Requests())
		}
	})

	t.Run("RetriesServerErrors", func(t *testing.T) {
		slept := noSleep(t)
		endpoint := th.NewTokenEndpoint(t)
		endpoint.Status = http.StatusInternalServerError
		provider := newClientCredentials(t, endpoint, Options{MaxRetries: 1})

		_, err := provider.AccessToken(ctx)
		if err == nil {
			t.Fatal("expected an error from a failing endpoint")
		}
		var serverErr *cadenza.ServerError
		if !errors.As(err, &serverErr) {
			t.Errorf("error should be a ServerError, got %T: %v", err, err)
		}
		if endpoint.Requests() != 2 {
			t.Errorf("endpoint served %d requests, want 2 (initial + 1 retry)", endpoint.Requests())
		}
		if len(*slept) != 1 {
			t.Errorf("slept %d times, want 1", len(*slept))
		}
	})

	t.Run("DoesNotRetryAuthErrors", func(t *testing.T) {
		noSleep(t)
		endpoint := th.NewTokenEndpoint(t)
		endpoint.Status = http.StatusBadRequest
		provider := newClientCredentials(t, endpoint, Options{MaxRetries: 3})

		_, err := provider.AccessToken(ctx)
		var authErr *cadenza.AuthError
		if !errors.As(err, &authErr) {
			t.Fatalf("error should be an AuthError, got %T: %v", err, err)
		}
		if endpoint.Requests() != 1 {
			t.Errorf("endpoint served %d requests, want 1 (no retries)", endpoint.Requests())
		}
	})

	t.Run("SharedCacheAcrossProviders", func(t *testing.T) {
		endpoint := th.NewTokenEndpoint(t)
		cache := NewMemoryTokenCache()

		first := newClientCredentials(t, endpoint, Options{TokenCache: cache})
		if _, err := first.AccessToken(ctx); err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}

		second := newClientCredentials(t, endpoint, Options{TokenCache: cache})
		if _, err := second.AccessToken(ctx); err != nil {
			t.Fatalf("AccessToken failed: %v", err)
		}
		if endpoint.Requests() != 1 {
			t.Errorf("endpoint served %d requests, want 1 (cache shared)", endpoint.Requests())
		}
	})

	t.Run("CloseIsIdempotent", func(t *testing.T) {
		endpoint := th.NewTokenEndpoint(t)
		provider := newClientCredentials(t, endpoint, Options{})
		if err := provider.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
		if err := provider.Close(); err != nil {
			t.Fatalf("second Close failed: %v", err)
		}
	})
}
