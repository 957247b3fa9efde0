package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/internal/shared"
)

// ClientCredentials implements the OAuth2 client-credentials grant for
// machine-to-machine access. There is no refresh token; an expired token is
// simply re-fetched.
type ClientCredentials struct {
	clientID     string
	clientSecret string
	timeout      time.Duration
	maxRetries   int
	skew         time.Duration
	cache        TokenCache
	tokenURL     string
	logger       *log.Logger

	mu         sync.Mutex
	client     *http.Client
	ownsClient bool
}

// NewClientCredentials creates a machine-identity provider.
//
// Credentials are resolved from opts or the environment; both id and secret
// are required.
func NewClientCredentials(opts Options) (*ClientCredentials, error) {
	clientID := opts.ClientID
	if clientID == "" {
		clientID = os.Getenv(shared.EnvClientID)
	}
	clientSecret := opts.ClientSecret
	if clientSecret == "" {
		clientSecret = os.Getenv(shared.EnvClientSecret)
	}
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret are required for client credentials auth", shared.ErrMissingCredentials)
	}

	p := &ClientCredentials{
		clientID:     clientID,
		clientSecret: clientSecret,
		timeout:      opts.Timeout,
		maxRetries:   opts.MaxRetries,
		skew:         opts.Skew,
		cache:        opts.TokenCache,
		tokenURL:     opts.TokenURL,
		logger:       opts.Logger,
		client:       opts.HTTPClient,
		ownsClient:   opts.HTTPClient == nil,
	}
	if p.timeout <= 0 {
		p.timeout = DefaultTimeout
	}
	if p.maxRetries <= 0 {
		p.maxRetries = DefaultMaxRetries
	}
	if p.skew <= 0 {
		p.skew = DefaultSkew
	}
	if p.cache == nil {
		p.cache = NewMemoryTokenCache()
	}
	if p.tokenURL == "" {
		p.tokenURL = TokenURL
	}
	if p.logger == nil {
		p.logger = shared.NopLogger()
	}
	return p, nil
}

// AccessToken returns a valid access token, fetching a new one when the
// cached token is absent or inside the skew window.
//
// The fast path (cached, unexpired token) takes no lock and performs no
// I/O. The fetch path holds the provider mutex and re-checks the cache so
// concurrent callers collapse into a single token exchange.
func (p *ClientCredentials) AccessToken(ctx context.Context) (string, error) {
	if cached := p.cache.Get(); cached != nil && cached.AccessToken != "" && !cached.Expired(p.skew) {
		return cached.AccessToken, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if cached := p.cache.Get(); cached != nil && cached.AccessToken != "" && !cached.Expired(p.skew) {
		return cached.AccessToken, nil
	}

	p.logger.Debug("fetching client credentials token")

	form := url.Values{"grant_type": {"client_credentials"}}
	token, err := p.exchanger().fetch(ctx, form, false, "", "")
	if err != nil {
		return "", err
	}
	if err := p.cache.Set(token); err != nil {
		return "", fmt.Errorf("failed to cache token: %w", err)
	}
	return token.AccessToken, nil
}

// exchanger lazily builds the HTTP client; callers hold p.mu.
func (p *ClientCredentials) exchanger() *tokenExchanger {
	if p.client == nil {
		p.client = &http.Client{Timeout: p.timeout}
	}
	return &tokenExchanger{
		tokenURL:     p.tokenURL,
		clientID:     p.clientID,
		clientSecret: p.clientSecret,
		maxRetries:   p.maxRetries,
		client:       p.client,
		logger:       p.logger,
	}
}

// Close releases the provider's own HTTP client. Safe to call repeatedly;
// a caller-supplied client is left alone.
func (p *ClientCredentials) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil && p.ownsClient {
		p.client.CloseIdleConnections()
		p.client = nil
	}
	return nil
}

var _ Provider = (*ClientCredentials)(nil)
var _ cadenza.TokenProvider = (*ClientCredentials)(nil)
