package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/internal/shared"
)

// AuthorizationCodeOptions configures an [AuthorizationCode] provider.
type AuthorizationCodeOptions struct {
	Options

	// RedirectURI falls back to SPOTIFY_REDIRECT_URI when empty. Required.
	RedirectURI string

	// Scope fragments; normalized with [NormalizeScope].
	Scope []string

	// RefreshToken bootstraps the provider with a previously issued
	// refresh token so no interactive exchange is needed.
	RefreshToken string
}

// AuthorizationCode implements the OAuth2 authorization-code grant for
// user-delegated access, with transparent refresh.
type AuthorizationCode struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scope        string
	timeout      time.Duration
	maxRetries   int
	skew         time.Duration
	cache        TokenCache
	tokenURL     string
	logger       *log.Logger

	mu           sync.Mutex
	refreshToken string
	client       *http.Client
	ownsClient   bool
}

// NewAuthorizationCode creates a user-identity provider.
func NewAuthorizationCode(opts AuthorizationCodeOptions) (*AuthorizationCode, error) {
	clientID := opts.ClientID
	if clientID == "" {
		clientID = os.Getenv(shared.EnvClientID)
	}
	clientSecret := opts.ClientSecret
	if clientSecret == "" {
		clientSecret = os.Getenv(shared.EnvClientSecret)
	}
	redirectURI := opts.RedirectURI
	if redirectURI == "" {
		redirectURI = os.Getenv(shared.EnvRedirectURI)
	}

	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: client id and secret are required for authorization code auth", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		return nil, fmt.Errorf("%w: redirect URI is required for authorization code auth", shared.ErrMissingCredentials)
	}

	p := &AuthorizationCode{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		scope:        NormalizeScope(opts.Scope...),
		timeout:      opts.Timeout,
		maxRetries:   opts.MaxRetries,
		skew:         opts.Skew,
		cache:        opts.TokenCache,
		tokenURL:     opts.TokenURL,
		logger:       opts.Logger,
		refreshToken: opts.RefreshToken,
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

// RedirectURI returns the configured redirect URI.
func (p *AuthorizationCode) RedirectURI() string {
	return p.redirectURI
}

// AuthURLOptions customize a single authorization URL.
type AuthURLOptions struct {
	State string

	// Scope overrides the provider scope when non-nil.
	Scope []string

	// ShowDialog forces the consent screen even for approved apps.
	ShowDialog bool
}

// AuthorizationURL builds the URL the user visits to grant consent.
func (p *AuthorizationCode) AuthorizationURL(opts AuthURLOptions) string {
	scope := p.scope
	if opts.Scope != nil {
		scope = NormalizeScope(opts.Scope...)
	}

	params := url.Values{}
	params.Set("client_id", p.clientID)
	params.Set("response_type", "code")
	params.Set("redirect_uri", p.redirectURI)
	if scope != "" {
		params.Set("scope", scope)
	}
	if opts.State != "" {
		params.Set("state", opts.State)
	}
	if opts.ShowDialog {
		params.Set("show_dialog", "true")
	}
	return AuthorizeURL + "?" + params.Encode()
}

// ParseResponseURL extracts the authorization code from a callback URL or
// bare query string.
//
// An error query parameter, a state mismatch against expectedState (when
// non-empty), or a missing code all fail with an [cadenza.AuthError].
func ParseResponseURL(raw string, expectedState string) (string, error) {
	query := raw
	if parsed, err := url.Parse(raw); err == nil && parsed.RawQuery != "" {
		query = parsed.RawQuery
	}

	values, err := url.ParseQuery(query)
	if err != nil {
		return "", &cadenza.AuthError{APIError: cadenza.APIError{
			Message: fmt.Sprintf("malformed authorization response: %v", err),
		}}
	}

	if errParam := values.Get("error"); errParam != "" {
		message := "authorization failed: " + errParam
		if desc := values.Get("error_description"); desc != "" {
			message = fmt.Sprintf("%s (%s)", message, desc)
		}
		return "", &cadenza.AuthError{APIError: cadenza.APIError{Message: message}}
	}

	if expectedState != "" && values.Get("state") != expectedState {
		return "", &cadenza.AuthError{APIError: cadenza.APIError{
			Message: "state mismatch in authorization response",
		}}
	}

	code := values.Get("code")
	if code == "" {
		return "", &cadenza.AuthError{APIError: cadenza.APIError{
			Message: "authorization response missing code",
		}}
	}
	return code, nil
}

// ExchangeCode exchanges an authorization code for tokens and stores the
// result. A response without a refresh token is an authentication failure
// since the provider cannot refresh without one.
func (p *AuthorizationCode) ExchangeCode(ctx context.Context, code string) (*TokenInfo, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: code must not be empty", shared.ErrInvalidArgument)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {p.redirectURI},
	}
	token, err := p.exchanger().fetch(ctx, form, true, "", p.scope)
	if err != nil {
		return nil, err
	}
	if err := p.setToken(token); err != nil {
		return nil, err
	}
	return token, nil
}

// AccessToken returns a valid access token, refreshing when the cached one
// is absent or expired.
//
// The fast path is lock-free; the refresh path holds the provider mutex and
// re-checks the cache so concurrent callers share one refresh. Without any
// refresh token the caller must run the interactive exchange first.
func (p *AuthorizationCode) AccessToken(ctx context.Context) (string, error) {
	if cached := p.cache.Get(); cached != nil && cached.AccessToken != "" && !cached.Expired(p.skew) {
		return cached.AccessToken, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cached := p.cache.Get()
	if cached != nil && cached.AccessToken != "" && !cached.Expired(p.skew) {
		return cached.AccessToken, nil
	}

	refreshToken := p.refreshToken
	if cached != nil && cached.RefreshToken != "" {
		refreshToken = cached.RefreshToken
	}
	if refreshToken == "" {
		return "", &cadenza.AuthError{APIError: cadenza.APIError{
			Message: "no authorization token available; run the interactive exchange first",
		}}
	}

	p.logger.Debug("refreshing access token")

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}
	token, err := p.exchanger().fetch(ctx, form, false, refreshToken, p.scope)
	if err != nil {
		return "", err
	}
	if err := p.setToken(token); err != nil {
		return "", err
	}
	return token.AccessToken, nil
}

// setToken stores the token and retains its refresh token; callers hold p.mu.
func (p *AuthorizationCode) setToken(token *TokenInfo) error {
	if err := p.cache.Set(token); err != nil {
		return fmt.Errorf("failed to cache token: %w", err)
	}
	p.refreshToken = token.RefreshToken
	return nil
}

// exchanger lazily builds the HTTP client; callers hold p.mu.
func (p *AuthorizationCode) exchanger() *tokenExchanger {
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

// Close releases the provider's own HTTP client. Safe to call repeatedly.
func (p *AuthorizationCode) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil && p.ownsClient {
		p.client.CloseIdleConnections()
		p.client = nil
	}
	return nil
}

// loopbackHosts are the redirect hosts accepted by the local flow.
var loopbackHosts = map[string]bool{
	"127.0.0.1": true,
	"localhost": true,
	"::1":       true,
}

func isLoopbackHost(host string) bool {
	return loopbackHosts[strings.ToLower(host)]
}

var _ Provider = (*AuthorizationCode)(nil)
var _ cadenza.TokenProvider = (*AuthorizationCode)(nil)
