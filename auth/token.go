// Package auth implements the OAuth2 token lifecycle for the Spotify
// accounts service: acquiring, caching, refreshing, and sharing access
// tokens across concurrent callers, plus the interactive loopback
// authorization-code flow.
package auth

import (
	"time"
)

// Spotify accounts service endpoints.
const (
	TokenURL     = "https://accounts.spotify.com/api/token"
	AuthorizeURL = "https://accounts.spotify.com/authorize"
)

// Defaults applied by the credential providers.
const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
	DefaultSkew       = 30 * time.Second

	initialBackoff    = 500 * time.Millisecond
	maxBackoff        = 8 * time.Second
	backoffMultiplier = 2
)

// timeNow is a test seam for clock-dependent expiry checks.
var timeNow = time.Now

// TokenInfo is an immutable snapshot of an issued access token.
//
// A TokenInfo is created by a successful token exchange and superseded,
// never mutated, by the next one.
type TokenInfo struct {
	AccessToken  string
	ExpiresAt    time.Time
	RefreshToken string
	Scope        string
}

// Expired reports whether the token is expired or inside the skew window.
func (t *TokenInfo) Expired(skew time.Duration) bool {
	return !timeNow().Before(t.ExpiresAt.Add(-skew))
}
