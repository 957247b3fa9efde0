package auth

import (
	"context"

	"golang.org/x/oauth2"
)

// tokenSource adapts a [Provider] to [oauth2.TokenSource] so existing
// oauth2-based HTTP plumbing (oauth2.NewClient, oauth2.Transport) can draw
// tokens from cadenza's lifecycle management.
type tokenSource struct {
	ctx      context.Context
	provider Provider
}

// TokenSource wraps a Provider as an [oauth2.TokenSource].
//
// The returned source does no caching of its own; the provider already
// caches and single-flights refreshes.
func TokenSource(ctx context.Context, provider Provider) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, provider: provider}
}

// Token implements [oauth2.TokenSource].
func (s *tokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := s.provider.AccessToken(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}, nil
}
