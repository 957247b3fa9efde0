package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/cadenza/auth"
	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/urfave/cli/v3"
)

// Login performs the OAuth2 authorization-code flow with a loopback
// listener and persists the resulting tokens in the configured cache.
func (r *Runner) Login(ctx context.Context, cmd *cli.Command) error {
	if r.config.Credentials.ClientID == "" || r.config.Credentials.ClientSecret == "" {
		return fmt.Errorf("%w: set client_id and client_secret in config.toml or the environment", shared.ErrMissingCredentials)
	}

	provider, err := r.userProvider()
	if err != nil {
		return err
	}
	defer provider.Close()

	opts := auth.AuthorizeOptions{
		ShowDialog:  cmd.Bool("show-dialog"),
		SkipBrowser: cmd.Bool("no-browser"),
		Timeout:     cmd.Duration("timeout"),
		URLHandler: func(url string) {
			r.writePlain("→ Open this URL in your browser:\n%s\n\n", url)
		},
	}
	if !opts.SkipBrowser {
		r.writePlain("→ Opening browser for Spotify authorization...\n")
	}
	r.writePlain("→ Waiting for authorization...\n")

	token, err := auth.Authorize(ctx, provider, opts)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Token cached until %s\n", token.ExpiresAt.Format(time.RFC1123))
	return nil
}

// Token prints the cached token's expiry, scope, and (optionally) value.
func (r *Runner) Token(ctx context.Context, cmd *cli.Command) error {
	cache, err := r.tokenCache()
	if err != nil {
		return fmt.Errorf("failed to open token cache: %w", err)
	}

	token := cache.Get()
	if token == nil {
		return fmt.Errorf("%w: no cached token; run login first", shared.ErrNotAuthenticated)
	}

	status := "valid"
	if token.Expired(0) {
		status = "expired"
	}

	r.writePlain("Status: %s\n", status)
	r.writePlain("Expires: %s\n", token.ExpiresAt.Format(time.RFC1123))
	if token.Scope != "" {
		r.writePlain("Scope: %s\n", token.Scope)
	}
	if token.RefreshToken != "" {
		r.writePlain("Refresh token: cached\n")
	}
	if cmd.Bool("reveal") {
		r.writePlain("Access token: %s\n", token.AccessToken)
	} else {
		r.writePlain("Access token: %s...\n", truncateToken(token.AccessToken))
	}
	return nil
}

func truncateToken(token string) string {
	if len(token) <= 8 {
		return token
	}
	return token[:8]
}
