package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/internal/server"
	"github.com/desertthunder/cadenza/internal/shared"
)

// DefaultAuthorizeTimeout bounds the wait for the browser callback.
const DefaultAuthorizeTimeout = 5 * time.Minute

// openBrowser is a test seam.
var openBrowser = shared.OpenBrowser

// AuthorizeOptions configure one run of the loopback flow.
type AuthorizeOptions struct {
	// State defaults to a random token.
	State string

	// ShowDialog forces the consent screen.
	ShowDialog bool

	// Timeout bounds the wait for the callback. Defaults to 5 minutes.
	Timeout time.Duration

	// SkipBrowser suppresses opening the system browser; URLHandler must
	// then be set.
	SkipBrowser bool

	// URLHandler receives the authorization URL, e.g. to print it.
	URLHandler func(url string)
}

// Authorize runs the interactive loopback authorization-code flow.
//
// It stands up a one-shot HTTP listener on the redirect URI's host and
// port, sends the user's browser to the consent page, captures the single
// callback on the redirect path, tears the listener down, and exchanges the
// code for tokens. The redirect URI must be plain HTTP on a loopback host
// with an explicit port.
//
// The call blocks until the user completes the consent redirect or the
// timeout elapses; run it on its own goroutine if the caller must not
// block. The listener never outlives the call.
func Authorize(ctx context.Context, provider *AuthorizationCode, opts AuthorizeOptions) (*TokenInfo, error) {
	redirect, err := url.Parse(provider.RedirectURI())
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redirect URI: %v", shared.ErrInvalidArgument, err)
	}
	if redirect.Scheme != "http" {
		return nil, fmt.Errorf("%w: loopback authorization requires an http redirect URI", shared.ErrInvalidArgument)
	}
	if !isLoopbackHost(redirect.Hostname()) {
		return nil, fmt.Errorf("%w: loopback authorization requires a redirect host of 127.0.0.1 or localhost", shared.ErrInvalidArgument)
	}
	if redirect.Port() == "" {
		return nil, fmt.Errorf("%w: loopback authorization requires the redirect URI to include a port", shared.ErrInvalidArgument)
	}
	if opts.SkipBrowser && opts.URLHandler == nil {
		return nil, fmt.Errorf("%w: provide a URL handler or allow opening the browser", shared.ErrInvalidArgument)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultAuthorizeTimeout
	}

	state := opts.State
	if state == "" {
		state, err = shared.GenerateState()
		if err != nil {
			return nil, fmt.Errorf("failed to generate state token: %w", err)
		}
	}

	authURL := provider.AuthorizationURL(AuthURLOptions{
		State:      state,
		ShowDialog: opts.ShowDialog,
	})

	rawQuery, err := waitForCallback(ctx, redirect, authURL, timeout, opts)
	if err != nil {
		return nil, err
	}

	code, err := ParseResponseURL(rawQuery, state)
	if err != nil {
		return nil, err
	}
	return provider.ExchangeCode(ctx, code)
}

// waitForCallback runs the one-shot listener and returns the captured
// callback query. The listener is shut down on every exit path.
func waitForCallback(
	ctx context.Context,
	redirect *url.URL,
	authURL string,
	timeout time.Duration,
	opts AuthorizeOptions,
) (string, error) {
	handler := server.NewCallbackHandler(redirect.Path)
	router := server.NewBasicRouter()
	router.Handler(handler)

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return "", fmt.Errorf("failed to bind callback listener on %s: %w", redirect.Host, err)
	}

	httpServer := &http.Server{Handler: router}
	serverErrors := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			serverErrors <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			httpServer.Close()
		}
	}()

	if opts.URLHandler != nil {
		opts.URLHandler(authURL)
	}
	if !opts.SkipBrowser {
		if err := openBrowser(authURL); err != nil && opts.URLHandler == nil {
			return "", &cadenza.AuthError{APIError: cadenza.APIError{
				Message: fmt.Sprintf("could not open browser automatically: %v", err),
			}}
		}
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case result := <-handler.Result():
		return result.RawQuery, nil
	case err := <-serverErrors:
		return "", fmt.Errorf("callback listener error: %w", err)
	case <-ctx.Done():
		return "", ctx.Err()
	case <-timer.C:
		return "", &cadenza.AuthError{APIError: cadenza.APIError{
			Message: fmt.Sprintf("timed out waiting for authorization callback after %s", timeout),
		}}
	}
}
