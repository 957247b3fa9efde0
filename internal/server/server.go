// package server holds the HTTP plumbing for the loopback authorization
// listener: a small router with middleware support and the single-use
// callback handler the authorization flow waits on.
package server

import "net/http"

// Middleware decorates a handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an http.Handler that knows which paths it serves.
type Handler interface {
	http.Handler
	// Routes lists the path patterns to mount the handler on.
	Routes() []string
}

// Router registers handlers and middleware and serves the result.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}
