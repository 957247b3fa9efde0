package server

import "net/http"

// BasicRouter is a minimal [Router] over an [http.ServeMux]. It carries a
// middleware chain that wraps every registered handler, outermost first.
type BasicRouter struct {
	mux   *http.ServeMux
	chain []Middleware
}

// NewBasicRouter returns an empty router ready for registration.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Use appends middleware to the chain. Middleware added first runs first.
func (r *BasicRouter) Use(middleware ...Middleware) {
	r.chain = append(r.chain, middleware...)
}

// Handle mounts a handler at path, restricted to the given HTTP method.
// Requests with any other method get a 405 without reaching the handler.
func (r *BasicRouter) Handle(method, path string, handler http.Handler) {
	guarded := requireMethod(method, r.wrap(handler))
	r.mux.Handle(path, guarded)
}

// Handler mounts a [Handler] at every path it declares.
func (r *BasicRouter) Handler(handler Handler) {
	wrapped := r.wrap(handler)
	for _, path := range handler.Routes() {
		r.mux.Handle(path, wrapped)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// wrap applies the middleware chain so that chain[0] is outermost.
func (r *BasicRouter) wrap(handler http.Handler) http.Handler {
	wrapped := handler
	for i := len(r.chain) - 1; i >= 0; i-- {
		wrapped = r.chain[i](wrapped)
	}
	return wrapped
}

func requireMethod(method string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		next.ServeHTTP(w, req)
	})
}
