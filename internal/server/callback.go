package server

import (
	"fmt"
	"net/http"
	"sync"
)

const successPage = `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Complete</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Complete</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`

// CallbackResult carries the raw query string of a captured OAuth callback.
type CallbackResult struct {
	RawQuery string
}

// CallbackHandler captures a single OAuth redirect on a fixed path.
//
// The handler records the callback's raw query and acknowledges the browser
// with a static HTML page. It performs no validation and no token exchange;
// the auth package parses the query and exchanges the code after the
// listener is torn down. Requests for any other path get a 404 and the
// handler keeps waiting.
type CallbackHandler struct {
	path        string
	resultChan  chan CallbackResult
	once        sync.Once
	mu          sync.Mutex
	callbackHit bool
}

// NewCallbackHandler creates a handler scoped to the given redirect path.
func NewCallbackHandler(path string) *CallbackHandler {
	if path == "" {
		path = "/"
	}
	return &CallbackHandler{
		path:       path,
		resultChan: make(chan CallbackResult, 1),
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the OAuth callback request.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != h.path {
		http.NotFound(w, r)
		return
	}

	// Only handle the callback once
	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	h.send(CallbackResult{RawQuery: r.URL.RawQuery})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// send delivers the result through the channel (only once).
func (h *CallbackHandler) send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel that receives the captured callback.
//
// The channel receives exactly one result and is then closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}
