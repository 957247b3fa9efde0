// package testing contains shared testing utilities
package testing

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sync/atomic"
	"testing"
)

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// SequenceRoundTripper replays a fixed sequence of responses and errors,
// then repeats the last entry. It counts the requests it serves.
type SequenceRoundTripper struct {
	Responses []*http.Response
	Errors    []error
	calls     atomic.Int64
}

func (s *SequenceRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	i := int(s.calls.Add(1)) - 1
	if i >= len(s.Responses) {
		i = len(s.Responses) - 1
	}
	var err error
	if i < len(s.Errors) {
		err = s.Errors[i]
	}
	return s.Responses[i], err
}

func (s *SequenceRoundTripper) Calls() int { return int(s.calls.Load()) }

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

// TokenEndpoint is a fake OAuth token endpoint that records the form values
// of every exchange request it serves.
type TokenEndpoint struct {
	Server *httptest.Server

	// Response fields returned on success.
	AccessToken  string
	ExpiresIn    int
	RefreshToken string
	Scope        string

	// Status, when non-zero and not 200, is returned with an error body.
	Status int

	requests atomic.Int64
	lastForm atomic.Value
}

// NewTokenEndpoint starts the fake endpoint; callers own Close.
func NewTokenEndpoint(t *testing.T) *TokenEndpoint {
	t.Helper()
	e := &TokenEndpoint{AccessToken: "test-token", ExpiresIn: 3600}
	e.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.requests.Add(1)
		if err := r.ParseForm(); err == nil {
			e.lastForm.Store(r.PostForm)
		}
		if e.Status != 0 && e.Status != http.StatusOK {
			w.WriteHeader(e.Status)
			json.NewEncoder(w).Encode(map[string]string{"error": "server_error"})
			return
		}
		payload := map[string]any{
			"access_token": e.AccessToken,
			"token_type":   "Bearer",
			"expires_in":   e.ExpiresIn,
		}
		if e.RefreshToken != "" {
			payload["refresh_token"] = e.RefreshToken
		}
		if e.Scope != "" {
			payload["scope"] = e.Scope
		}
		json.NewEncoder(w).Encode(payload)
	}))
	t.Cleanup(e.Server.Close)
	return e
}

// URL returns the endpoint address for provider overrides.
func (e *TokenEndpoint) URL() string { return e.Server.URL }

// Requests reports how many exchanges the endpoint served.
func (e *TokenEndpoint) Requests() int { return int(e.requests.Load()) }

// LastForm returns the form values of the most recent exchange, or nil.
func (e *TokenEndpoint) LastForm() url.Values {
	if v := e.lastForm.Load(); v != nil {
		return v.(url.Values)
	}
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
