package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCallbackHandler(t *testing.T) {
	t.Run("CapturesRawQuery", func(t *testing.T) {
		handler := NewCallbackHandler("/callback")
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/callback?code=abc&state=xyz", nil)

		handler.ServeHTTP(recorder, request)

		if recorder.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", recorder.Code)
		}
		if body := recorder.Body.String(); !strings.Contains(body, "Authorization Complete") {
			t.Error("response should render the success page")
		}

		select {
		case result := <-handler.Result():
			if result.RawQuery != "code=abc&state=xyz" {
				t.Errorf("RawQuery = %q", result.RawQuery)
			}
		case <-time.After(time.Second):
			t.Fatal("no result delivered")
		}
	})

	t.Run("ClosesChannelAfterOneResult", func(t *testing.T) {
		handler := NewCallbackHandler("/callback")
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=a", nil))

		<-handler.Result()
		if _, open := <-handler.Result(); open {
			t.Error("result channel should be closed after delivering its result")
		}
	})

	t.Run("RejectsSecondCallback", func(t *testing.T) {
		handler := NewCallbackHandler("/callback")
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/callback?code=first", nil))

		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/callback?code=second", nil))

		if recorder.Code != http.StatusBadRequest {
			t.Errorf("second callback status = %d, want 400", recorder.Code)
		}
		if result := <-handler.Result(); result.RawQuery != "code=first" {
			t.Errorf("RawQuery = %q, want the first callback's query", result.RawQuery)
		}
	})

	t.Run("IgnoresOtherPaths", func(t *testing.T) {
		handler := NewCallbackHandler("/callback")
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))

		if recorder.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", recorder.Code)
		}
		select {
		case <-handler.Result():
			t.Error("a stray request must not produce a result")
		default:
		}
	})

	t.Run("DefaultsToRootPath", func(t *testing.T) {
		handler := NewCallbackHandler("")
		if routes := handler.Routes(); len(routes) != 1 || routes[0] != "/" {
			t.Errorf("routes = %v, want [/]", routes)
		}
	})
}

func TestBasicRouter(t *testing.T) {
	t.Run("RoutesToHandler", func(t *testing.T) {
		handler := NewCallbackHandler("/callback")
		router := NewBasicRouter()
		router.Handler(handler)

		server := httptest.NewServer(router)
		defer server.Close()

		resp, err := http.Get(server.URL + "/callback?code=abc")
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			t.Errorf("status = %d, want 200", resp.StatusCode)
		}
		if result := <-handler.Result(); result.RawQuery != "code=abc" {
			t.Errorf("RawQuery = %q", result.RawQuery)
		}
	})

	t.Run("MethodFiltering", func(t *testing.T) {
		router := NewBasicRouter()
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/ping", nil))
		if recorder.Code != http.StatusMethodNotAllowed {
			t.Errorf("status = %d, want 405", recorder.Code)
		}
	})

	t.Run("MiddlewareOrder", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("outer"), mark("inner"))
		router.Handle(http.MethodGet, "/ping", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ping", nil))
		want := []string{"outer", "inner", "handler"}
		for i := range want {
			if i >= len(order) || order[i] != want[i] {
				t.Fatalf("order = %v, want %v", order, want)
			}
		}
	})
}
