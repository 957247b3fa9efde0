package cadenza

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/desertthunder/cadenza/internal/shared"
)

func TestSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("RejectsEmptyQuery", func(t *testing.T) {
		client := newTestClient(t, Options{}, &countingHandler{})
		_, err := client.Search.Search(ctx, "  ", []SearchType{SearchTrack}, SearchOptions{})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("want ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("RejectsNoTypes", func(t *testing.T) {
		client := newTestClient(t, Options{}, &countingHandler{})
		_, err := client.Search.Search(ctx, "daft punk", nil, SearchOptions{})
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("want ErrInvalidArgument, got %v", err)
		}
	})

	t.Run("BuildsQuery", func(t *testing.T) {
		var query url.Values
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			fmt.Fprint(w, `{"tracks": {"total": 1, "items": [{"id": "t1", "name": "One More Time"}]}}`)
		}))

		result, err := client.Search.Search(ctx, "daft punk", []SearchType{SearchTrack, SearchAlbum}, SearchOptions{
			Market: "US",
			Limit:  10,
		})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if query.Get("q") != "daft punk" {
			t.Errorf("q = %q", query.Get("q"))
		}
		if query.Get("type") != "track,album" {
			t.Errorf("type = %q, want track,album", query.Get("type"))
		}
		if query.Get("market") != "US" || query.Get("limit") != "10" {
			t.Errorf("market = %q, limit = %q", query.Get("market"), query.Get("limit"))
		}

		if result.Tracks == nil || len(result.Tracks.Items) != 1 {
			t.Fatalf("unexpected tracks page: %+v", result.Tracks)
		}
		if result.Albums != nil {
			t.Error("pages for unreturned types should stay nil")
		}
	})
}

func TestTopItems(t *testing.T) {
	ctx := context.Background()

	t.Run("RejectsUnknownTimeRange", func(t *testing.T) {
		handler := &countingHandler{}
		client := newTestClient(t, Options{}, handler)
		_, err := client.Users.GetTopTracks(ctx, TimeRange("last_week"), 0, 0)
		if !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("want ErrInvalidArgument, got %v", err)
		}
		if handler.requests.Load() != 0 {
			t.Error("an invalid time range should not reach the server")
		}
	})

	t.Run("SendsTimeRange", func(t *testing.T) {
		var query url.Values
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			fmt.Fprint(w, `{"total": 0, "items": []}`)
		}))

		if _, err := client.Users.GetTopArtists(ctx, TimeRangeLong, 5, 0); err != nil {
			t.Fatalf("GetTopArtists failed: %v", err)
		}
		if query.Get("time_range") != "long_term" {
			t.Errorf("time_range = %q, want long_term", query.Get("time_range"))
		}
	})

	t.Run("OmitsDefaultTimeRange", func(t *testing.T) {
		var query url.Values
		client := newTestClient(t, Options{}, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query()
			fmt.Fprint(w, `{"total": 0, "items": []}`)
		}))

		if _, err := client.Users.GetTopTracks(ctx, "", 0, 0); err != nil {
			t.Fatalf("GetTopTracks failed: %v", err)
		}
		if query.Has("time_range") {
			t.Error("empty time range should use the server default")
		}
	})
}
