package cadenza

import (
	"context"
	"net/url"
	"strings"
)

// TrackService accesses the catalog's track endpoints.
type TrackService struct {
	client *Client
}

// Get fetches a single track.
func (s *TrackService) Get(ctx context.Context, id, market string) (*Track, error) {
	if err := requireID("track", id); err != nil {
		return nil, err
	}
	var track Track
	if err := s.client.getJSON(ctx, "/tracks/"+id, withMarket(url.Values{}, market), &track); err != nil {
		return nil, err
	}
	return &track, nil
}

// GetSeveral fetches up to 50 tracks in one call.
func (s *TrackService) GetSeveral(ctx context.Context, ids []string, market string) ([]Track, error) {
	if err := requireIDs("track", ids); err != nil {
		return nil, err
	}
	params := withMarket(url.Values{}, market)
	params.Set("ids", strings.Join(ids, ","))

	var payload struct {
		Tracks []Track `json:"tracks"`
	}
	if err := s.client.getJSON(ctx, "/tracks", params, &payload); err != nil {
		return nil, err
	}
	return payload.Tracks, nil
}
