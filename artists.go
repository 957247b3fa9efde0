package cadenza

import (
	"context"
	"net/url"
	"strings"
)

// ArtistService accesses the catalog's artist endpoints.
type ArtistService struct {
	client *Client
}

// Get fetches a single artist.
func (s *ArtistService) Get(ctx context.Context, id string) (*Artist, error) {
	if err := requireID("artist", id); err != nil {
		return nil, err
	}
	var artist Artist
	if err := s.client.getJSON(ctx, "/artists/"+id, nil, &artist); err != nil {
		return nil, err
	}
	return &artist, nil
}

// GetSeveral fetches up to 50 artists in one call.
func (s *ArtistService) GetSeveral(ctx context.Context, ids []string) ([]Artist, error) {
	if err := requireIDs("artist", ids); err != nil {
		return nil, err
	}
	params := url.Values{"ids": {strings.Join(ids, ",")}}

	var payload struct {
		Artists []Artist `json:"artists"`
	}
	if err := s.client.getJSON(ctx, "/artists", params, &payload); err != nil {
		return nil, err
	}
	return payload.Artists, nil
}

// GetAlbums fetches one page of an artist's albums. includeGroups filters
// by release type (album, single, appears_on, compilation) and may be empty.
func (s *ArtistService) GetAlbums(ctx context.Context, id string, includeGroups []string, market string, limit, offset int) (*Page[SimplifiedAlbum], error) {
	if err := requireID("artist", id); err != nil {
		return nil, err
	}
	params := withMarket(pageParams(limit, offset), market)
	if len(includeGroups) > 0 {
		params.Set("include_groups", strings.Join(includeGroups, ","))
	}

	var page Page[SimplifiedAlbum]
	if err := s.client.getJSON(ctx, "/artists/"+id+"/albums", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTopTracks fetches an artist's top tracks for a market.
func (s *ArtistService) GetTopTracks(ctx context.Context, id, market string) ([]Track, error) {
	if err := requireID("artist", id); err != nil {
		return nil, err
	}
	var payload struct {
		Tracks []Track `json:"tracks"`
	}
	if err := s.client.getJSON(ctx, "/artists/"+id+"/top-tracks", withMarket(url.Values{}, market), &payload); err != nil {
		return nil, err
	}
	return payload.Tracks, nil
}
