package cadenza

import (
	"context"
	"net/url"
	"strings"
)

// AlbumService accesses the catalog's album endpoints.
type AlbumService struct {
	client *Client
}

// Get fetches a single album. Market filters track availability and may be
// empty.
func (s *AlbumService) Get(ctx context.Context, id, market string) (*Album, error) {
	if err := requireID("album", id); err != nil {
		return nil, err
	}
	var album Album
	if err := s.client.getJSON(ctx, "/albums/"+id, withMarket(url.Values{}, market), &album); err != nil {
		return nil, err
	}
	return &album, nil
}

// GetSeveral fetches up to 20 albums in one call.
func (s *AlbumService) GetSeveral(ctx context.Context, ids []string, market string) ([]Album, error) {
	if err := requireIDs("album", ids); err != nil {
		return nil, err
	}
	params := withMarket(url.Values{}, market)
	params.Set("ids", strings.Join(ids, ","))

	var payload struct {
		Albums []Album `json:"albums"`
	}
	if err := s.client.getJSON(ctx, "/albums", params, &payload); err != nil {
		return nil, err
	}
	return payload.Albums, nil
}

// GetTracks fetches one page of an album's tracks.
func (s *AlbumService) GetTracks(ctx context.Context, id, market string, limit, offset int) (*Page[SimplifiedTrack], error) {
	if err := requireID("album", id); err != nil {
		return nil, err
	}
	var page Page[SimplifiedTrack]
	if err := s.client.getJSON(ctx, "/albums/"+id+"/tracks", withMarket(pageParams(limit, offset), market), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetNewReleases fetches one page of newly released albums.
func (s *AlbumService) GetNewReleases(ctx context.Context, limit, offset int) (*Page[SimplifiedAlbum], error) {
	var payload struct {
		Albums Page[SimplifiedAlbum] `json:"albums"`
	}
	if err := s.client.getJSON(ctx, "/browse/new-releases", pageParams(limit, offset), &payload); err != nil {
		return nil, err
	}
	return &payload.Albums, nil
}
