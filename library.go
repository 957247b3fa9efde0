package cadenza

import (
	"context"
	"net/http"
	"net/url"
	"strings"
)

// LibraryService accesses the authorized user's saved tracks and albums.
type LibraryService struct {
	client *Client
}

// GetSavedTracks fetches one page of the user's saved tracks.
func (s *LibraryService) GetSavedTracks(ctx context.Context, market string, limit, offset int) (*Page[SavedTrack], error) {
	var page Page[SavedTrack]
	if err := s.client.getJSON(ctx, "/me/tracks", withMarket(pageParams(limit, offset), market), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetSavedAlbums fetches one page of the user's saved albums.
func (s *LibraryService) GetSavedAlbums(ctx context.Context, market string, limit, offset int) (*Page[SavedAlbum], error) {
	var page Page[SavedAlbum]
	if err := s.client.getJSON(ctx, "/me/albums", withMarket(pageParams(limit, offset), market), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveTracks adds tracks to the user's library.
func (s *LibraryService) SaveTracks(ctx context.Context, ids []string) error {
	if err := requireIDs("track", ids); err != nil {
		return err
	}
	return s.client.putJSON(ctx, "/me/tracks", map[string]any{"ids": ids})
}

// RemoveTracks removes tracks from the user's library.
func (s *LibraryService) RemoveTracks(ctx context.Context, ids []string) error {
	if err := requireIDs("track", ids); err != nil {
		return err
	}
	return s.client.deleteJSON(ctx, "/me/tracks", map[string]any{"ids": ids}, nil)
}

// SaveAlbums adds albums to the user's library.
func (s *LibraryService) SaveAlbums(ctx context.Context, ids []string) error {
	if err := requireIDs("album", ids); err != nil {
		return err
	}
	return s.client.putJSON(ctx, "/me/albums", map[string]any{"ids": ids})
}

// RemoveAlbums removes albums from the user's library.
func (s *LibraryService) RemoveAlbums(ctx context.Context, ids []string) error {
	if err := requireIDs("album", ids); err != nil {
		return err
	}
	return s.client.deleteJSON(ctx, "/me/albums", map[string]any{"ids": ids}, nil)
}

// CheckSavedTracks reports, per id, whether the track is in the user's
// library. The result aligns with ids by index; a response that is not a
// boolean list of the same length fails as a whole.
func (s *LibraryService) CheckSavedTracks(ctx context.Context, ids []string) ([]bool, error) {
	return s.checkSaved(ctx, "track", "/me/tracks/contains", ids)
}

// CheckSavedAlbums reports, per id, whether the album is in the user's
// library, with the same shape guarantees as CheckSavedTracks.
func (s *LibraryService) CheckSavedAlbums(ctx context.Context, ids []string) ([]bool, error) {
	return s.checkSaved(ctx, "album", "/me/albums/contains", ids)
}

func (s *LibraryService) checkSaved(ctx context.Context, kind, path string, ids []string) ([]bool, error) {
	if err := requireIDs(kind, ids); err != nil {
		return nil, err
	}
	params := url.Values{"ids": {strings.Join(ids, ",")}}
	data, err := s.client.Request(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return nil, err
	}
	return decodeBools(data, len(ids))
}
