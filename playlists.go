package cadenza

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/cadenza/internal/shared"
)

// PlaylistService accesses playlist endpoints, including mutations.
type PlaylistService struct {
	client *Client
}

// Get fetches a full playlist with its first page of items.
func (s *PlaylistService) Get(ctx context.Context, id, market string) (*Playlist, error) {
	if err := requireID("playlist", id); err != nil {
		return nil, err
	}
	var playlist Playlist
	if err := s.client.getJSON(ctx, "/playlists/"+id, withMarket(url.Values{}, market), &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// GetItems fetches one page of a playlist's items.
func (s *PlaylistService) GetItems(ctx context.Context, id, market string, limit, offset int) (*Page[PlaylistTrack], error) {
	if err := requireID("playlist", id); err != nil {
		return nil, err
	}
	var page Page[PlaylistTrack]
	if err := s.client.getJSON(ctx, "/playlists/"+id+"/tracks", withMarket(pageParams(limit, offset), market), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetCurrentUsers fetches one page of the current user's playlists.
func (s *PlaylistService) GetCurrentUsers(ctx context.Context, limit, offset int) (*Page[SimplifiedPlaylist], error) {
	var page Page[SimplifiedPlaylist]
	if err := s.client.getJSON(ctx, "/me/playlists", pageParams(limit, offset), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUsers fetches one page of another user's public playlists.
func (s *PlaylistService) GetUsers(ctx context.Context, userID string, limit, offset int) (*Page[SimplifiedPlaylist], error) {
	if err := requireID("user", userID); err != nil {
		return nil, err
	}
	var page Page[SimplifiedPlaylist]
	if err := s.client.getJSON(ctx, "/users/"+userID+"/playlists", pageParams(limit, offset), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// PlaylistDetails carries the mutable fields of a playlist. Nil fields are
// left unchanged by ChangeDetails.
type PlaylistDetails struct {
	Name          *string `json:"name,omitempty"`
	Description   *string `json:"description,omitempty"`
	Public        *bool   `json:"public,omitempty"`
	Collaborative *bool   `json:"collaborative,omitempty"`
}

// Create makes a new playlist for a user and returns it.
func (s *PlaylistService) Create(ctx context.Context, userID, name string, details PlaylistDetails) (*Playlist, error) {
	if err := requireID("user", userID); err != nil {
		return nil, err
	}
	if err := requireID("playlist name", name); err != nil {
		return nil, err
	}

	body := map[string]any{"name": name}
	if details.Description != nil {
		body["description"] = *details.Description
	}
	if details.Public != nil {
		body["public"] = *details.Public
	}
	if details.Collaborative != nil {
		body["collaborative"] = *details.Collaborative
	}

	var playlist Playlist
	if err := s.client.postJSON(ctx, "/users/"+userID+"/playlists", body, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// AddItems appends track or episode URIs to a playlist and returns the new
// snapshot id.
func (s *PlaylistService) AddItems(ctx context.Context, id string, uris []string) (string, error) {
	if err := requireID("playlist", id); err != nil {
		return "", err
	}
	if err := requireIDs("item uri", uris); err != nil {
		return "", err
	}

	var snapshot SnapshotID
	body := map[string]any{"uris": uris}
	if err := s.client.postJSON(ctx, "/playlists/"+id+"/tracks", body, &snapshot); err != nil {
		return "", err
	}
	return snapshot.SnapshotID, nil
}

// RemoveItems removes all occurrences of the given URIs and returns the new
// snapshot id. snapshotID pins the removal to a playlist version and may be
// empty.
func (s *PlaylistService) RemoveItems(ctx context.Context, id string, uris []string, snapshotID string) (string, error) {
	if err := requireID("playlist", id); err != nil {
		return "", err
	}
	if err := requireIDs("item uri", uris); err != nil {
		return "", err
	}

	items := make([]map[string]string, 0, len(uris))
	for _, uri := range uris {
		items = append(items, map[string]string{"uri": uri})
	}
	body := map[string]any{"tracks": items}
	if snapshotID != "" {
		body["snapshot_id"] = snapshotID
	}

	var snapshot SnapshotID
	if err := s.client.deleteJSON(ctx, "/playlists/"+id+"/tracks", body, &snapshot); err != nil {
		return "", err
	}
	return snapshot.SnapshotID, nil
}

// ChangeDetails updates a playlist's name, description, or visibility.
func (s *PlaylistService) ChangeDetails(ctx context.Context, id string, details PlaylistDetails) error {
	if err := requireID("playlist", id); err != nil {
		return err
	}
	return s.client.putJSON(ctx, "/playlists/"+id, details)
}

// ReorderOptions describes a reorder of a contiguous range of playlist
// items. RangeLength defaults to 1 and SnapshotID pins the move to a
// playlist version when set.
type ReorderOptions struct {
	RangeStart   int
	InsertBefore int
	RangeLength  int
	SnapshotID   string
}

// ReorderItems moves a range of items within a playlist and returns the new
// snapshot id.
func (s *PlaylistService) ReorderItems(ctx context.Context, id string, opts ReorderOptions) (string, error) {
	if err := requireID("playlist", id); err != nil {
		return "", err
	}

	body := map[string]any{
		"range_start":   opts.RangeStart,
		"insert_before": opts.InsertBefore,
	}
	if opts.RangeLength > 0 {
		body["range_length"] = opts.RangeLength
	}
	if opts.SnapshotID != "" {
		body["snapshot_id"] = opts.SnapshotID
	}

	var snapshot SnapshotID
	data, err := s.client.Request(ctx, http.MethodPut, "/playlists/"+id+"/tracks", nil, body)
	if err != nil {
		return "", err
	}
	if err := decode(data, &snapshot); err != nil {
		return "", err
	}
	return snapshot.SnapshotID, nil
}

// ReplaceItems overwrites a playlist's contents with the given URIs and
// returns the new snapshot id.
func (s *PlaylistService) ReplaceItems(ctx context.Context, id string, uris []string) (string, error) {
	if err := requireID("playlist", id); err != nil {
		return "", err
	}
	if err := requireIDs("item uri", uris); err != nil {
		return "", err
	}

	var snapshot SnapshotID
	data, err := s.client.Request(ctx, http.MethodPut, "/playlists/"+id+"/tracks", nil, map[string]any{"uris": uris})
	if err != nil {
		return "", err
	}
	if err := decode(data, &snapshot); err != nil {
		return "", err
	}
	return snapshot.SnapshotID, nil
}

// Follow adds the current user as a follower of a playlist. public controls
// whether the playlist appears among the user's public playlists; nil keeps
// the server default.
func (s *PlaylistService) Follow(ctx context.Context, id string, public *bool) error {
	if err := requireID("playlist", id); err != nil {
		return err
	}
	var body any
	if public != nil {
		body = map[string]bool{"public": *public}
	}
	_, err := s.client.Request(ctx, http.MethodPut, "/playlists/"+id+"/followers", nil, body)
	return err
}

// Unfollow removes the current user as a follower of a playlist.
func (s *PlaylistService) Unfollow(ctx context.Context, id string) error {
	if err := requireID("playlist", id); err != nil {
		return err
	}
	_, err := s.client.Request(ctx, http.MethodDelete, "/playlists/"+id+"/followers", nil, nil)
	return err
}

// CheckFollowers reports whether each of the given users follows the
// playlist, aligned with userIDs.
func (s *PlaylistService) CheckFollowers(ctx context.Context, id string, userIDs []string) ([]bool, error) {
	if err := requireID("playlist", id); err != nil {
		return nil, err
	}
	if err := requireIDs("user", userIDs); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("ids", strings.Join(userIDs, ","))
	data, err := s.client.Request(ctx, http.MethodGet, "/playlists/"+id+"/followers/contains", params, nil)
	if err != nil {
		return nil, err
	}
	return decodeBools(data, len(userIDs))
}

// UploadCoverImage replaces a playlist's cover with a base64-encoded JPEG.
func (s *PlaylistService) UploadCoverImage(ctx context.Context, id, imageBase64JPEG string) error {
	if err := requireID("playlist", id); err != nil {
		return err
	}
	if imageBase64JPEG == "" {
		return fmt.Errorf("%w: cover image payload must not be empty", shared.ErrInvalidArgument)
	}
	_, err := s.client.do(ctx, http.MethodPut, "/playlists/"+id+"/images", nil, "image/jpeg", []byte(imageBase64JPEG))
	return err
}
