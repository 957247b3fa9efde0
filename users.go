package cadenza

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/cadenza/internal/shared"
)

// UserService accesses profile and personalization endpoints. Most require
// user-delegated authorization.
type UserService struct {
	client *Client
}

// GetCurrentUser fetches the authorized user's profile.
func (s *UserService) GetCurrentUser(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.getJSON(ctx, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUser fetches another user's public profile.
func (s *UserService) GetUser(ctx context.Context, id string) (*PublicUser, error) {
	if err := requireID("user", id); err != nil {
		return nil, err
	}
	var user PublicUser
	if err := s.client.getJSON(ctx, "/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// TimeRange selects the window for top-item queries.
type TimeRange string

const (
	TimeRangeShort  TimeRange = "short_term"
	TimeRangeMedium TimeRange = "medium_term"
	TimeRangeLong   TimeRange = "long_term"
)

// GetTopTracks fetches one page of the user's most played tracks.
func (s *UserService) GetTopTracks(ctx context.Context, timeRange TimeRange, limit, offset int) (*Page[Track], error) {
	params, err := topItemParams(timeRange, limit, offset)
	if err != nil {
		return nil, err
	}
	var page Page[Track]
	if err := s.client.getJSON(ctx, "/me/top/tracks", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetTopArtists fetches one page of the user's most played artists.
func (s *UserService) GetTopArtists(ctx context.Context, timeRange TimeRange, limit, offset int) (*Page[Artist], error) {
	params, err := topItemParams(timeRange, limit, offset)
	if err != nil {
		return nil, err
	}
	var page Page[Artist]
	if err := s.client.getJSON(ctx, "/me/top/artists", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// FollowType selects what kind of account a follow operation targets.
type FollowType string

const (
	FollowTypeArtist FollowType = "artist"
	FollowTypeUser   FollowType = "user"
)

// Follow adds the current user as a follower of the given artists or users.
func (s *UserService) Follow(ctx context.Context, followType FollowType, ids []string) error {
	params, err := followParams(followType, ids)
	if err != nil {
		return err
	}
	_, err = s.client.Request(ctx, http.MethodPut, "/me/following", params, nil)
	return err
}

// Unfollow removes the given artists or users from the current user's
// follows.
func (s *UserService) Unfollow(ctx context.Context, followType FollowType, ids []string) error {
	params, err := followParams(followType, ids)
	if err != nil {
		return err
	}
	_, err = s.client.Request(ctx, http.MethodDelete, "/me/following", params, nil)
	return err
}

// CheckFollows reports whether the current user follows each of the given
// artists or users, aligned with ids.
func (s *UserService) CheckFollows(ctx context.Context, followType FollowType, ids []string) ([]bool, error) {
	params, err := followParams(followType, ids)
	if err != nil {
		return nil, err
	}
	data, err := s.client.Request(ctx, http.MethodGet, "/me/following/contains", params, nil)
	if err != nil {
		return nil, err
	}
	return decodeBools(data, len(ids))
}

// GetFollowedArtists fetches one cursor page of the artists the current user
// follows. after is the last artist id of the previous page and may be empty.
func (s *UserService) GetFollowedArtists(ctx context.Context, after string, limit int) (*CursorPage[Artist], error) {
	params := pageParams(limit, 0)
	params.Set("type", string(FollowTypeArtist))
	if after != "" {
		params.Set("after", after)
	}

	var envelope struct {
		Artists CursorPage[Artist] `json:"artists"`
	}
	if err := s.client.getJSON(ctx, "/me/following", params, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Artists, nil
}

func followParams(followType FollowType, ids []string) (url.Values, error) {
	switch followType {
	case FollowTypeArtist, FollowTypeUser:
	default:
		return nil, fmt.Errorf("%w: unknown follow type %q", shared.ErrInvalidArgument, followType)
	}
	if err := requireIDs(string(followType), ids); err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("type", string(followType))
	params.Set("ids", strings.Join(ids, ","))
	return params, nil
}

func topItemParams(timeRange TimeRange, limit, offset int) (url.Values, error) {
	params := pageParams(limit, offset)
	switch timeRange {
	case "":
	case TimeRangeShort, TimeRangeMedium, TimeRangeLong:
		params.Set("time_range", string(timeRange))
	default:
		return nil, fmt.Errorf("%w: unknown time range %q", shared.ErrInvalidArgument, timeRange)
	}
	return params, nil
}
