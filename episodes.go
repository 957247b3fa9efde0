package cadenza

import (
	"context"
	"net/url"
	"strings"
)

// EpisodeService accesses the catalog's podcast episode endpoints.
type EpisodeService struct {
	client *Client
}

// Get fetches a single episode.
func (s *EpisodeService) Get(ctx context.Context, id, market string) (*Episode, error) {
	if err := requireID("episode", id); err != nil {
		return nil, err
	}
	var episode Episode
	if err := s.client.getJSON(ctx, "/episodes/"+id, withMarket(url.Values{}, market), &episode); err != nil {
		return nil, err
	}
	return &episode, nil
}

// GetSeveral fetches up to 50 episodes in one call.
func (s *EpisodeService) GetSeveral(ctx context.Context, ids []string, market string) ([]Episode, error) {
	if err := requireIDs("episode", ids); err != nil {
		return nil, err
	}
	params := withMarket(url.Values{}, market)
	params.Set("ids", strings.Join(ids, ","))

	var payload struct {
		Episodes []Episode `json:"episodes"`
	}
	if err := s.client.getJSON(ctx, "/episodes", params, &payload); err != nil {
		return nil, err
	}
	return payload.Episodes, nil
}
