package cadenza

import (
	"context"
	"net/url"
	"strings"
)

// ShowService accesses the catalog's podcast show endpoints.
type ShowService struct {
	client *Client
}

// Get fetches a single show with its first page of episodes.
func (s *ShowService) Get(ctx context.Context, id, market string) (*Show, error) {
	if err := requireID("show", id); err != nil {
		return nil, err
	}
	var show Show
	if err := s.client.getJSON(ctx, "/shows/"+id, withMarket(url.Values{}, market), &show); err != nil {
		return nil, err
	}
	return &show, nil
}

// GetSeveral fetches up to 50 shows in one call.
func (s *ShowService) GetSeveral(ctx context.Context, ids []string, market string) ([]SimplifiedShow, error) {
	if err := requireIDs("show", ids); err != nil {
		return nil, err
	}
	params := withMarket(url.Values{}, market)
	params.Set("ids", strings.Join(ids, ","))

	var payload struct {
		Shows []SimplifiedShow `json:"shows"`
	}
	if err := s.client.getJSON(ctx, "/shows", params, &payload); err != nil {
		return nil, err
	}
	return payload.Shows, nil
}

// GetEpisodes fetches one page of a show's episodes.
func (s *ShowService) GetEpisodes(ctx context.Context, id, market string, limit, offset int) (*Page[SimplifiedEpisode], error) {
	if err := requireID("show", id); err != nil {
		return nil, err
	}
	var page Page[SimplifiedEpisode]
	if err := s.client.getJSON(ctx, "/shows/"+id+"/episodes", withMarket(pageParams(limit, offset), market), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
