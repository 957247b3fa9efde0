package cadenza

import (
	"context"
	"net/url"
	"strings"
)

// AudiobookService accesses the catalog's audiobook endpoints.
type AudiobookService struct {
	client *Client
}

// Get fetches a single audiobook with its first page of chapters.
func (s *AudiobookService) Get(ctx context.Context, id, market string) (*Audiobook, error) {
	if err := requireID("audiobook", id); err != nil {
		return nil, err
	}
	var book Audiobook
	if err := s.client.getJSON(ctx, "/audiobooks/"+id, withMarket(url.Values{}, market), &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// GetSeveral fetches up to 50 audiobooks in one call.
func (s *AudiobookService) GetSeveral(ctx context.Context, ids []string, market string) ([]SimplifiedAudiobook, error) {
	if err := requireIDs("audiobook", ids); err != nil {
		return nil, err
	}
	params := withMarket(url.Values{}, market)
	params.Set("ids", strings.Join(ids, ","))

	var payload struct {
		Audiobooks []SimplifiedAudiobook `json:"audiobooks"`
	}
	if err := s.client.getJSON(ctx, "/audiobooks", params, &payload); err != nil {
		return nil, err
	}
	return payload.Audiobooks, nil
}

// GetChapters fetches one page of an audiobook's chapters.
func (s *AudiobookService) GetChapters(ctx context.Context, id, market string, limit, offset int) (*Page[SimplifiedChapter], error) {
	if err := requireID("audiobook", id); err != nil {
		return nil, err
	}
	var page Page[SimplifiedChapter]
	if err := s.client.getJSON(ctx, "/audiobooks/"+id+"/chapters", withMarket(pageParams(limit, offset), market), &page); err != nil {
		return nil, err
	}
	return &page, nil
}
