package cadenza

import (
	"context"
	"net/url"
	"strings"
)

// ChapterService accesses the catalog's audiobook chapter endpoints.
type ChapterService struct {
	client *Client
}

// Get fetches a single chapter.
func (s *ChapterService) Get(ctx context.Context, id, market string) (*Chapter, error) {
	if err := requireID("chapter", id); err != nil {
		return nil, err
	}
	var chapter Chapter
	if err := s.client.getJSON(ctx, "/chapters/"+id, withMarket(url.Values{}, market), &chapter); err != nil {
		return nil, err
	}
	return &chapter, nil
}

// GetSeveral fetches up to 50 chapters in one call.
func (s *ChapterService) GetSeveral(ctx context.Context, ids []string, market string) ([]Chapter, error) {
	if err := requireIDs("chapter", ids); err != nil {
		return nil, err
	}
	params := withMarket(url.Values{}, market)
	params.Set("ids", strings.Join(ids, ","))

	var payload struct {
		Chapters []Chapter `json:"chapters"`
	}
	if err := s.client.getJSON(ctx, "/chapters", params, &payload); err != nil {
		return nil, err
	}
	return payload.Chapters, nil
}
