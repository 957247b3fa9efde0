package cadenza

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/cadenza/internal/shared"
)

// SearchType selects which catalogs a search query runs against.
type SearchType string

const (
	SearchAlbum     SearchType = "album"
	SearchArtist    SearchType = "artist"
	SearchTrack     SearchType = "track"
	SearchPlaylist  SearchType = "playlist"
	SearchShow      SearchType = "show"
	SearchEpisode   SearchType = "episode"
	SearchAudiobook SearchType = "audiobook"
)

// SearchService accesses the catalog search endpoint.
type SearchService struct {
	client *Client
}

// SearchOptions refine a query.
type SearchOptions struct {
	Market string
	Limit  int
	Offset int
}

// Search runs a query against the given catalogs. At least one type is
// required; only the pages for requested types are populated in the result.
func (s *SearchService) Search(ctx context.Context, query string, types []SearchType, opts SearchOptions) (*SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query must not be empty", shared.ErrInvalidArgument)
	}
	if len(types) == 0 {
		return nil, fmt.Errorf("%w: at least one search type is required", shared.ErrInvalidArgument)
	}

	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, string(t))
	}

	params := withMarket(pageParams(opts.Limit, opts.Offset), opts.Market)
	params.Set("q", query)
	params.Set("type", strings.Join(names, ","))

	var result SearchResult
	if err := s.client.getJSON(ctx, "/search", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
