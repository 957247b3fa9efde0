// package tasks implements long-running catalog operations with progress reporting.
//
// The core abstraction is [ExportEngine], which orchestrates concurrent
// playlist exports. Operations emit progress updates via channels for
// non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/internal/formatter"
)

// PlaylistSource fetches complete playlists for export. *ClientSource is
// the production implementation.
type PlaylistSource interface {
	ExportPlaylist(ctx context.Context, id string) (*formatter.PlaylistExport, error)
	CoverImageURL(ctx context.Context, id string) (string, error)
}

// ClientSource adapts a [cadenza.Client] into a [PlaylistSource], walking
// every page of a playlist's items.
type ClientSource struct {
	Client *cadenza.Client

	// PageSize bounds each items request; zero means the API default.
	PageSize int
}

// ExportPlaylist fetches the playlist and all of its items.
func (s *ClientSource) ExportPlaylist(ctx context.Context, id string) (*formatter.PlaylistExport, error) {
	playlist, err := s.Client.Playlists.Get(ctx, id, "")
	if err != nil {
		return nil, err
	}

	export := &formatter.PlaylistExport{Playlist: *playlist}
	export.Tracks = append(export.Tracks, playlist.Tracks.Items...)

	offset := len(playlist.Tracks.Items)
	for playlist.Tracks.Total > len(export.Tracks) {
		page, err := s.Client.Playlists.GetItems(ctx, id, "", s.PageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch playlist items at offset %d: %w", offset, err)
		}
		if len(page.Items) == 0 {
			break
		}
		export.Tracks = append(export.Tracks, page.Items...)
		offset += len(page.Items)
	}
	return export, nil
}

// CoverImageURL returns the playlist's largest cover image, or empty when
// it has none.
func (s *ClientSource) CoverImageURL(ctx context.Context, id string) (string, error) {
	playlist, err := s.Client.Playlists.Get(ctx, id, "")
	if err != nil {
		return "", err
	}
	if len(playlist.Images) == 0 {
		return "", nil
	}
	return playlist.Images[0].URL, nil
}

// PlaylistExportJob is one unit of work for an export worker.
type PlaylistExportJob struct {
	PlaylistID string
	Export     *formatter.PlaylistExport
}

// PlaylistExportResult records the outcome of exporting a single playlist.
type PlaylistExportResult struct {
	PlaylistID   string
	PlaylistName string
	Success      bool
	Files        []string
	Error        error
}

// BulkExportResult aggregates the outcome of a bulk export run.
type BulkExportResult struct {
	TotalPlaylists    int
	SuccessfulExports int
	FailedExports     int
	Results           []PlaylistExportResult
	OutputDirectory   string
	ManifestPath      string
}

// ExportEngine runs playlist exports against a source.
type ExportEngine struct {
	source PlaylistSource
}

// NewExportEngine creates an engine over the given source.
func NewExportEngine(source PlaylistSource) *ExportEngine {
	return &ExportEngine{source: source}
}

// sendProgress delivers an update without blocking; updates are dropped
// when the receiver is not keeping up.
func (e *ExportEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}
