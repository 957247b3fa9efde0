package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/cadenza/internal/formatter"
	"github.com/desertthunder/cadenza/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts configures a bulk playlist export run.
type BulkExportOpts struct {
	Format     string  // json, csv, markdown, txt
	OutputDir  string  // default: spotify_export_{epoch}
	NumWorkers int     // default 5, capped at 10
	RateLimit  float64 // fetches per second, default 5

	// WithCoverImages downloads cover art for markdown exports.
	WithCoverImages bool
}

func (o *BulkExportOpts) applyDefaults() {
	if o.OutputDir == "" {
		o.OutputDir = fmt.Sprintf("spotify_export_%d", time.Now().Unix())
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 5
	}
	if o.NumWorkers > 10 {
		o.NumWorkers = 10
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5.0
	}
}

// BulkExport fetches and exports the named playlists through a worker pool.
// Fetches are paced by a rate limiter, individual failures are recorded
// rather than aborting the run, and a manifest summarizing the outcome is
// written into the output directory.
func (e *ExportEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: playlist source not initialized", shared.ErrServiceUnavailable)
	}
	opts.applyDefaults()

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	run := &BulkExportResult{
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	jobs := make(chan PlaylistExportJob, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go e.fetchPlaylists(ctx, prog, ids, opts, jobs, results)

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for res := range results {
		done++
		run.Results = append(run.Results, res)
		if res.Success {
			run.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(done, len(ids), res.PlaylistName, len(res.Files)))
		} else {
			run.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(done, len(ids), res.PlaylistName, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(run.manifest(opts.Format), manifestPath); err != nil {
		return run, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	run.ManifestPath = manifestPath
	return run, nil
}

// fetchPlaylists is the producer: it pulls each playlist from the source
// under the rate limit and hands complete exports to the worker pool. Fetch
// failures go straight to the results channel as failed records.
func (e *ExportEngine) fetchPlaylists(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	ids []string,
	opts BulkExportOpts,
	jobs chan<- PlaylistExportJob,
	results chan<- PlaylistExportResult,
) {
	defer close(jobs)

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	e.sendProgress(prog, fetchingPlaylistsUpdate(1, len(ids)))

	for i, id := range ids {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		export, err := e.source.ExportPlaylist(ctx, id)
		if err != nil {
			results <- PlaylistExportResult{
				PlaylistID:   id,
				PlaylistName: fmt.Sprintf("Unknown (%s)", id),
				Error:        fmt.Errorf("failed to fetch playlist: %w", err),
			}
			continue
		}

		jobs <- PlaylistExportJob{PlaylistID: id, Export: export}
		e.sendProgress(prog, exportingPlaylistUpdate(i+1, len(ids), export.Playlist.Name))
	}
}

func (r *BulkExportResult) manifest(format string) formatter.Manifest {
	entries := make([]formatter.ManifestEntry, 0, len(r.Results))
	for _, res := range r.Results {
		entry := formatter.ManifestEntry{
			PlaylistID:   res.PlaylistID,
			PlaylistName: res.PlaylistName,
			Status:       "success",
			Files:        res.Files,
		}
		if !res.Success {
			entry.Status = "failed"
			if res.Error != nil {
				entry.Error = res.Error.Error()
			}
		}
		entries = append(entries, entry)
	}
	return formatter.Manifest{
		Format:            format,
		TotalPlaylists:    r.TotalPlaylists,
		SuccessfulExports: r.SuccessfulExports,
		FailedExports:     r.FailedExports,
		OutputDirectory:   r.OutputDirectory,
		Playlists:         entries,
	}
}

func (e *ExportEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan PlaylistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}
		results <- e.exportOne(ctx, job, opts)
	}
}

// exportOne writes a single playlist in the requested format. Unknown
// formats fall back to JSON.
func (e *ExportEngine) exportOne(ctx context.Context, j PlaylistExportJob, opts BulkExportOpts) PlaylistExportResult {
	res := PlaylistExportResult{
		PlaylistID:   j.PlaylistID,
		PlaylistName: j.Export.Playlist.Name,
		Files:        []string{},
	}

	files, err := e.writeExport(ctx, j, opts)
	if err != nil {
		res.Error = err
		return res
	}
	res.Files = files
	res.Success = true
	return res
}

func (e *ExportEngine) writeExport(ctx context.Context, j PlaylistExportJob, opts BulkExportOpts) ([]string, error) {
	base := filepath.Join(opts.OutputDir, j.Export.Playlist.ID)

	switch opts.Format {
	case "csv":
		out, err := formatter.WriteCSVExport(j.Export, base)
		if err != nil {
			return nil, fmt.Errorf("CSV export failed: %w", err)
		}
		return []string{out.TracksFile, out.MetadataFile}, nil

	case "markdown":
		var imageURL string
		if opts.WithCoverImages {
			if url, err := e.source.CoverImageURL(ctx, j.PlaylistID); err == nil {
				imageURL = url
			}
		}
		out, err := formatter.WriteMarkdownExport(j.Export, base, imageURL)
		if err != nil {
			return nil, fmt.Errorf("markdown export failed: %w", err)
		}
		return out.Files, nil

	case "txt":
		path, err := formatter.WriteTextExport(j.Export, base+"_tracks.txt")
		if err != nil {
			return nil, fmt.Errorf("text export failed: %w", err)
		}
		return []string{path}, nil
	}

	path, err := formatter.WriteJSONExport(j.Export, base+".json")
	if err != nil {
		return nil, fmt.Errorf("JSON export failed: %w", err)
	}
	return []string{path}, nil
}
