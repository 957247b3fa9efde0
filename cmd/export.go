package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/desertthunder/cadenza/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportBulk exports several playlists concurrently with progress output.
func (r *Runner) ExportBulk(ctx context.Context, cmd *cli.Command) error {
	ids := cmd.StringArgs("ids")
	if len(ids) == 0 {
		return fmt.Errorf("%w: at least one playlist id", shared.ErrMissingArgument)
	}

	client, err := r.apiClient(true)
	if err != nil {
		return err
	}

	engine := tasks.NewExportEngine(&tasks.ClientSource{Client: client})

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := engine.BulkExport(ctx, progress, ids, tasks.BulkExportOpts{
		Format:          cmd.String("format"),
		OutputDir:       cmd.String("output-dir"),
		NumWorkers:      cmd.Int("workers"),
		RateLimit:       cmd.Float("rate-limit"),
		WithCoverImages: cmd.Bool("cover-images"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("✓ Export complete")
	r.writePlain("  Exported: %d/%d playlists\n", result.SuccessfulExports, result.TotalPlaylists)
	if result.FailedExports > 0 {
		r.writePlain("  Failed: %d\n", result.FailedExports)
	}
	r.writePlain("  Output: %s\n", result.OutputDirectory)
	r.writePlain("  Manifest: %s\n", result.ManifestPath)
	return nil
}

// ConfigInit writes the starter configuration file.
func (r *Runner) ConfigInit(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("path")
	if err := shared.CreateConfigFile(path); err != nil {
		return err
	}
	r.writePlain("✓ Wrote %s\n", path)
	r.writePlain("Fill in your Spotify client_id and client_secret, then run: cadenza login\n")
	return nil
}
