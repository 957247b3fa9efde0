package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadenza/internal/formatter"
	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/desertthunder/cadenza/internal/tasks"
	"github.com/urfave/cli/v3"
)

// PlaylistGet fetches a playlist with all of its items.
func (r *Runner) PlaylistGet(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	client, err := r.apiClient(true)
	if err != nil {
		return err
	}

	source := &tasks.ClientSource{Client: client}
	export, err := source.ExportPlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	r.writePlain("Playlist: %s\n", export.Playlist.Name)
	if export.Playlist.Description != "" {
		r.writePlain("Description: %s\n", export.Playlist.Description)
	}
	r.writePlain("Visibility: %s\n", shared.VisibilityString(export.Playlist.Public))
	r.writePlain("Tracks: %d\n\n", len(export.Tracks))

	for i, item := range export.Tracks {
		r.writePlain("%d. %s - %s\n", i+1, artistNames(item.Track.Artists), item.Track.Name)
	}
	return nil
}

// PlaylistList lists the current user's playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(true)
	if err != nil {
		return err
	}

	page, err := client.Playlists.GetCurrentUsers(ctx, cmd.Int("limit"), 0)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d playlists:\n\n", page.Total)
	for i, p := range page.Items {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.Tracks.Total)
		r.writePlain("   Visibility: %s\n", shared.VisibilityString(p.Public))
		r.writePlain("\n")
	}
	return nil
}

// PlaylistExport exports one playlist to the requested format.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	client, err := r.apiClient(true)
	if err != nil {
		return err
	}

	source := &tasks.ClientSource{Client: client}
	export, err := source.ExportPlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	output := cmd.String("output")
	var files []string

	switch cmd.String("format") {
	case "csv":
		res, err := formatter.WriteCSVExport(export, output)
		if err != nil {
			return err
		}
		files = []string{res.TracksFile, res.MetadataFile}
	case "markdown":
		var imageURL string
		if len(export.Playlist.Images) > 0 {
			imageURL = export.Playlist.Images[0].URL
		}
		res, err := formatter.WriteMarkdownExport(export, output, imageURL)
		if err != nil {
			return err
		}
		files = res.Files
	case "txt":
		path, err := formatter.WriteTextExport(export, output)
		if err != nil {
			return err
		}
		files = []string{path}
	case "json":
		path, err := formatter.WriteJSONExport(export, output)
		if err != nil {
			return err
		}
		files = []string{path}
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, cmd.String("format"))
	}

	r.writePlain("✓ Playlist exported: %s\n", export.Playlist.Name)
	for _, f := range files {
		r.writePlain("  %s\n", f)
	}
	return nil
}
