package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/desertthunder/cadenza/internal/ui"
	"github.com/urfave/cli/v3"
)

// Search queries the catalog, optionally opening a TUI to pick a track.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	var types []cadenza.SearchType
	for _, name := range strings.Split(cmd.String("type"), ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			types = append(types, cadenza.SearchType(name))
		}
	}

	client, err := r.apiClient(false)
	if err != nil {
		return err
	}

	result, err := client.Search.Search(ctx, query, types, cadenza.SearchOptions{
		Market: cmd.String("market"),
		Limit:  cmd.Int("limit"),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("interactive") {
		if result.Tracks == nil || len(result.Tracks.Items) == 0 {
			return fmt.Errorf("%w: no track results to pick from", shared.ErrInvalidInput)
		}
		track, err := ui.PickTrack(ctx, query, result.Tracks.Items)
		if err != nil {
			return err
		}
		if track == nil {
			r.writePlain("No track selected.\n")
			return nil
		}
		return r.writeJSON(track, true)
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	if result.Tracks != nil {
		r.writePlain("Tracks:\n")
		for i, track := range result.Tracks.Items {
			r.writePlain("%d. %s - %s (%s)\n", i+1, artistNames(track.Artists), track.Name, track.Album.Name)
		}
		r.writePlain("\n")
	}
	if result.Albums != nil {
		r.writePlain("Albums:\n")
		for i, album := range result.Albums.Items {
			r.writePlain("%d. %s - %s\n", i+1, artistNames(album.Artists), album.Name)
		}
		r.writePlain("\n")
	}
	if result.Artists != nil {
		r.writePlain("Artists:\n")
		for i, artist := range result.Artists.Items {
			r.writePlain("%d. %s\n", i+1, artist.Name)
		}
		r.writePlain("\n")
	}
	if result.Playlists != nil {
		r.writePlain("Playlists:\n")
		for i, playlist := range result.Playlists.Items {
			r.writePlain("%d. %s (%d tracks)\n", i+1, playlist.Name, playlist.Tracks.Total)
		}
		r.writePlain("\n")
	}
	if result.Shows != nil {
		r.writePlain("Shows:\n")
		for i, show := range result.Shows.Items {
			r.writePlain("%d. %s - %s\n", i+1, show.Publisher, show.Name)
		}
		r.writePlain("\n")
	}
	if result.Episodes != nil {
		r.writePlain("Episodes:\n")
		for i, episode := range result.Episodes.Items {
			r.writePlain("%d. %s\n", i+1, episode.Name)
		}
		r.writePlain("\n")
	}
	if result.Audiobooks != nil {
		r.writePlain("Audiobooks:\n")
		for i, book := range result.Audiobooks.Items {
			r.writePlain("%d. %s\n", i+1, book.Name)
		}
		r.writePlain("\n")
	}
	return nil
}
