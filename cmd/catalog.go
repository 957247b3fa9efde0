package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/urfave/cli/v3"
)

// Album fetches an album and prints it with its track listing.
func (r *Runner) Album(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: album id", shared.ErrMissingArgument)
	}

	client, err := r.apiClient(false)
	if err != nil {
		return err
	}

	album, err := client.Albums.Get(ctx, id, cmd.String("market"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(album, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", album.Name)
	r.writePlain("Artist: %s\n", artistNames(album.Artists))
	r.writePlain("Released: %s\n", album.ReleaseDate)
	if album.Label != "" {
		r.writePlain("Label: %s\n", album.Label)
	}
	r.writePlain("Tracks: %d\n\n", album.TotalTracks)

	for _, track := range album.Tracks.Items {
		r.writePlain("%d. %s [%s]\n", track.TrackNumber, track.Name, shared.FormatDuration(track.DurationMs))
	}
	return nil
}

// Artist fetches an artist and their top tracks.
func (r *Runner) Artist(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: artist id", shared.ErrMissingArgument)
	}

	client, err := r.apiClient(false)
	if err != nil {
		return err
	}

	artist, err := client.Artists.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	market := cmd.String("market")
	if market == "" {
		market = "US"
	}
	topTracks, err := client.Artists.GetTopTracks(ctx, id, market)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{"artist": artist, "top_tracks": topTracks}, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", artist.Name)
	if len(artist.Genres) > 0 {
		r.writePlain("Genres: %v\n", artist.Genres)
	}
	r.writePlain("Followers: %d\n", artist.Followers.Total)
	r.writePlain("Popularity: %d\n\n", artist.Popularity)

	r.writePlain("Top tracks:\n")
	for i, track := range topTracks {
		r.writePlain("%d. %s (%s)\n", i+1, track.Name, track.Album.Name)
	}
	return nil
}

// Track fetches a single track.
func (r *Runner) Track(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: track id", shared.ErrMissingArgument)
	}

	client, err := r.apiClient(false)
	if err != nil {
		return err
	}

	track, err := client.Tracks.Get(ctx, id, cmd.String("market"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", track.Name)
	r.writePlain("Artist: %s\n", artistNames(track.Artists))
	r.writePlain("Album: %s\n", track.Album.Name)
	r.writePlain("Duration: %s\n", shared.FormatDuration(track.DurationMs))
	if track.ExternalIDs.ISRC != "" {
		r.writePlain("ISRC: %s\n", track.ExternalIDs.ISRC)
	}
	return nil
}

// NewReleases lists newly released albums.
func (r *Runner) NewReleases(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(false)
	if err != nil {
		return err
	}

	page, err := client.Albums.GetNewReleases(ctx, cmd.Int("limit"), 0)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("New releases:\n\n")
	for i, album := range page.Items {
		r.writePlain("%d. %s - %s (%s)\n", i+1, artistNames(album.Artists), album.Name, album.ReleaseDate)
	}
	return nil
}
