package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/urfave/cli/v3"
)

// LibraryTracks lists the user's saved tracks.
func (r *Runner) LibraryTracks(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(true)
	if err != nil {
		return err
	}

	page, err := client.Library.GetSavedTracks(ctx, "", cmd.Int("limit"), 0)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("Saved tracks (%d total):\n\n", page.Total)
	for i, saved := range page.Items {
		r.writePlain("%d. %s - %s\n", i+1, artistNames(saved.Track.Artists), saved.Track.Name)
	}
	return nil
}

// LibraryAlbums lists the user's saved albums.
func (r *Runner) LibraryAlbums(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(true)
	if err != nil {
		return err
	}

	page, err := client.Library.GetSavedAlbums(ctx, "", cmd.Int("limit"), 0)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(page, cmd.Bool("pretty"))
	}

	r.writePlain("Saved albums (%d total):\n\n", page.Total)
	for i, saved := range page.Items {
		r.writePlain("%d. %s - %s\n", i+1, artistNames(saved.Album.Artists), saved.Album.Name)
	}
	return nil
}

// Me shows the authorized user's profile.
func (r *Runner) Me(ctx context.Context, cmd *cli.Command) error {
	client, err := r.apiClient(true)
	if err != nil {
		return err
	}

	user, err := client.Users.GetCurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("%s (%s)\n", user.DisplayName, user.ID)
	if user.Email != "" {
		r.writePlain("Email: %s\n", user.Email)
	}
	if user.Country != "" {
		r.writePlain("Country: %s\n", user.Country)
	}
	if user.Product != "" {
		r.writePlain("Product: %s\n", user.Product)
	}
	r.writePlain("Followers: %d\n", user.Followers.Total)
	return nil
}
