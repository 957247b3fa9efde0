// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

func marketFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "market",
		Aliases: []string{"m"},
		Usage:   "ISO 3166-1 country code to filter availability",
	}
}

// loginCommand runs the interactive OAuth2 loopback flow.
func loginCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "Authorize with Spotify using the browser",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "show-dialog",
				Usage: "Force the consent screen even when already approved",
			},
			&cli.BoolFlag{
				Name:  "no-browser",
				Usage: "Print the authorization URL instead of opening a browser",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "How long to wait for the callback",
			},
		},
		Action: r.Login,
	}
}

// tokenCommand inspects the cached token.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Show the cached access token and its expiry",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "reveal",
				Usage: "Print the full access token",
			},
		},
		Action: r.Token,
	}
}

// albumCommand fetches albums from the catalog.
func albumCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "album",
		Usage: "Fetch an album and its tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  append(jsonFlags(), marketFlag()),
		Action: r.Album,
	}
}

// artistCommand fetches artists from the catalog.
func artistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "artist",
		Usage: "Fetch an artist with top tracks",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  append(jsonFlags(), marketFlag()),
		Action: r.Artist,
	}
}

// trackCommand fetches tracks from the catalog.
func trackCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "track",
		Usage: "Fetch a track",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  append(jsonFlags(), marketFlag()),
		Action: r.Track,
	}
}

// playlistCommand handles playlist operations.
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlist",
		Usage: "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Fetch a playlist and its items",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(),
				Action: r.PlaylistGet,
			},
			{
				Name:  "list",
				Usage: "List your playlists",
				Flags: append(jsonFlags(), &cli.IntFlag{
					Name:  "limit",
					Usage: "Maximum number of playlists to return",
					Value: 50,
				}),
				Action: r.PlaylistList,
			},
			{
				Name:  "export",
				Usage: "Export a playlist to a file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file or directory path",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// searchCommand queries the catalog.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search the catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: append(jsonFlags(),
			&cli.StringFlag{
				Name:    "type",
				Aliases: []string{"t"},
				Usage:   "Comma-separated result types (album, artist, track, playlist, show, episode, audiobook)",
				Value:   "track",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum results per type",
				Value: 20,
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Pick a track from the results in a TUI",
			},
			marketFlag(),
		),
		Action: r.Search,
	}
}

// libraryCommand reads the authorized user's saved items.
func libraryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "library",
		Usage: "Your saved tracks and albums",
		Commands: []*cli.Command{
			{
				Name:  "tracks",
				Usage: "List saved tracks",
				Flags: append(jsonFlags(), &cli.IntFlag{
					Name:  "limit",
					Usage: "Maximum number of tracks",
					Value: 50,
				}),
				Action: r.LibraryTracks,
			},
			{
				Name:  "albums",
				Usage: "List saved albums",
				Flags: append(jsonFlags(), &cli.IntFlag{
					Name:  "limit",
					Usage: "Maximum number of albums",
					Value: 50,
				}),
				Action: r.LibraryAlbums,
			},
		},
	}
}

// newReleasesCommand lists newly released albums.
func newReleasesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "new-releases",
		Usage: "List newly released albums",
		Flags: append(jsonFlags(), &cli.IntFlag{
			Name:  "limit",
			Usage: "Maximum number of albums",
			Value: 20,
		}),
		Action: r.NewReleases,
	}
}

// meCommand shows the authorized user's profile.
func meCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "me",
		Usage:  "Show your profile",
		Flags:  jsonFlags(),
		Action: r.Me,
	}
}

// exportCommand handles bulk exports.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Bulk export operations",
		Commands: []*cli.Command{
			{
				Name:  "bulk",
				Usage: "Export several playlists concurrently",
				Arguments: []cli.Argument{
					&cli.StringArgs{Name: "ids", Min: 1, Max: -1},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: json, csv, markdown, txt",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output-dir",
						Aliases: []string{"o"},
						Usage:   "Output directory",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "Requests per second",
						Value: 5,
					},
					&cli.BoolFlag{
						Name:  "cover-images",
						Usage: "Download cover art for markdown exports",
					},
				},
				Action: r.ExportBulk,
			},
		},
	}
}

// configCommand manages the configuration file.
func configCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage configuration",
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Write a starter config.toml",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "path",
						Aliases: []string{"p"},
						Usage:   "Where to write the file",
						Value:   "config.toml",
					},
				},
				Action: r.ConfigInit,
			},
		},
	}
}
