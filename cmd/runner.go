package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadenza"
	"github.com/desertthunder/cadenza/auth"
	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config *shared.Config
	logger *log.Logger
	output io.Writer

	client *cadenza.Client
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config *shared.Config
	Logger *log.Logger
	Output io.Writer

	// Client overrides the lazily built API client, used by tests.
	Client *cadenza.Client
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config: opts.Config,
		logger: opts.Logger,
		output: opts.Output,
		client: opts.Client,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		loginCommand, tokenCommand, albumCommand, artistCommand, trackCommand,
		playlistCommand, searchCommand, libraryCommand, newReleasesCommand,
		meCommand, exportCommand, configCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// tokenCache builds the token store the config names. Unknown backends fall
// back to an in-memory cache that lives for one invocation.
func (r *Runner) tokenCache() (auth.TokenCache, error) {
	switch strings.ToLower(r.config.Cache.Backend) {
	case "file", "":
		path := r.config.Cache.Path
		if path == "" {
			path = "cadenza_token.json"
		}
		return auth.NewFileTokenCache(path), nil
	case "sqlite":
		path := r.config.Cache.Path
		if path == "" {
			path = "cadenza.db"
		}
		return auth.NewSQLiteTokenCache(path)
	default:
		return auth.NewMemoryTokenCache(), nil
	}
}

// userProvider builds an authorization-code provider backed by the
// configured token cache.
func (r *Runner) userProvider() (*auth.AuthorizationCode, error) {
	cache, err := r.tokenCache()
	if err != nil {
		return nil, fmt.Errorf("failed to open token cache: %w", err)
	}

	return auth.NewAuthorizationCode(auth.AuthorizationCodeOptions{
		Options: auth.Options{
			ClientID:     r.config.Credentials.ClientID,
			ClientSecret: r.config.Credentials.ClientSecret,
			TokenCache:   cache,
			Timeout:      time.Duration(r.config.Client.TimeoutSeconds) * time.Second,
			MaxRetries:   r.config.Client.MaxRetries,
			Logger:       r.logger,
		},
		RedirectURI: r.config.Credentials.RedirectURI,
		Scope:       strings.Fields(r.config.Credentials.Scope),
	})
}

// appProvider builds a client-credentials provider for catalog-only calls.
func (r *Runner) appProvider() (*auth.ClientCredentials, error) {
	return auth.NewClientCredentials(auth.Options{
		ClientID:     r.config.Credentials.ClientID,
		ClientSecret: r.config.Credentials.ClientSecret,
		Timeout:      time.Duration(r.config.Client.TimeoutSeconds) * time.Second,
		MaxRetries:   r.config.Client.MaxRetries,
		Logger:       r.logger,
	})
}

// apiClient lazily builds the API client. userAuth selects the
// authorization-code provider; catalog commands use app credentials.
func (r *Runner) apiClient(userAuth bool) (*cadenza.Client, error) {
	if r.client != nil {
		return r.client, nil
	}

	var provider cadenza.TokenProvider
	var err error
	if userAuth {
		provider, err = r.userProvider()
	} else {
		provider, err = r.appProvider()
	}
	if err != nil {
		return nil, err
	}

	client, err := cadenza.NewClient(cadenza.Options{
		Provider:   provider,
		Timeout:    time.Duration(r.config.Client.TimeoutSeconds) * time.Second,
		MaxRetries: r.config.Client.MaxRetries,
		RateLimit:  r.config.Client.RateLimit,
		Logger:     r.logger,
	})
	if err != nil {
		return nil, err
	}
	r.client = client
	return client, nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// artistNames joins artist credits for display.
func artistNames(artists []cadenza.SimplifiedArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	if len(names) == 0 {
		return "Unknown artist"
	}
	return strings.Join(names, ", ")
}
