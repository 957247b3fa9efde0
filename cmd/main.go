package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/cadenza/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.1.0"

// configPath honors CADENZA_CONFIG, falling back to ./config.toml.
func configPath() string {
	if path := os.Getenv("CADENZA_CONFIG"); path != "" {
		return path
	}
	return "config.toml"
}

func loadConfig(logger *log.Logger) *shared.Config {
	path := configPath()
	if _, err := os.Stat(path); err != nil {
		return shared.DefaultConfig()
	}
	config, err := shared.LoadConfig(path)
	if err != nil {
		logger.Warnf("ignoring unreadable config %s: %v", path, err)
		return shared.DefaultConfig()
	}
	return config
}

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{
		Config: loadConfig(logger),
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "cadenza",
		Usage:    "Browse and export the Spotify catalog from the terminal",
		Version:  version,
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			return
		}
		logger.Fatalf("application error: %v", err)
	}
}
