package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Environment variables consulted when explicit credentials are absent.
const (
	EnvClientID     = "SPOTIFY_CLIENT_ID"
	EnvClientSecret = "SPOTIFY_CLIENT_SECRET"
	EnvRedirectURI  = "SPOTIFY_REDIRECT_URI"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Cache       CacheConfig       `toml:"cache"`
	Client      ClientConfig      `toml:"client"`
}

// CredentialsConfig contains Spotify API credentials.
type CredentialsConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	Scope        string `toml:"scope"`
}

// CacheConfig controls where tokens are persisted between runs.
type CacheConfig struct {
	// Backend is "file" or "sqlite". Anything else falls back to in-memory.
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
}

// ClientConfig contains HTTP client settings.
type ClientConfig struct {
	TimeoutSeconds int     `toml:"timeout_seconds"`
	MaxRetries     int     `toml:"max_retries"`
	RateLimit      float64 `toml:"rate_limit"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// applyEnv fills empty credential fields from the environment.
func (c *Config) applyEnv() {
	if c.Credentials.ClientID == "" {
		c.Credentials.ClientID = os.Getenv(EnvClientID)
	}
	if c.Credentials.ClientSecret == "" {
		c.Credentials.ClientSecret = os.Getenv(EnvClientSecret)
	}
	if c.Credentials.RedirectURI == "" {
		c.Credentials.RedirectURI = os.Getenv(EnvRedirectURI)
	}
}

// SaveConfig writes the configuration to a TOML file at the specified path.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidArgument, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
