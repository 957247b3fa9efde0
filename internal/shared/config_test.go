package shared

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("ParsesAllSections", func(t *testing.T) {
		path := writeConfig(t, `
[credentials]
client_id = "my-id"
client_secret = "my-secret"
redirect_uri = "http://127.0.0.1:8080/callback"
scope = "user-read-private playlist-read-private"

[cache]
backend = "sqlite"
path = "tokens.db"

[client]
timeout_seconds = 15
max_retries = 2
rate_limit = 4.5
`)

		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Credentials.ClientID != "my-id" || config.Credentials.ClientSecret != "my-secret" {
			t.Errorf("unexpected credentials: %+v", config.Credentials)
		}
		if config.Cache.Backend != "sqlite" || config.Cache.Path != "tokens.db" {
			t.Errorf("unexpected cache config: %+v", config.Cache)
		}
		if config.Client.TimeoutSeconds != 15 || config.Client.MaxRetries != 2 || config.Client.RateLimit != 4.5 {
			t.Errorf("unexpected client config: %+v", config.Client)
		}
	})

	t.Run("EnvironmentFillsEmptyCredentials", func(t *testing.T) {
		t.Setenv(EnvClientID, "env-id")
		t.Setenv(EnvClientSecret, "env-secret")
		t.Setenv(EnvRedirectURI, "http://localhost:9000/cb")

		path := writeConfig(t, `
[credentials]
client_id = "file-id"
`)
		config, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig failed: %v", err)
		}
		if config.Credentials.ClientID != "file-id" {
			t.Error("file values should win over the environment")
		}
		if config.Credentials.ClientSecret != "env-secret" {
			t.Error("empty fields should fall back to the environment")
		}
		if config.Credentials.RedirectURI != "http://localhost:9000/cb" {
			t.Errorf("redirect = %q", config.Credentials.RedirectURI)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("MalformedTOML", func(t *testing.T) {
		path := writeConfig(t, "not [valid toml")
		if _, err := LoadConfig(path); err == nil {
			t.Error("expected a parse error")
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv(EnvClientID, "")
	t.Setenv(EnvClientSecret, "")
	t.Setenv(EnvRedirectURI, "")

	config := DefaultConfig()
	if config == nil {
		t.Fatal("DefaultConfig returned nil")
	}
	if config.Client.TimeoutSeconds <= 0 {
		t.Error("embedded defaults should set a timeout")
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	original := &Config{
		Credentials: CredentialsConfig{ClientID: "saved-id"},
		Cache:       CacheConfig{Backend: "file", Path: "token.json"},
		Client:      ClientConfig{TimeoutSeconds: 20},
	}

	if err := SaveConfig(path, original); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Credentials.ClientID != "saved-id" || loaded.Cache.Backend != "file" || loaded.Client.TimeoutSeconds != 20 {
		t.Errorf("round-trip mismatch: %+v", loaded)
	}
}

func TestCreateConfigFile(t *testing.T) {
	t.Run("WritesExample", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		if err := CreateConfigFile(path); err != nil {
			t.Fatalf("CreateConfigFile failed: %v", err)
		}
		if _, err := LoadConfig(path); err != nil {
			t.Errorf("generated file should parse: %v", err)
		}
	})

	t.Run("RefusesToOverwrite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.toml")
		os.WriteFile(path, []byte("existing"), 0644)

		if err := CreateConfigFile(path); !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("want ErrInvalidArgument for an existing file, got %v", err)
		}
	})
}
