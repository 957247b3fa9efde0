package auth

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"
)

// FileTokenCache persists a single token as a JSON file.
//
// The file stores access_token (string), expires_at (unix seconds, number),
// and optionally refresh_token and scope. A missing or corrupt file is a
// cache miss, never an error; optional fields with the wrong type are
// dropped individually rather than failing the whole load.
type FileTokenCache struct {
	path string
}

// NewFileTokenCache creates a cache backed by the JSON file at path.
func NewFileTokenCache(path string) *FileTokenCache {
	return &FileTokenCache{path: path}
}

// Path returns the location of the backing file.
func (c *FileTokenCache) Path() string {
	return c.path
}

// Get reads the cached token, returning nil on any read or parse failure.
func (c *FileTokenCache) Get() *TokenInfo {
	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil
	}

	accessToken, ok := payload["access_token"].(string)
	if !ok || accessToken == "" {
		return nil
	}
	expiresAt, ok := payload["expires_at"].(float64)
	if !ok {
		return nil
	}

	token := &TokenInfo{
		AccessToken: accessToken,
		ExpiresAt:   unixSecondsToTime(expiresAt),
	}
	if refresh, ok := payload["refresh_token"].(string); ok {
		token.RefreshToken = refresh
	}
	if scope, ok := payload["scope"].(string); ok {
		token.Scope = scope
	}
	return token
}

// Set writes the token to disk, creating parent directories as needed.
//
// File permissions are restricted to the owner after the write; a chmod
// failure is not fatal.
func (c *FileTokenCache) Set(token *TokenInfo) error {
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	payload := map[string]any{
		"access_token": token.AccessToken,
		"expires_at":   timeToUnixSeconds(token.ExpiresAt),
	}
	if token.RefreshToken != "" {
		payload["refresh_token"] = token.RefreshToken
	}
	if token.Scope != "" {
		payload["scope"] = token.Scope
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	if err := os.WriteFile(c.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	// Covers a pre-existing file created with looser permissions.
	_ = os.Chmod(c.path, 0600)

	return nil
}

func unixSecondsToTime(seconds float64) time.Time {
	sec, frac := math.Modf(seconds)
	return time.Unix(int64(sec), int64(frac*float64(time.Second)))
}

func timeToUnixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
