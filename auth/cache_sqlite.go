package auth

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/cadenza/internal/shared"
)

const tokenSchema = `
CREATE TABLE IF NOT EXISTS tokens (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	access_token TEXT NOT NULL,
	expires_at REAL NOT NULL,
	refresh_token TEXT,
	scope TEXT
);`

// SQLiteTokenCache persists a single token in a SQLite database.
//
// Useful when several tools on one machine share a credential and the
// database already exists; semantics match [FileTokenCache].
type SQLiteTokenCache struct {
	db *sql.DB
}

// NewSQLiteTokenCache opens (or creates) the database at path and ensures
// the token table exists. The path can be ":memory:".
func NewSQLiteTokenCache(path string) (*SQLiteTokenCache, error) {
	db, err := shared.NewDatabase(path)
	if err != nil {
		return nil, err
	}
	// A single-row token table never needs more than one writer.
	shared.ConfigureDatabase(db, 1, 1)

	if _, err := db.Exec(tokenSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create token table: %w", err)
	}

	return &SQLiteTokenCache{db: db}, nil
}

// Get reads the stored token, returning nil on any failure.
func (c *SQLiteTokenCache) Get() *TokenInfo {
	row := c.db.QueryRow(
		`SELECT access_token, expires_at, refresh_token, scope FROM tokens WHERE id = 1`,
	)

	var (
		accessToken string
		expiresAt   float64
		refresh     sql.NullString
		scope       sql.NullString
	)
	if err := row.Scan(&accessToken, &expiresAt, &refresh, &scope); err != nil {
		return nil
	}
	if accessToken == "" {
		return nil
	}

	return &TokenInfo{
		AccessToken:  accessToken,
		ExpiresAt:    unixSecondsToTime(expiresAt),
		RefreshToken: refresh.String,
		Scope:        scope.String,
	}
}

// Set upserts the token row.
func (c *SQLiteTokenCache) Set(token *TokenInfo) error {
	_, err := c.db.Exec(
		`INSERT INTO tokens (id, access_token, expires_at, refresh_token, scope)
		 VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			expires_at = excluded.expires_at,
			refresh_token = excluded.refresh_token,
			scope = excluded.scope`,
		token.AccessToken,
		timeToUnixSeconds(token.ExpiresAt),
		nullable(token.RefreshToken),
		nullable(token.Scope),
	)
	if err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Close releases the underlying database connection.
func (c *SQLiteTokenCache) Close() error {
	return c.db.Close()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
