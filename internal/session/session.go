// Package session persists the signed-in session (the bearer token
// and the account it belongs to) in a local SQLite database under the
// client's data directory. One row, one account: the client has no
// multi-account support.
package session

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"
	_ "github.com/mattn/go-sqlite3"

	"inviter/internal/models"
)

// ErrNoSession is returned by Load when nothing has been saved.
var ErrNoSession = errors.New("no saved session")

const schema = `
CREATE TABLE IF NOT EXISTS session (
	id       INTEGER PRIMARY KEY CHECK (id = 1),
	token    TEXT NOT NULL,
	user     TEXT NOT NULL,
	saved_at TIMESTAMP NOT NULL
);`

// Store is the on-disk session container.
type Store struct {
	db *sql.DB
}

// Open creates or opens the session database under dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dataDir, "session.db")
	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", path))
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init session db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Save replaces the stored session.
func (s *Store) Save(creds models.Credentials) error {
	user, err := json.Marshal(creds.User)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO session (id, token, user, saved_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			token = excluded.token,
			user = excluded.user,
			saved_at = excluded.saved_at`,
		creds.AccessToken, string(user), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Load returns the stored session, or ErrNoSession.
func (s *Store) Load() (models.Credentials, error) {
	var token, user string
	err := s.db.QueryRow(`SELECT token, user FROM session WHERE id = 1`).Scan(&token, &user)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Credentials{}, ErrNoSession
	}
	if err != nil {
		return models.Credentials{}, fmt.Errorf("load session: %w", err)
	}
	creds := models.Credentials{AccessToken: token}
	if err := json.Unmarshal([]byte(user), &creds.User); err != nil {
		return models.Credentials{}, fmt.Errorf("decode session user: %w", err)
	}
	return creds, nil
}

// Clear removes the stored session.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// TokenExpired reports whether the token is a JWT whose expiry has
// passed. The claims are read without signature verification: this is
// a client-side freshness hint, the server remains the authority.
// Opaque non-JWT tokens and JWTs without an exp claim never expire
// from the client's point of view.
func TokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
