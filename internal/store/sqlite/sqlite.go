package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/linechat-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS groups (
	name       TEXT PRIMARY KEY,
	created_by TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS users (
	username   TEXT PRIMARY KEY,
	first_seen DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	last_seen  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore implements store.Store for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLite store and applies the schema.
// dbPath is the path to the SQLite database file.
func New(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ==== GroupStore implementation ====

// SaveGroup inserts a group record.
func (s *SQLiteStore) SaveGroup(ctx context.Context, g *store.Group) error {
	query := `
		INSERT INTO groups (name, created_by, created_at)
		VALUES (?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, g.Name, g.CreatedBy, g.CreatedAt); err != nil {
		return fmt.Errorf("insert group: %w", err)
	}
	return nil
}

// ListGroups returns all known groups ordered by name.
func (s *SQLiteStore) ListGroups(ctx context.Context) ([]*store.Group, error) {
	query := `
		SELECT name, created_by, created_at
		FROM groups
		ORDER BY name
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	var groups []*store.Group
	for rows.Next() {
		var g store.Group
		if err := rows.Scan(&g.Name, &g.CreatedBy, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, &g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}

	return groups, nil
}

// ==== UserStore implementation ====

// TouchUser upserts a username, bumping last_seen on repeat visits.
func (s *SQLiteStore) TouchUser(ctx context.Context, username string) error {
	query := `
		INSERT INTO users (username)
		VALUES (?)
		ON CONFLICT(username) DO UPDATE SET last_seen = CURRENT_TIMESTAMP
	`
	if _, err := s.db.ExecContext(ctx, query, username); err != nil {
		return fmt.Errorf("touch user: %w", err)
	}
	return nil
}

// ListUsers returns all usernames ever seen, ordered by name.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*store.User, error) {
	query := `
		SELECT username, first_seen, last_seen
		FROM users
		ORDER BY username
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []*store.User
	for rows.Next() {
		var u store.User
		if err := rows.Scan(&u.Username, &u.FirstSeen, &u.LastSeen); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}
