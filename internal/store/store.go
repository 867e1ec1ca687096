package store

import (
	"context"
	"time"
)

// Group is a persisted group-chat record. Only the name and creator are
// stored; live membership exists in memory for the lifetime of the
// member sessions.
type Group struct {
	Name      string
	CreatedBy string
	CreatedAt time.Time
}

// User is a bookkeeping record of a username seen by the server.
type User struct {
	Username  string
	FirstSeen time.Time
	LastSeen  time.Time
}

// GroupStore handles group persistence.
type GroupStore interface {
	// SaveGroup inserts a group record. Saving an existing name is an error.
	SaveGroup(ctx context.Context, g *Group) error

	// ListGroups returns all known groups ordered by name.
	ListGroups(ctx context.Context) ([]*Group, error)
}

// UserStore handles username bookkeeping.
type UserStore interface {
	// TouchUser records that the username connected now, inserting it on
	// first sight and bumping last_seen otherwise.
	TouchUser(ctx context.Context, username string) error

	// ListUsers returns all usernames ever seen, ordered by name.
	ListUsers(ctx context.Context) ([]*User, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	GroupStore
	UserStore

	// Close closes the underlying database connection.
	Close() error
}
