package store

import (
	"context"
	"errors"

	"github.com/quietwire/courier/internal/api/domain"
	"github.com/quietwire/courier/pkg/idx"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and testable.
type Store interface {
	Users() Users
	Messages() Messages

	ApplyMigrations() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}

type Users interface {
	// CreateUser inserts a new user (id is provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id idx.ID) (domain.User, error)

	// GetUserByEmail is used during login; email matching is case-insensitive.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// SearchUsers matches name or email against the query, excluding the
	// searching user, ordered by first name. Empty query returns everyone
	// else up to limit.
	SearchUsers(ctx context.Context, query string, exclude idx.ID, limit int) ([]domain.User, error)

	// DeleteUser cascades to messages (per schema).
	DeleteUser(ctx context.Context, id idx.ID) error
}

type Messages interface {
	// CreateMessage inserts a new direct message.
	CreateMessage(ctx context.Context, m domain.Message) error

	// ListThreads returns one entry per conversation partner, carrying the
	// most recent message, newest conversation first.
	ListThreads(ctx context.Context, userID idx.ID) ([]domain.Thread, error)

	// ListConversation returns the history between two users in
	// chronological order, capped at limit messages.
	ListConversation(ctx context.Context, userID, peerID idx.ID, limit int) ([]domain.Message, error)
}
