package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"AMESAI_BACK-END/internal/models"
)

// Sentinel errors returned by store implementations. Handlers map these to
// HTTP status codes; anything else is treated as a storage failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrForbidden         = errors.New("forbidden")
)

// Users persists account records.
type Users interface {
	// Create inserts a new user. Returns ErrDuplicateUsername if the
	// username is already taken.
	Create(ctx context.Context, username, passwordHash string) (*models.User, error)

	// GetByUsername returns the user with the given username or ErrNotFound.
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// GetByID returns the user with the given id or ErrNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)

	// Update changes the username and, when passwordHash is non-empty, the
	// stored credential. Returns ErrDuplicateUsername if another user holds
	// the new username.
	Update(ctx context.Context, id uuid.UUID, username, passwordHash string) (*models.User, error)

	// Delete removes the user and cascades to all owned history entries.
	Delete(ctx context.Context, id uuid.UUID) error
}

// History persists prediction records.
type History interface {
	// Record inserts a new entry. A zero PredictedOn defaults to now.
	Record(ctx context.Context, entry *models.HistoryEntry) (*models.HistoryEntry, error)

	// List returns entries owned by ownerID, narrowed by filters and ordered
	// by sort. Entries belonging to other users are never returned.
	List(ctx context.Context, ownerID uuid.UUID, filters Filters, sort Sort) ([]models.HistoryEntry, error)

	// Get returns the entry with the given id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*models.HistoryEntry, error)

	// Delete removes a single entry. Returns ErrNotFound if no such entry
	// exists and ErrForbidden if it is owned by a different user.
	Delete(ctx context.Context, id, requesterID uuid.UUID) error
}
