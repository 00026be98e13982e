package store

import (
	"context"
	"errors"

	models "storefront/model"
)

// ErrNotFound is returned when no user is selected under a session key.
var ErrNotFound = errors.New("selection not found")

// Store keeps the selected user of each browser session, keyed by the
// opaque value of the session cookie.
type Store interface {
	GetSelection(ctx context.Context, key string) (models.User, error)
	SaveSelection(ctx context.Context, key string, u models.User) error
	DeleteSelection(ctx context.Context, key string) error

	Close() error
}
