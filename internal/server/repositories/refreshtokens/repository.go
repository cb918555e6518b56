// Package refreshtokens declares the server-side repository contract for
// refresh tokens and its PostgreSQL and in-memory implementations.
package refreshtokens

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository stores issued refresh tokens keyed by token value. At most one
// row exists per value.
type Repository interface {
	// Create stores a new token. It returns common.ErrConflict if the value
	// is already present.
	Create(ctx context.Context, token *models.RefreshToken) error

	// FindByValue returns common.ErrorNotFound when the token is absent.
	FindByValue(ctx context.Context, token string) (*models.RefreshToken, error)

	// Consume atomically deletes the token and returns the deleted row. Of
	// several concurrent callers presenting the same value exactly one gets
	// the row; the others get common.ErrorNotFound.
	Consume(ctx context.Context, token string) (*models.RefreshToken, error)

	// DeleteByValue is idempotent.
	DeleteByValue(ctx context.Context, token string) error

	// DeleteForOwner deletes token only if it belongs to userID and reports
	// whether a row was removed.
	DeleteForOwner(ctx context.Context, userID, token string) (bool, error)

	// DeleteAllForOwner is idempotent and returns the number of rows removed.
	DeleteAllForOwner(ctx context.Context, userID string) (int64, error)
}
