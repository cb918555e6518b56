// Package metadata is the client's durable key/value store. The session
// keeps the refresh token here under common.RefreshTokenStorageKey.
package metadata

import (
	"context"
)

// Repository is a string key/value store. Get returns common.ErrorNotFound
// for an absent key; Delete is idempotent.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
