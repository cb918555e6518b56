// Package common defines shared constants and sentinel errors used across
// client and server layers of GophAuth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrValidation     = errors.New("validation error")

	// Credential errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailConflict      = errors.New("email already registered")

	// Codec errors.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrSigning          = errors.New("token signing failed")

	// Refresh token lifecycle errors.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
)

// Error kinds are the stable identifiers sent over the wire.
const (
	KindInvalidCredentials  = "invalid_credentials"
	KindEmailConflict       = "email_conflict"
	KindInvalidRefreshToken = "invalid_refresh_token"
	KindRefreshTokenExpired = "refresh_token_expired"
	KindUnauthorized        = "unauthorized"
	KindValidation          = "validation_error"
	KindInternal            = "internal_error"
)

var kinds = []struct {
	err  error
	kind string
}{
	{ErrInvalidCredentials, KindInvalidCredentials},
	{ErrEmailConflict, KindEmailConflict},
	{ErrInvalidRefreshToken, KindInvalidRefreshToken},
	{ErrRefreshTokenExpired, KindRefreshTokenExpired},
	{ErrorUnauthorized, KindUnauthorized},
	{ErrValidation, KindValidation},
}

// KindOf returns the wire kind for err. Anything outside the taxonomy is
// reported as KindInternal.
func KindOf(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// ErrorForKind is the inverse of KindOf. Unknown kinds map to ErrorInternal.
func ErrorForKind(kind string) error {
	for _, k := range kinds {
		if k.kind == kind {
			return k.err
		}
	}
	return ErrorInternal
}
