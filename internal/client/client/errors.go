package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/common"
)

var (
	ErrUnavailable    = errors.New("server unavailable")
	ErrSessionExpired = errors.New("session expired, please log in again")
	ErrNoRefreshToken = errors.New("no refresh token")
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Kind    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
}

// Unwrap lets callers match the response with errors.Is against the common
// sentinels.
func (e *APIError) Unwrap() error {
	return common.ErrorForKind(e.Kind)
}
