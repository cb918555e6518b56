// Package services contains the use cases behind the CLI commands.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// AuthClient is the part of client.AuthSessionClient the service needs.
type AuthClient interface {
	Register(ctx context.Context, email, password, name string) (*client.AuthResult, error)
	Login(ctx context.Context, email, password string) (*client.AuthResult, error)
	Me(ctx context.Context) (*client.User, error)
	Logout(ctx context.Context, all bool) error
	Session() *client.Session
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register / Login: authenticate against the server; the session keeps
//     the returned tokens.
//   - Me: fetch the current user, refreshing the session transparently.
//   - Logout: revoke remotely if possible, always forget local tokens.
//   - LoggedIn: whether a refresh token is persisted.
type AuthService interface {
	Register(ctx context.Context, email string, password []byte, name string) (*client.User, error)
	Login(ctx context.Context, email string, password []byte) (*client.User, error)
	Me(ctx context.Context) (*client.User, error)
	Logout(ctx context.Context, all bool) error
	LoggedIn(ctx context.Context) bool
}

type authService struct {
	client AuthClient
	logger logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client.
func NewAuthService(c AuthClient, logger logging.Logger) AuthService {
	if logger == nil {
		logger = logging.Discard()
	}
	return &authService{client: c, logger: logger}
}

func (a *authService) Register(ctx context.Context, email string, password []byte, name string) (*client.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	res, err := a.client.Register(ctx, email, string(password), strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("register error: %w", err)
	}
	return &res.User, nil
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*client.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || len(password) == 0 {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrValidation)
	}

	res, err := a.client.Login(ctx, email, string(password))
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return &res.User, nil
}

func (a *authService) Me(ctx context.Context) (*client.User, error) {
	return a.client.Me(ctx)
}

// Logout asks the server to revoke the current refresh token, or all of the
// user's tokens when all is set. A remote failure is logged and otherwise
// ignored; the local session is cleared in every case and only a local
// failure is returned.
func (a *authService) Logout(ctx context.Context, all bool) error {
	if err := a.client.Logout(ctx, all); err != nil && !errors.Is(err, client.ErrSessionExpired) {
		a.logger.Warn(ctx, "remote logout failed", "all", all, "error", err)
	}

	if err := a.client.Session().Clear(ctx); err != nil {
		return fmt.Errorf("logout error: %w", err)
	}
	return nil
}

func (a *authService) LoggedIn(ctx context.Context) bool {
	return a.client.Session().LoggedIn(ctx)
}
