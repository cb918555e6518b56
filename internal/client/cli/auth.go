package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for email, password and an optional display name and
// creates the account. The new session is active on success.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	name, err := getSimpleText(a.reader, "Enter name (optional)", os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.authService.Register(ctx, email, password, name)
	if err != nil {
		return err
	}

	a.setUserName(user.Email)
	printlnFn("Registered as", user.Email)
	return nil
}

// Login prompts the user for credentials and authenticates.
//
// The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	user, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.setUserName(user.Email)
	printlnFn("Logged in as", user.Email)
	return nil
}

// Me prints the current user.
func (a *App) Me(ctx context.Context) error {
	user, err := a.authService.Me(ctx)
	if err != nil {
		return err
	}

	a.setUserName(user.Email)
	name := "-"
	if user.Name != nil {
		name = *user.Name
	}
	printlnFn(fmt.Sprintf("id: %s\nemail: %s\nname: %s\ncreated: %s",
		user.ID, user.Email, name, user.CreatedAt.Local().Format("2006-01-02 15:04:05")))
	return nil
}

// Logout ends this session.
func (a *App) Logout(ctx context.Context) error {
	return a.logout(ctx, false)
}

// LogoutAll ends every session of the user.
func (a *App) LogoutAll(ctx context.Context) error {
	return a.logout(ctx, true)
}

func (a *App) logout(ctx context.Context, all bool) error {
	if err := a.authService.Logout(ctx, all); err != nil {
		return err
	}
	a.setUserName("")
	printlnFn("Logged out")
	return nil
}

// describeError turns client and server errors into a short message.
func describeError(err error) string {
	switch {
	case errors.Is(err, client.ErrSessionExpired):
		return "session expired, please log in again"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, common.ErrEmailConflict):
		return "email is already registered"
	case errors.Is(err, common.ErrorUnauthorized):
		return "not logged in"
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
