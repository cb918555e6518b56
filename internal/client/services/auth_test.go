package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient implements AuthClient for AuthService unit tests.
type fakeClient struct {
	session *client.Session

	RegisterErr error
	LoginErr    error
	MeErr       error
	LogoutErr   error

	LastEmail    string
	LastPassword string
	LastName     string
	LogoutAll    []bool
}

func newFakeClient(t *testing.T) *fakeClient {
	t.Helper()
	return &fakeClient{session: client.NewSession(metadata.NewMemoryRepository())}
}

func (f *fakeClient) result(ctx context.Context, email string) (*client.AuthResult, error) {
	pair := client.TokenPair{AccessToken: "a", RefreshToken: "r"}
	if err := f.session.SetTokens(ctx, &pair); err != nil {
		return nil, err
	}
	return &client.AuthResult{User: client.User{ID: "u1", Email: email}, Tokens: pair}, nil
}

func (f *fakeClient) Register(ctx context.Context, email, password, name string) (*client.AuthResult, error) {
	f.LastEmail, f.LastPassword, f.LastName = email, password, name
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return f.result(ctx, email)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*client.AuthResult, error) {
	f.LastEmail, f.LastPassword = email, password
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.result(ctx, email)
}

func (f *fakeClient) Me(ctx context.Context) (*client.User, error) {
	if f.MeErr != nil {
		return nil, f.MeErr
	}
	return &client.User{ID: "u1", Email: f.LastEmail}, nil
}

func (f *fakeClient) Logout(ctx context.Context, all bool) error {
	f.LogoutAll = append(f.LogoutAll, all)
	return f.LogoutErr
}

func (f *fakeClient) Session() *client.Session { return f.session }

func TestRegister(t *testing.T) {
	ctx := context.Background()
	f := newFakeClient(t)
	svc := NewAuthService(f, nil)

	u, err := svc.Register(ctx, "  alice@example.org ", []byte("secret1"), " Alice ")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "alice@example.org", f.LastEmail)
	assert.Equal(t, "secret1", f.LastPassword)
	assert.Equal(t, "Alice", f.LastName)
	assert.True(t, svc.LoggedIn(ctx))
}

func TestRegister_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing input", func(t *testing.T) {
		svc := NewAuthService(newFakeClient(t), nil)
		_, err := svc.Register(ctx, "", []byte("secret1"), "")
		require.ErrorIs(t, err, common.ErrValidation)
		_, err = svc.Register(ctx, "a@b.c", nil, "")
		require.ErrorIs(t, err, common.ErrValidation)
	})

	t.Run("server conflict", func(t *testing.T) {
		f := newFakeClient(t)
		f.RegisterErr = &client.APIError{Status: 409, Kind: common.KindEmailConflict, Message: "Email already registered"}
		svc := NewAuthService(f, nil)

		_, err := svc.Register(ctx, "a@b.c", []byte("secret1"), "")
		require.ErrorIs(t, err, common.ErrEmailConflict)
		assert.False(t, svc.LoggedIn(ctx))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFakeClient(t)
		svc := NewAuthService(f, nil)

		u, err := svc.Login(ctx, "a@b.c", []byte("secret1"))
		require.NoError(t, err)
		assert.Equal(t, "a@b.c", u.Email)
		assert.True(t, svc.LoggedIn(ctx))
	})

	t.Run("invalid credentials", func(t *testing.T) {
		f := newFakeClient(t)
		f.LoginErr = &client.APIError{Status: 401, Kind: common.KindInvalidCredentials}
		svc := NewAuthService(f, nil)

		_, err := svc.Login(ctx, "a@b.c", []byte("wrong"))
		require.ErrorIs(t, err, common.ErrInvalidCredentials)
		assert.False(t, svc.LoggedIn(ctx))
	})

	t.Run("missing input", func(t *testing.T) {
		svc := NewAuthService(newFakeClient(t), nil)
		_, err := svc.Login(ctx, " ", []byte("x"))
		require.ErrorIs(t, err, common.ErrValidation)
	})
}

func TestMe(t *testing.T) {
	f := newFakeClient(t)
	f.MeErr = client.ErrSessionExpired
	svc := NewAuthService(f, nil)

	_, err := svc.Me(context.Background())
	require.ErrorIs(t, err, client.ErrSessionExpired)
}

func TestLogout_AlwaysClearsLocalState(t *testing.T) {
	tests := []struct {
		name      string
		all       bool
		remoteErr error
	}{
		{name: "single", all: false},
		{name: "all", all: true},
		{name: "server unavailable", remoteErr: client.ErrUnavailable},
		{name: "already expired", remoteErr: client.ErrSessionExpired},
		{name: "no refresh token", remoteErr: client.ErrNoRefreshToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			f := newFakeClient(t)
			f.LogoutErr = tt.remoteErr
			svc := NewAuthService(f, nil)

			_, err := svc.Login(ctx, "a@b.c", []byte("secret1"))
			require.NoError(t, err)

			require.NoError(t, svc.Logout(ctx, tt.all))
			assert.Equal(t, []bool{tt.all}, f.LogoutAll)
			assert.False(t, svc.LoggedIn(ctx))
			assert.Empty(t, f.Session().AccessToken())
		})
	}
}

type brokenStore struct{ metadata.Repository }

func (brokenStore) Delete(context.Context, string) error { return errors.New("disk full") }

func TestLogout_LocalFailureReturned(t *testing.T) {
	f := &fakeClient{session: client.NewSession(brokenStore{metadata.NewMemoryRepository()})}
	svc := NewAuthService(f, nil)

	err := svc.Logout(context.Background(), false)
	require.Error(t, err)
	assert.Empty(t, f.Session().AccessToken())
}
