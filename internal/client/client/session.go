package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// TokenPair mirrors the server's token pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Session is the single logical session of the client process. The access
// token lives only in memory, so a restarted process starts without one and
// recovers it from the persisted refresh token on its first 401.
type Session struct {
	mu          sync.RWMutex
	accessToken string
	generation  uint64
	store       metadata.Repository
}

func NewSession(store metadata.Repository) *Session {
	return &Session{store: store}
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *Session) ClearAccessToken() {
	s.SetAccessToken("")
}

// Generation changes every time tokens are installed or cleared.
func (s *Session) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// RefreshToken returns the persisted refresh token, or "" if there is none.
func (s *Session) RefreshToken(ctx context.Context) (string, error) {
	token, err := s.store.Get(ctx, common.RefreshTokenStorageKey)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read refresh token: %w", err)
	}
	return token, nil
}

// SetTokens persists the refresh token, then installs the access token.
func (s *Session) SetTokens(ctx context.Context, pair *TokenPair) error {
	if err := s.store.Set(ctx, common.RefreshTokenStorageKey, pair.RefreshToken); err != nil {
		return fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.mu.Lock()
	s.accessToken = pair.AccessToken
	s.generation++
	s.mu.Unlock()
	return nil
}

// Clear drops both tokens. The access token is cleared even when removing
// the persisted refresh token fails.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.accessToken = ""
	s.generation++
	s.mu.Unlock()

	if err := s.store.Delete(ctx, common.RefreshTokenStorageKey); err != nil {
		return fmt.Errorf("failed to remove refresh token: %w", err)
	}
	return nil
}

// LoggedIn reports whether a refresh token is persisted.
func (s *Session) LoggedIn(ctx context.Context) bool {
	token, err := s.RefreshToken(ctx)
	return err == nil && token != ""
}
