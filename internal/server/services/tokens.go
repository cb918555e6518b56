// Package services contains server-side business logic: the token lifecycle
// (TokenService) and the account use cases built on it (UserService).
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/events"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// maxIssueAttempts bounds retries when a freshly signed refresh token
// collides with a stored one.
const maxIssueAttempts = 3

// TokenService issues, rotates and revokes token pairs.
//
// A stored refresh token moves from issued to exactly one of consumed (by
// Rotate), expired (found past its expiry) or revoked (by Revoke). None of
// these transitions leaves it usable again.
type TokenService struct {
	repomanager   repomanager.RepositoryManager
	codec         *auth.TokenCodec
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
	events        events.Publisher
	metrics       *metrics.Metrics
	logger        logging.Logger
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock replaces time.Now for both the service and its codec.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithPublisher sets where logout and rejected-refresh events go.
func WithPublisher(p events.Publisher) TokenOption {
	return func(s *TokenService) { s.events = p }
}

// WithMetrics sets the counters updated by every token operation.
func WithMetrics(m *metrics.Metrics) TokenOption {
	return func(s *TokenService) { s.metrics = m }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) TokenOption {
	return func(s *TokenService) { s.logger = l }
}

// NewTokenService builds a TokenService from the secrets and lifetimes in cfg.
func NewTokenService(m repomanager.RepositoryManager, cfg *config.Config, opts ...TokenOption) *TokenService {
	s := &TokenService{
		repomanager:   m,
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenValidityDuration,
		refreshTTL:    cfg.RefreshTokenValidityDuration,
		now:           time.Now,
		events:        events.NopPublisher{},
		logger:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.codec = auth.NewTokenCodec(s.now)
	return s
}

// Issue signs a fresh pair for userID and stores the refresh token.
func (s *TokenService) Issue(ctx context.Context, userID, email string) (*models.TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.repomanager.Conn())
	return s.issue(ctx, repo, userID, email)
}

func (s *TokenService) issue(ctx context.Context, repo refreshtokens.Repository, userID, email string) (*models.TokenPair, error) {
	access, err := s.codec.Sign(auth.TokenClaims{Subject: userID, Email: email}, s.accessSecret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	for attempt := 1; ; attempt++ {
		refresh, err := s.codec.Sign(auth.TokenClaims{
			Subject: userID,
			Email:   email,
			ID:      uuid.NewString(),
		}, s.refreshSecret, s.refreshTTL)
		if err != nil {
			return nil, err
		}

		claims, err := s.codec.DecodeUnverified(refresh)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorInternal, err)
		}

		err = repo.Create(ctx, &models.RefreshToken{
			Token:     refresh,
			UserID:    userID,
			ExpiresAt: claims.ExpiresAt,
			CreatedAt: s.now(),
		})
		switch {
		case err == nil:
			s.metrics.TokenPairIssued()
			return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
		case errors.Is(err, common.ErrConflict) && attempt < maxIssueAttempts:
			s.logger.Warn(ctx, "refresh token collision, re-signing", "user_id", userID, "attempt", attempt)
		default:
			return nil, fmt.Errorf("error storing refresh token: %w", err)
		}
	}
}

// Rotate consumes presented and returns a new pair for its owner.
//
// Unknown, consumed and revoked tokens all yield ErrInvalidRefreshToken, as
// does a token owned by someone other than claimedUserID. An expired token is
// deleted and yields ErrRefreshTokenExpired. The old row is deleted before
// the new one is stored, inside one transaction.
func (s *TokenService) Rotate(ctx context.Context, presented, claimedUserID string) (*models.TokenPair, error) {
	now := s.now()
	repo := s.repomanager.RefreshTokens(s.repomanager.Conn())

	stored, err := repo.FindByValue(ctx, presented)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.reject(ctx, claimedUserID, events.ReasonUnknown, metrics.OutcomeUnknown)
			return nil, common.ErrInvalidRefreshToken
		}
		s.metrics.Rotation(metrics.OutcomeError)
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if stored.Expired(now) {
		if err := repo.DeleteByValue(ctx, presented); err != nil {
			s.logger.Error(ctx, "failed to delete expired refresh token", "user_id", stored.UserID, "error", err)
		}
		s.reject(ctx, stored.UserID, events.ReasonExpired, metrics.OutcomeExpired)
		return nil, common.ErrRefreshTokenExpired
	}

	if stored.UserID != claimedUserID {
		s.reject(ctx, claimedUserID, events.ReasonOwnerMismatch, metrics.OutcomeOwnerMismatch)
		return nil, common.ErrInvalidRefreshToken
	}

	var pair *models.TokenPair
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		txRepo := s.repomanager.RefreshTokens(tx)

		if _, err := txRepo.Consume(ctx, presented); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// lost a race with a concurrent rotation or logout
				return common.ErrInvalidRefreshToken
			}
			return fmt.Errorf("error consuming refresh token: %w", err)
		}

		user, err := s.repomanager.Users(tx).GetByID(ctx, stored.UserID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrInvalidRefreshToken
			}
			return fmt.Errorf("error loading token owner: %w", err)
		}

		pair, err = s.issue(ctx, txRepo, user.ID, user.Email)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrInvalidRefreshToken) {
			s.reject(ctx, stored.UserID, events.ReasonUnknown, metrics.OutcomeUnknown)
			return nil, err
		}
		s.metrics.Rotation(metrics.OutcomeError)
		return nil, err
	}

	s.metrics.Rotation(metrics.OutcomeSuccess)
	s.logger.Debug(ctx, "refresh token rotated", "user_id", stored.UserID)
	return pair, nil
}

// Refresh verifies presented as a refresh JWT and rotates it on behalf of
// the token's own subject. An authentic but expired token is also removed
// from the store.
func (s *TokenService) Refresh(ctx context.Context, presented string) (*models.TokenPair, error) {
	claims, err := s.VerifyRefresh(presented)
	if err != nil {
		if errors.Is(err, common.ErrRefreshTokenExpired) {
			repo := s.repomanager.RefreshTokens(s.repomanager.Conn())
			if err := repo.DeleteByValue(ctx, presented); err != nil {
				s.logger.Error(ctx, "failed to delete expired refresh token", "error", err)
			}
			s.reject(ctx, "", events.ReasonExpired, metrics.OutcomeExpired)
		} else {
			s.reject(ctx, "", events.ReasonUnknown, metrics.OutcomeUnknown)
		}
		return nil, err
	}
	return s.Rotate(ctx, presented, claims.Subject)
}

// Revoke deletes refreshToken if it belongs to userID, or every refresh
// token of userID when refreshToken is empty. Both forms are idempotent.
func (s *TokenService) Revoke(ctx context.Context, userID, refreshToken string) error {
	repo := s.repomanager.RefreshTokens(s.repomanager.Conn())

	scope := events.ScopeAll
	var revoked int64
	if refreshToken != "" {
		scope = events.ScopeSingle
		deleted, err := repo.DeleteForOwner(ctx, userID, refreshToken)
		if err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		if deleted {
			revoked = 1
		}
	} else {
		n, err := repo.DeleteAllForOwner(ctx, userID)
		if err != nil {
			return fmt.Errorf("error deleting refresh tokens: %w", err)
		}
		revoked = n
	}

	s.metrics.Revocation(scope)
	s.logger.Info(ctx, "refresh tokens revoked", "user_id", userID, "scope", scope, "revoked", revoked)
	if err := s.events.PublishLogout(ctx, events.LogoutEvent{
		UserID:  userID,
		Scope:   scope,
		Revoked: revoked,
		At:      s.now().UTC(),
	}); err != nil {
		s.logger.Warn(ctx, "failed to publish logout event", "error", err)
	}
	return nil
}

// VerifyAccess validates an access token. Every failure is ErrorUnauthorized.
func (s *TokenService) VerifyAccess(token string) (*auth.TokenClaims, error) {
	claims, err := s.codec.Verify(token, s.accessSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrorUnauthorized, err)
	}
	return claims, nil
}

// VerifyRefresh validates a refresh token's signature and expiry without
// consulting the store.
func (s *TokenService) VerifyRefresh(token string) (*auth.TokenClaims, error) {
	claims, err := s.codec.Verify(token, s.refreshSecret)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, common.ErrRefreshTokenExpired
		}
		return nil, common.ErrInvalidRefreshToken
	}
	return claims, nil
}

func (s *TokenService) reject(ctx context.Context, userID, reason, outcome string) {
	s.metrics.Rotation(outcome)
	s.logger.Warn(ctx, "refresh token rejected", "user_id", userID, "reason", reason)
	if err := s.events.PublishRefreshRejected(ctx, events.RefreshRejectedEvent{
		UserID: userID,
		Reason: reason,
		At:     s.now().UTC(),
	}); err != nil {
		s.logger.Warn(ctx, "failed to publish refresh rejection", "error", err)
	}
}
