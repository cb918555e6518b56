// Package auth signs and verifies the JWTs used as access and refresh tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the JWT payload: sub, email, iat, exp and an optional jti.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenClaims is the decoded, library-independent view of a token.
type TokenClaims struct {
	Subject   string
	Email     string
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec is stateless apart from its clock. Secrets are passed per call
// so that access and refresh tokens can never be verified with each other's key.
type TokenCodec struct {
	now func() time.Time
}

// NewTokenCodec returns a codec reading time from now, or from time.Now when
// now is nil.
func NewTokenCodec(now func() time.Time) *TokenCodec {
	if now == nil {
		now = time.Now
	}
	return &TokenCodec{now: now}
}

// Sign issues an HS256 token for c with iat = now and exp = iat + ttl.
// JWT timestamps have second precision, so iat is truncated first.
func (c *TokenCodec) Sign(claims TokenClaims, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", fmt.Errorf("%w: empty secret", common.ErrSigning)
	}

	issuedAt := c.now().Truncate(time.Second)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ID:        claims.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Email: claims.Email,
	})

	s, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrSigning, err)
	}
	return s, nil
}

// Verify checks the signature against secret and the expiry against a single
// clock reading. It returns common.ErrTokenExpired or common.ErrInvalidSignature.
func (c *TokenCodec) Verify(tokenString string, secret []byte) (*TokenClaims, error) {
	now := c.now()

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidSignature, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", common.ErrInvalidSignature)
	}

	return toTokenClaims(claims), nil
}

// DecodeUnverified reads claims without checking the signature. It exists for
// storage bookkeeping only and must never back an authorization decision.
func (c *TokenCodec) DecodeUnverified(tokenString string) (*TokenClaims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("decode token: %w", err)
	}
	return toTokenClaims(claims), nil
}

func toTokenClaims(c *Claims) *TokenClaims {
	tc := &TokenClaims{Subject: c.Subject, Email: c.Email, ID: c.ID}
	if c.IssuedAt != nil {
		tc.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		tc.ExpiresAt = c.ExpiresAt.Time
	}
	return tc
}
