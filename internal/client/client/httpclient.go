package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// User is the public user view returned by the server.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthResult is the body of register and login responses.
type AuthResult struct {
	User   User      `json:"user"`
	Tokens TokenPair `json:"tokens"`
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// AuthSessionClient talks to the auth server on behalf of one Session.
type AuthSessionClient struct {
	baseURL     string
	http        *http.Client
	session     *Session
	coordinator *RefreshCoordinator
	logger      logging.Logger
}

type Option func(*options)

type options struct {
	refreshTimeout time.Duration
	logger         logging.Logger
}

// WithRefreshTimeout bounds the shared refresh call.
func WithRefreshTimeout(d time.Duration) Option {
	return func(o *options) { o.refreshTimeout = d }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewAuthSessionClient creates a client for baseURL. httpClient may be nil,
// in which case http.DefaultClient is used.
func NewAuthSessionClient(baseURL string, httpClient *http.Client, session *Session, opts ...Option) *AuthSessionClient {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &AuthSessionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		session: session,
		logger:  o.logger,
	}
	c.coordinator = NewRefreshCoordinator(session, c.refreshTokens, o.refreshTimeout, o.logger)
	return c
}

func (c *AuthSessionClient) Session() *Session { return c.session }

func (c *AuthSessionClient) Coordinator() *RefreshCoordinator { return c.coordinator }

// Do sends an authenticated request. A 401 "unauthorized" answer triggers one
// refresh through the coordinator and one replay; a second 401 is returned
// as is. in and out may be nil.
func (c *AuthSessionClient) Do(ctx context.Context, method, path string, in, out any) error {
	body, err := marshal(in)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, func(context.Context) ([]byte, error) { return body, nil }, out)
}

// bodyFunc builds a request body. It runs again before a replay, so a body
// that depends on session state sees the state left by the refresh.
type bodyFunc func(ctx context.Context) ([]byte, error)

func (c *AuthSessionClient) do(ctx context.Context, method, path string, build bodyFunc, out any) error {
	body, err := build(ctx)
	if err != nil {
		return err
	}

	token := c.session.AccessToken()
	err = c.send(ctx, method, path, body, token, out)

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Kind != common.KindUnauthorized {
		return err
	}

	newToken, err := c.coordinator.Refresh(ctx, token)
	if err != nil {
		return err
	}

	if body, err = build(ctx); err != nil {
		return err
	}
	return c.send(ctx, method, path, body, newToken, out)
}

// Register creates an account and installs the returned tokens.
func (c *AuthSessionClient) Register(ctx context.Context, email, password, name string) (*AuthResult, error) {
	in := map[string]any{"email": email, "password": password}
	if name != "" {
		in["name"] = name
	}
	return c.authenticate(ctx, "/auth/register", in)
}

// Login installs the returned tokens on success.
func (c *AuthSessionClient) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/auth/login", map[string]any{"email": email, "password": password})
}

func (c *AuthSessionClient) authenticate(ctx context.Context, path string, in any) (*AuthResult, error) {
	body, err := marshal(in)
	if err != nil {
		return nil, err
	}

	var res AuthResult
	if err := c.send(ctx, http.MethodPost, path, body, "", &res); err != nil {
		return nil, err
	}
	if err := c.session.SetTokens(ctx, &res.Tokens); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me returns the current user.
func (c *AuthSessionClient) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.Do(ctx, http.MethodGet, "/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Logout revokes the persisted refresh token on the server, or every session
// of the user when all is set. Local state is left untouched.
//
// The token to revoke is read when the request is sent. If the access token
// has to be refreshed first, the replay carries the rotated refresh token.
func (c *AuthSessionClient) Logout(ctx context.Context, all bool) error {
	if all {
		return c.Do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	}

	return c.do(ctx, http.MethodPost, "/auth/logout", func(ctx context.Context) ([]byte, error) {
		refreshToken, err := c.session.RefreshToken(ctx)
		if err != nil {
			return nil, err
		}
		if refreshToken == "" {
			return nil, ErrNoRefreshToken
		}
		return marshal(map[string]string{"refreshToken": refreshToken})
	}, nil)
}

// refreshTokens is the coordinator's RefreshFunc.
func (c *AuthSessionClient) refreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body, err := marshal(map[string]string{"refreshToken": refreshToken})
	if err != nil {
		return nil, err
	}

	var pair TokenPair
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", body, "", &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *AuthSessionClient) send(ctx context.Context, method, path string, body []byte, token string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "http call", "method", method, "path", path, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var eb errorBody
	if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Error != "" {
		apiErr.Kind = eb.Error
		apiErr.Message = eb.Message
		return apiErr
	}

	apiErr.Message = http.StatusText(resp.StatusCode)
	if resp.StatusCode == http.StatusUnauthorized {
		apiErr.Kind = common.KindUnauthorized
	} else {
		apiErr.Kind = common.KindInternal
	}
	return apiErr
}

func marshal(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	b, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return b, nil
}
