package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// RefreshFunc exchanges a refresh token for a new pair.
type RefreshFunc func(ctx context.Context, refreshToken string) (*TokenPair, error)

type refreshOutcome struct {
	accessToken string
	err         error
}

// RefreshCoordinator makes sure at most one refresh call is in flight.
// Callers arriving while one runs are queued and receive its outcome in
// arrival order; none of them triggers a second call.
type RefreshCoordinator struct {
	session   *Session
	refresh   RefreshFunc
	timeout   time.Duration
	onExpired func(error)
	logger    logging.Logger

	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshOutcome

	// expiredAt is the session generation left by the last failed refresh.
	// Zero means no refresh has failed yet.
	expiredAt uint64
}

// NewRefreshCoordinator returns a coordinator for session. A positive
// timeout bounds each refresh call.
func NewRefreshCoordinator(session *Session, refresh RefreshFunc, timeout time.Duration, logger logging.Logger) *RefreshCoordinator {
	if logger == nil {
		logger = logging.Discard()
	}
	return &RefreshCoordinator{
		session: session,
		refresh: refresh,
		timeout: timeout,
		logger:  logger,
	}
}

// OnSessionExpired registers fn to run after a failed refresh has torn the
// session down.
func (c *RefreshCoordinator) OnSessionExpired(fn func(error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onExpired = fn
}

// Refresh is called after a request sent with staleToken got a 401. It
// returns the access token to replay the request with.
//
// If another refresh already replaced staleToken, the current token is
// returned without calling the server. On failure the session is cleared
// and the error wraps ErrSessionExpired. Until new tokens are installed,
// later calls fail the same way without calling the server or the
// OnSessionExpired hook again.
//
// The refresh call itself does not inherit ctx's cancellation: one caller
// giving up must not fail the refresh for everybody else. A queued caller
// whose ctx ends stops waiting; the refresh still completes.
func (c *RefreshCoordinator) Refresh(ctx context.Context, staleToken string) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		ch := make(chan refreshOutcome, 1)
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case out := <-ch:
			return out.accessToken, out.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	current := c.session.AccessToken()
	if current != "" && current != staleToken {
		c.mu.Unlock()
		return current, nil
	}

	// A 401 arriving after a failed refresh already cleared the session:
	// nothing was installed since, so there is nothing left to refresh with.
	if current == "" && c.expiredAt != 0 && c.expiredAt == c.session.Generation() {
		c.mu.Unlock()
		return "", fmt.Errorf("%w: %w", ErrSessionExpired, ErrNoRefreshToken)
	}

	c.refreshing = true
	c.mu.Unlock()

	token, err := c.run(ctx)

	c.mu.Lock()
	if err != nil {
		c.expiredAt = c.session.Generation()
	}
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	onExpired := c.onExpired
	c.mu.Unlock()

	for _, w := range waiters {
		w <- refreshOutcome{accessToken: token, err: err}
	}

	if err != nil && onExpired != nil {
		onExpired(err)
	}
	return token, err
}

func (c *RefreshCoordinator) run(ctx context.Context) (string, error) {
	ctx = context.WithoutCancel(ctx)
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	refreshToken, err := c.session.RefreshToken(ctx)
	if err != nil {
		return "", c.teardown(ctx, err)
	}
	if refreshToken == "" {
		return "", c.teardown(ctx, ErrNoRefreshToken)
	}

	pair, err := c.refresh(ctx, refreshToken)
	if err != nil {
		return "", c.teardown(ctx, err)
	}

	if err := c.session.SetTokens(ctx, pair); err != nil {
		return "", c.teardown(ctx, err)
	}

	c.logger.Debug(ctx, "session refreshed")
	return pair.AccessToken, nil
}

func (c *RefreshCoordinator) teardown(ctx context.Context, cause error) error {
	if err := c.session.Clear(ctx); err != nil {
		c.logger.Error(ctx, "failed to clear session", "error", err)
	}
	c.logger.Warn(ctx, "refresh failed, session cleared", "error", cause)
	return fmt.Errorf("%w: %w", ErrSessionExpired, cause)
}
