package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/events"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	mu       sync.Mutex
	logouts  []events.LogoutEvent
	rejected []events.RefreshRejectedEvent
}

func (p *recordingPublisher) PublishLogout(_ context.Context, e events.LogoutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logouts = append(p.logouts, e)
	return nil
}

func (p *recordingPublisher) PublishRefreshRejected(_ context.Context, e events.RefreshRejectedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rejected = append(p.rejected, e)
	return nil
}

func (p *recordingPublisher) reasons() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.rejected))
	for _, e := range p.rejected {
		out = append(out, e.Reason)
	}
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		AccessTokenSecret:            "access-secret",
		RefreshTokenSecret:           "refresh-secret",
		AccessTokenValidityDuration:  15 * time.Minute,
		RefreshTokenValidityDuration: 7 * 24 * time.Hour,
	}
}

type fixture struct {
	rm     *repomanager.MemoryRepositoryManager
	clock  *fakeClock
	pub    *recordingPublisher
	tokens *TokenService
	users  *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		rm:    repomanager.NewMemoryRepositoryManager(),
		clock: newFakeClock(),
		pub:   &recordingPublisher{},
	}
	f.tokens = NewTokenService(f.rm, testConfig(), WithClock(f.clock.Now), WithPublisher(f.pub))
	f.users = NewUserService(f.rm, f.tokens, bcrypt.MinCost)
	return f
}

// seedUser stores a user directly so token tests do not depend on Register.
func (f *fixture) seedUser(t *testing.T, id, email string) {
	t.Helper()
	_, err := f.rm.Users(nil).Create(context.Background(), &models.User{ID: id, Email: email})
	require.NoError(t, err)
}
