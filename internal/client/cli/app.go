package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/client/services"
	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/dmitrijs2005/gophauth/internal/logging"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	db          *sql.DB
	authService services.AuthService
	logger      logging.Logger
	reader      *bufio.Reader

	mu       sync.Mutex
	userName string
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	if c.StoragePath != ":memory:" {
		if _, err := filex.EnsureParentDir(c.StoragePath); err != nil {
			return nil, err
		}
	}

	db, err := client.InitDatabase(ctx, c.StoragePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.StoragePath, "error", err)
		return nil, err
	}

	session := client.NewSession(metadata.NewSQLiteRepository(db))
	api := client.NewAuthSessionClient(
		c.ServerBaseURL,
		&http.Client{Timeout: c.RequestTimeout},
		session,
		client.WithRefreshTimeout(c.RefreshTimeout),
		client.WithLogger(logger),
	)

	a := newApp(c, services.NewAuthService(api, logger), logger)
	a.db = db
	api.Coordinator().OnSessionExpired(a.sessionExpired)
	return a, nil
}

func newApp(c *config.Config, as services.AuthService, logger logging.Logger) *App {
	return &App{
		config:      c,
		authService: as,
		logger:      logger,
		reader:      bufio.NewReader(os.Stdin),
	}
}

// Run starts the REPL and blocks until the user exits or stdin is closed.
func (a *App) Run(ctx context.Context) {
	defer a.close()
	a.Root(ctx)
}

func (a *App) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.authService.LoggedIn(context.Background())
}

func (a *App) setUserName(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.userName = name
}

func (a *App) currentUserName() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.userName
}

// sessionExpired runs when a refresh fails and the session is torn down.
func (a *App) sessionExpired(err error) {
	a.setUserName("")
	printlnFn(fmt.Sprintf("Session expired, please log in again (%v)", err))
}
