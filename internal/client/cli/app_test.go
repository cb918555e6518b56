package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.StoragePath = filepath.Join(t.TempDir(), "nested", "session.db")
	cfg.RequestTimeout = time.Second

	a, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(a.close)

	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.getStatus())
}

func TestNewApp_BadStorage(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))
	cfg.StoragePath = filepath.Join(blocker, "session.db")

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
}
