package lib

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "8081")
	t.Setenv("SOCIAL_MAX_ATTEMPTS", "3")
	t.Setenv("RECONCILER_INTERVAL", "30s")
	t.Setenv("ADMIN_IDS", "64b7f0c2a1b2c3d4e5f60718,64b7f0c2a1b2c3d4e5f60719")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Social.MaxAttempts)
	assert.Equal(t, 10*time.Millisecond, cfg.Social.RetryDelay)
	assert.Equal(t, 30*time.Second, cfg.Reconciler.Interval)
	assert.Equal(t, "socialfeed", cfg.Mongo.Database)
	assert.Empty(t, cfg.Redis.Address)
	assert.Equal(t, []string{"64b7f0c2a1b2c3d4e5f60718", "64b7f0c2a1b2c3d4e5f60719"}, cfg.Auth.AdminIDs)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	yaml := "mongo:\n  database: feedtest\nsocial:\n  max_attempts: 0\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))

	_, err := LoadConfig(dir)
	require.Error(t, err)
}

func TestLoadConfigAdminIDsDefaultEmpty(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Auth.AdminIDs)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
