package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"netstate/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load(config.New(), "")
	require.NoError(t, err)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, config.BackendFile, cfg.Store.Backend)
	require.Equal(t, "network_state", cfg.Store.Path)
	require.False(t, cfg.Builder.MustBeRunning)
	require.Equal(t, "fallback", cfg.Builder.InitialStatusPolicy)
	require.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  backend: leveldb
  path: /var/lib/netstate
builder:
  must_be_running: true
  initial_status_policy: strict
`), 0o644))
	t.Setenv("NETSTATE_SERVER_PORT", "9090")

	cfg, err := config.Load(config.New(), path)
	require.NoError(t, err)
	require.Equal(t, config.BackendLevelDB, cfg.Store.Backend)
	require.Equal(t, "/var/lib/netstate", cfg.Store.Path)
	require.True(t, cfg.Builder.MustBeRunning)
	require.Equal(t, "strict", cfg.Builder.InitialStatusPolicy)
	require.Equal(t, 9090, cfg.Server.Port)
}

func TestLoadRejectsInvalid(t *testing.T) {
	v := config.New()
	v.Set("store.backend", "s3")
	_, err := config.Load(v, "")
	require.Error(t, err)

	v = config.New()
	v.Set("builder.initial_status_policy", "newest")
	_, err = config.Load(v, "")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(config.New(), filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
