package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"netstate/config"
	"netstate/logger"
)

func writeInputs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	descDir := filepath.Join(dir, "descriptors")
	consDir := filepath.Join(dir, "consensuses")
	require.NoError(t, os.MkdirAll(descDir, 0o755))
	require.NoError(t, os.MkdirAll(consDir, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(descDir, "2016-01"), []byte(
		`{"fingerprint":"A","nickname":"alpha","published":"2016-01-01 00:30:00"}`+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(consDir, "2016-01-01-01-00-00-consensus"), []byte(
		`{"valid_after":"2016-01-01 01:00:00","fresh_until":"2016-01-01 02:00:00",
"relays":[{"fingerprint":"A","flags":["Running","Guard"],"bandwidth":10,"published":"2016-01-01 00:30:00"}]}`), 0o644))
	return descDir, consDir
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	defer func() { logger.Logger = zap.NewNop() }()

	var out bytes.Buffer
	root := newRootCmd(config.New())
	root.SetArgs(args)
	root.SetOut(&out)
	require.NoError(t, root.ExecuteContext(context.Background()))
	return out.String()
}

func TestProcessAndAnalyse(t *testing.T) {
	for _, backend := range []string{config.BackendFile, config.BackendLevelDB} {
		t.Run(backend, func(t *testing.T) {
			descDir, consDir := writeInputs(t)
			storePath := filepath.Join(t.TempDir(), "store")
			common := []string{"--store-backend", backend, "--store-path", storePath, "--log-level", "error"}

			execute(t, append([]string{"process", "--descriptors", descDir, "--consensuses", consDir}, common...)...)
			out := execute(t, append([]string{"analyse", "2016-01-01-01-00-00-network_state"}, common...)...)

			var res struct {
				Snapshot string `json:"snapshot"`
				Summary  struct {
					Total       int64 `json:"total_bandwidth"`
					Guards      int   `json:"guards"`
					Descriptors int   `json:"descriptors"`
					WeightScale int64 `json:"weight_scale"`
				} `json:"summary"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &res))
			require.Equal(t, "2016-01-01-01-00-00-network_state", res.Snapshot)
			require.Equal(t, int64(10), res.Summary.Total)
			require.Equal(t, 1, res.Summary.Guards)
			require.Equal(t, 1, res.Summary.Descriptors)
			require.Equal(t, int64(10000), res.Summary.WeightScale)
		})
	}
}

func TestProcessRequiresInputs(t *testing.T) {
	root := newRootCmd(config.New())
	root.SetArgs([]string{"process", "--store-path", t.TempDir(), "--log-level", "error"})
	require.Error(t, root.ExecuteContext(context.Background()))
	logger.Logger = zap.NewNop()
}
