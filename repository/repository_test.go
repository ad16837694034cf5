package repository_test

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"netstate/db"
	"netstate/models"
	"netstate/repository"
)

func testSnapshot(validAfter time.Time) *models.NetworkStateSnapshot {
	return &models.NetworkStateSnapshot{
		Metadata: models.ConsensusMetadata{
			ValidAfter:       validAfter,
			FreshUntil:       validAfter.Add(time.Hour),
			BandwidthWeights: map[string]int64{"Wgg": 5920, "Wmd": 1000},
			WeightScale:      10000,
		},
		Relays: map[string]models.RouterStatusEntry{
			"A": {Fingerprint: "A", Nickname: "alpha", Flags: []models.Flag{models.FlagRunning}, Bandwidth: 10,
				Published: validAfter.Add(-time.Hour)},
		},
		Descriptors: map[string]models.SlimDescriptor{
			"A": {Fingerprint: "A", Nickname: "alpha", Published: validAfter.Add(-2 * time.Hour), Hibernating: true,
				Family: []string{"B"}},
		},
		Events: []models.HibernationEvent{
			{Offset: 600, Fingerprint: "A", Hibernating: false},
			{Offset: 0, Fingerprint: "A", Hibernating: true},
		},
	}
}

func TestCodecKeepsSectionOrder(t *testing.T) {
	snap := testSnapshot(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))

	var buf bytes.Buffer
	require.NoError(t, repository.Encode(&buf, snap))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], `{"metadata":`))
	require.True(t, strings.HasPrefix(lines[1], `{"A":`))
	require.True(t, strings.HasPrefix(lines[2], `[{"offset":600`))

	got, err := repository.Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(snap, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeDefaultsWeightScale(t *testing.T) {
	snap := testSnapshot(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))
	snap.Metadata.WeightScale = 0
	snap.Events = nil

	var buf bytes.Buffer
	require.NoError(t, repository.Encode(&buf, snap))
	got, err := repository.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, int64(models.DefaultWeightScale), got.Metadata.WeightScale)
	require.Empty(t, got.Events)
}

func TestDecodeTruncated(t *testing.T) {
	_, err := repository.Decode(strings.NewReader(`{"metadata":{}}` + "\n"))
	require.ErrorIs(t, err, repository.ErrCorrupt)
}

func testStore(t *testing.T, store repository.SnapshotStore) {
	t.Helper()

	names, err := store.List()
	require.NoError(t, err)
	require.Empty(t, names)

	later := testSnapshot(time.Date(2016, 1, 1, 1, 0, 0, 0, time.UTC))
	earlier := testSnapshot(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC))

	name, err := store.Put(later)
	require.NoError(t, err)
	require.Equal(t, "2016-01-01-01-00-00-network_state", name)
	_, err = store.Put(earlier)
	require.NoError(t, err)

	names, err = store.List()
	require.NoError(t, err)
	require.Equal(t, []string{"2016-01-01-00-00-00-network_state", "2016-01-01-01-00-00-network_state"}, names)

	got, err := store.Get(name)
	require.NoError(t, err)
	if diff := cmp.Diff(later, got); diff != "" {
		t.Fatalf("snapshot mismatch (-want +got):\n%s", diff)
	}

	_, err = store.Get("2000-01-01-00-00-00-network_state")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFileStore(t *testing.T) {
	fs := afero.NewMemMapFs()
	store, err := repository.NewFileStore(fs, "/out")
	require.NoError(t, err)
	testStore(t, store)

	require.NoError(t, afero.WriteFile(fs, "/out/notes.txt", []byte("x"), 0o644))
	names, err := store.List()
	require.NoError(t, err)
	require.Len(t, names, 2)

	_, err = store.Get("../etc/passwd")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLevelStore(t *testing.T) {
	ldb, err := db.NewLevelDB(filepath.Join(t.TempDir(), "ldb"))
	require.NoError(t, err)
	defer ldb.Close()

	testStore(t, repository.NewLevelStore(ldb))
}

type failingFile struct {
	afero.File
}

func (f failingFile) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

type failingWriteFs struct {
	afero.Fs
}

func (fs failingWriteFs) Create(name string) (afero.File, error) {
	f, err := fs.Fs.Create(name)
	if err != nil {
		return nil, err
	}
	return failingFile{File: f}, nil
}

func TestFileStorePutRemovesPartialArtifact(t *testing.T) {
	mem := afero.NewMemMapFs()
	store, err := repository.NewFileStore(failingWriteFs{Fs: mem}, "/out")
	require.NoError(t, err)

	_, err = store.Put(testSnapshot(time.Date(2016, 1, 1, 0, 0, 0, 0, time.UTC)))
	require.Error(t, err)

	exists, err := afero.Exists(mem, "/out/2016-01-01-00-00-00-network_state")
	require.NoError(t, err)
	require.False(t, exists)

	names, err := store.List()
	require.NoError(t, err)
	require.Empty(t, names)
}
