package db_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"netstate/db"
)

func TestLevelDBRoundTrip(t *testing.T) {
	ldb, err := db.NewLevelDB(filepath.Join(t.TempDir(), "ldb"))
	require.NoError(t, err)
	defer ldb.Close()

	require.NoError(t, ldb.Put([]byte("a:1"), []byte("one")))
	require.NoError(t, ldb.Put([]byte("a:2"), []byte("two")))
	require.NoError(t, ldb.Put([]byte("b:1"), []byte("other")))

	v, err := ldb.Get([]byte("a:2"))
	require.NoError(t, err)
	require.Equal(t, "two", string(v))

	_, err = ldb.Get([]byte("missing"))
	require.True(t, db.IsNotFound(err))

	iter := ldb.NewPrefixIterator([]byte("a:"))
	defer iter.Release()
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	require.Equal(t, []string{"a:1", "a:2"}, keys)
}
