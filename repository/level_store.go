package repository

import (
	"bytes"
	"fmt"
	"strings"

	"netstate/db"
	"netstate/models"
)

const snapshotKeyPrefix = "network_state:"

// LevelStore implements SnapshotStore using LevelDB as the storage backend
type LevelStore struct {
	db *db.LevelDB
}

// NewLevelStore creates and returns a new LevelStore instance
func NewLevelStore(db *db.LevelDB) *LevelStore {
	return &LevelStore{db: db}
}

// Put stores a snapshot in the LevelDB storage
func (s *LevelStore) Put(snap *models.NetworkStateSnapshot) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, snap); err != nil {
		return "", err
	}
	name := snap.Name()
	if err := s.db.Put([]byte(snapshotKeyPrefix+name), buf.Bytes()); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}
	return name, nil
}

// Get retrieves a snapshot from LevelDB storage by its name
func (s *LevelStore) Get(name string) (*models.NetworkStateSnapshot, error) {
	data, err := s.db.Get([]byte(snapshotKeyPrefix + name))
	if db.IsNotFound(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

// List returns the names of all stored snapshots
func (s *LevelStore) List() ([]string, error) {
	iter := s.db.NewPrefixIterator([]byte(snapshotKeyPrefix))
	defer iter.Release()

	names := []string{}
	for iter.Next() {
		names = append(names, strings.TrimPrefix(string(iter.Key()), snapshotKeyPrefix))
	}
	return names, iter.Error()
}
