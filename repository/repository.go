package repository

import (
	"errors"

	"netstate/models"
)

var (
	ErrNotFound = errors.New("snapshot not found")
	ErrCorrupt  = errors.New("corrupt snapshot")
)

// SnapshotStore persists network state snapshots by name
// It abstracts the storage layer from the batch and the HTTP API
type SnapshotStore interface {
	// Put stores the snapshot under its Name and returns that name
	Put(snap *models.NetworkStateSnapshot) (string, error)
	Get(name string) (*models.NetworkStateSnapshot, error)
	// List returns stored names in ascending order
	List() ([]string, error)
}
