package repository

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"netstate/models"
)

// FileStore keeps one artifact file per snapshot inside a directory
type FileStore struct {
	fs  afero.Fs
	dir string
}

// NewFileStore creates dir if needed and returns a store writing into it
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

// Put writes the snapshot to <dir>/<name>, replacing an earlier artifact of the same period
func (s *FileStore) Put(snap *models.NetworkStateSnapshot) (string, error) {
	name := snap.Name()
	path := filepath.Join(s.dir, name)

	f, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := Encode(f, snap); err != nil {
		f.Close()
		s.fs.Remove(path)
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return name, nil
}

// Get reads a snapshot by name
func (s *FileStore) Get(name string) (*models.NetworkStateSnapshot, error) {
	if name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	f, err := s.fs.Open(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f)
}

// List returns the artifact names found in the directory
func (s *FileStore) List() ([]string, error) {
	infos, err := afero.ReadDir(s.fs, s.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.dir, err)
	}
	names := []string{}
	for _, info := range infos {
		if info.IsDir() || !strings.HasSuffix(info.Name(), "-network_state") {
			continue
		}
		names = append(names, info.Name())
	}
	sort.Strings(names)
	return names, nil
}
