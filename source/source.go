package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"netstate/logger"
	"netstate/models"
)

const maxLineSize = 4 << 20

// ListFiles returns every regular, non-hidden file below root in lexicographic order.
func ListFiles(fs afero.Fs, root string) ([]string, error) {
	var paths []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || strings.HasPrefix(filepath.Base(path), ".") {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// DescriptorStats counts what LoadDescriptors read.
type DescriptorStats struct {
	Files   int
	Read    int
	Skipped int
}

// LoadDescriptors reads every descriptor file below root and hands each descriptor to add.
// Malformed lines are logged and skipped.
func LoadDescriptors(fs afero.Fs, root string, add func(*models.RelayDescriptor)) (DescriptorStats, error) {
	var stats DescriptorStats

	paths, err := ListFiles(fs, root)
	if err != nil {
		return stats, err
	}
	for _, path := range paths {
		read, skipped, err := readDescriptorFile(fs, path, add)
		if err != nil {
			return stats, err
		}
		stats.Files++
		stats.Read += read
		stats.Skipped += skipped
	}
	return stats, nil
}

func readDescriptorFile(fs afero.Fs, path string, add func(*models.RelayDescriptor)) (int, int, error) {
	f, err := fs.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var read, skipped int
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	for line := 1; sc.Scan(); line++ {
		raw := strings.TrimSpace(sc.Text())
		if raw == "" {
			continue
		}

		var rec descriptorRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			err = fmt.Errorf("%w: %w", ErrBadRecord, err)
			logger.Logger.Warn("Skipping descriptor", zap.String("file", path), zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		d, err := rec.toModel()
		if err != nil {
			logger.Logger.Warn("Skipping descriptor", zap.String("file", path), zap.Int("line", line), zap.Error(err))
			skipped++
			continue
		}
		add(d)
		read++
	}
	if err := sc.Err(); err != nil {
		return read, skipped, fmt.Errorf("read %s: %w", path, err)
	}
	return read, skipped, nil
}

// ReadConsensus decodes one consensus file.
func ReadConsensus(fs afero.Fs, path string) (*models.ConsensusDocument, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var rec consensusRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrBadRecord, path, err)
	}
	doc, err := rec.toModel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
