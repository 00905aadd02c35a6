package checkpoint

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"rosterscraper/pkg/logger"
	"rosterscraper/pkg/roster"
)

// header is the column layout of every checkpoint file.
var header = []string{"FirstName", "LastName"}

// Store reads and writes the checkpoint file for one run.
type Store struct {
	path   string
	logger logger.Logger
}

// NewStore creates a store for the given directory and file name,
// creating the directory if needed.
func NewStore(dir, file string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Store{
		path:   filepath.Join(dir, file),
		logger: logger.GetLogger(),
	}, nil
}

// Path returns the checkpoint file location.
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether a checkpoint file is present.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the checkpoint file into a result set. A missing file
// yields an empty set, so append mode works on a fresh output path.
func (s *Store) Load() (*roster.Set, error) {
	set := roster.NewSet()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return set, nil
		}
		return nil, fmt.Errorf("failed to open checkpoint file: %w", err)
	}
	defer file.Close()

	r := csv.NewReader(file)
	first := true
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read checkpoint file: %w", err)
		}
		if first {
			first = false
			continue // header row
		}
		if len(rec) < 2 {
			continue
		}
		set.Add(roster.Name{First: rec[0], Last: rec[1]})
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  s.path,
		"names": set.Len(),
	}).Info("checkpoint loaded")

	return set, nil
}

// Save atomically replaces the checkpoint file with the current set,
// sorted by last name then first name. The previous checkpoint stays
// intact until the rename.
func (s *Store) Save(set *roster.Set) error {
	tempPath := s.path + ".tmp"
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temporary checkpoint file: %w", err)
	}

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write checkpoint header: %w", err)
	}
	for _, n := range set.Sorted() {
		if err := w.Write([]string{n.First, n.Last}); err != nil {
			file.Close()
			os.Remove(tempPath)
			return fmt.Errorf("failed to write checkpoint row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to sync checkpoint file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}

	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to replace checkpoint file: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"path":  s.path,
		"names": set.Len(),
	}).Debug("checkpoint saved")

	return nil
}

// NextRunPath returns the first free numbered variant of file within
// dir, e.g. instructors_run1.csv, for unique-file-per-run mode.
func NextRunPath(dir, file string) string {
	ext := filepath.Ext(file)
	base := strings.TrimSuffix(file, ext)
	for n := 1; ; n++ {
		candidate := fmt.Sprintf("%s_run%d%s", base, n, ext)
		if _, err := os.Stat(filepath.Join(dir, candidate)); os.IsNotExist(err) {
			return candidate
		}
	}
}
