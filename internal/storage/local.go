package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/broucz/machine-learning-suite/internal/pipeline"
)

// LocalStorage persists partitions as parquet files under a root directory.
type LocalStorage struct {
	rootDir string
}

// NewLocalStorage creates the root directory if needed and returns the
// store.
func NewLocalStorage(rootDir string) (*LocalStorage, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating dataset directory %s: %w", rootDir, err)
	}
	return &LocalStorage{rootDir: rootDir}, nil
}

func (s *LocalStorage) fullPath(path string) string {
	return filepath.Join(s.rootDir, path+".parquet")
}

// Write serializes the table to <root>/<path>.parquet.
func (s *LocalStorage) Write(_ context.Context, t *pipeline.Table, path string) error {
	full := s.fullPath(path)
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("creating %s: %w", full, err)
	}
	if err := writeTable(f, t); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", full, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", full, err)
	}
	return nil
}

// Read concatenates the given partitions back into one table.
func (s *LocalStorage) Read(_ context.Context, paths []string) (*pipeline.Table, error) {
	table := pipeline.NewTable(nil)
	for _, path := range paths {
		full := s.fullPath(path)
		f, err := os.Open(full)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", full, err)
		}
		partition, err := readTable(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", full, err)
		}
		table.AppendTable(partition)
	}
	return table, nil
}

// Exists reports whether the partition has already been written.
func (s *LocalStorage) Exists(_ context.Context, path string) (bool, error) {
	_, err := os.Stat(s.fullPath(path))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}
