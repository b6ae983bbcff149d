package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// fileStorage keeps plans as local files.
type fileStorage struct {
	perm os.FileMode
}

// NewFileStorage creates a PlanStorage backed by the local filesystem.
func NewFileStorage() PlanStorage {
	return &fileStorage{perm: 0644}
}

// Load reads the whole file at path.
func (s *fileStorage) Load(ctx context.Context, path string) ([]byte, error) {
	if path == "" {
		return nil, ErrInvalidPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, path)
		}
		return nil, err
	}
	return data, nil
}

// Save writes data to path atomically, creating parent directories.
func (s *fileStorage) Save(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return ErrInvalidPath
	}
	return atomicWrite(path, data, s.perm)
}

// atomicWrite writes data to a temp file next to path and renames it over
// path, so readers never see a half-written document.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create parent directory: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".liftplan-tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on error
	defer func() {
		if tmpFile != nil {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	tmpFile = nil
	return nil
}
