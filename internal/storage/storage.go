package storage

import (
	"context"
	"errors"
	"strings"
)

// PlanStorage loads and saves serialized plan documents. Implementations are
// byte-level: they never parse the document. Saving the same bytes twice is
// safe.
type PlanStorage interface {
	// Load returns the document stored at path.
	Load(ctx context.Context, path string) ([]byte, error)

	// Save replaces the document stored at path with data.
	Save(ctx context.Context, path string, data []byte) error
}

// Error constants for storage layer
var (
	ErrObjectNotFound       = errors.New("object not found in storage")
	ErrBackendNotConfigured = errors.New("storage backend not configured")
	ErrInvalidPath          = errors.New("invalid storage path")
)

// Storage path schemes.
const (
	SchemeFile   = "file"
	SchemeS3     = "s3"
	SchemeMongo  = "mongo"
	SchemeSQLite = "sqlite"
)

// SplitPath separates "scheme://key". A path without a scheme is a local file.
func SplitPath(path string) (scheme, key string) {
	if i := strings.Index(path, "://"); i > 0 {
		return strings.ToLower(path[:i]), path[i+3:]
	}
	return SchemeFile, path
}
