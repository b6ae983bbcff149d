package storage

import (
	"context"
	"fmt"
	"log"
)

// Router is a PlanStorage that dispatches on the path scheme: s3://,
// mongo://, sqlite://, file:// or a bare local path.
type Router struct {
	backends map[string]PlanStorage
}

// NewRouter creates a router whose local paths go to local.
func NewRouter(local PlanStorage) *Router {
	return &Router{backends: map[string]PlanStorage{SchemeFile: local}}
}

// Register adds or replaces the backend for scheme.
func (r *Router) Register(scheme string, backend PlanStorage) {
	r.backends[scheme] = backend
	log.Printf("INFO: Storage backend registered for %s://", scheme)
}

// Has reports whether a backend is registered for scheme.
func (r *Router) Has(scheme string) bool {
	_, ok := r.backends[scheme]
	return ok
}

func (r *Router) route(path string) (PlanStorage, string, error) {
	scheme, key := SplitPath(path)
	backend, ok := r.backends[scheme]
	if !ok {
		return nil, "", fmt.Errorf("%w: %s://", ErrBackendNotConfigured, scheme)
	}
	if key == "" {
		return nil, "", fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return backend, key, nil
}

func (r *Router) Load(ctx context.Context, path string) ([]byte, error) {
	backend, key, err := r.route(path)
	if err != nil {
		return nil, err
	}
	return backend.Load(ctx, key)
}

func (r *Router) Save(ctx context.Context, path string, data []byte) error {
	backend, key, err := r.route(path)
	if err != nil {
		return err
	}
	return backend.Save(ctx, key, data)
}
