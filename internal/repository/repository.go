package repository

import (
	"alcyxob/liftplan/internal/domain" // Import our defined domain models
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrInvalidKey   = RepositoryError("invalid document key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// PlanDocumentRepository stores serialized plans addressed by key.
type PlanDocumentRepository interface {
	// Upsert creates or replaces the document stored under doc.Key. CreatedAt
	// is kept from the first save.
	Upsert(ctx context.Context, doc *domain.PlanDocument) error
	GetByKey(ctx context.Context, key string) (*domain.PlanDocument, error)
	// List returns metadata for every stored document, newest first. Body is
	// not loaded.
	List(ctx context.Context) ([]domain.PlanDocument, error)
	Delete(ctx context.Context, key string) error
}
