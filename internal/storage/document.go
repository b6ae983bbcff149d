package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"alcyxob/liftplan/internal/domain"
	"alcyxob/liftplan/internal/repository"
)

// documentStorage adapts a PlanDocumentRepository to PlanStorage. It backs the
// mongo:// scheme.
type documentStorage struct {
	repo repository.PlanDocumentRepository
}

// NewDocumentStorage creates a PlanStorage over a document repository.
func NewDocumentStorage(repo repository.PlanDocumentRepository) PlanStorage {
	return &documentStorage{repo: repo}
}

func (s *documentStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if key == "" {
		return nil, ErrInvalidPath
	}
	doc, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return nil, err
	}
	return doc.Body, nil
}

func (s *documentStorage) Save(ctx context.Context, key string, data []byte) error {
	if key == "" {
		return ErrInvalidPath
	}
	doc := &domain.PlanDocument{
		Key:    key,
		Name:   documentName(data),
		Body:   data,
		Digest: domain.Digest(data),
	}
	return s.repo.Upsert(ctx, doc)
}

// documentName pulls the plan name out of a JSON body for listings. Other
// encodings have no name recorded.
func documentName(data []byte) string {
	var head struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return ""
	}
	return head.Name
}
