// internal/repository/mongo/plan_document_repo.go
package mongo

import (
	"alcyxob/liftplan/internal/domain"
	"alcyxob/liftplan/internal/repository"
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planDocumentCollectionName = "plan_documents"

// mongoPlanDocumentRepository implements repository.PlanDocumentRepository
type mongoPlanDocumentRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanDocumentRepository creates a new plan document repository.
// An empty collection name uses the default.
func NewMongoPlanDocumentRepository(db *mongo.Database, collection string) repository.PlanDocumentRepository {
	if collection == "" {
		collection = planDocumentCollectionName
	}
	return &mongoPlanDocumentRepository{
		collection: db.Collection(collection),
	}
}

// Upsert inserts or replaces the document with the same key.
func (r *mongoPlanDocumentRepository) Upsert(ctx context.Context, doc *domain.PlanDocument) error {
	if doc.Key == "" {
		return repository.ErrInvalidKey
	}
	now := time.Now().UTC()
	doc.UpdatedAt = now
	doc.Size = len(doc.Body)

	filter := bson.M{"key": doc.Key}
	update := bson.M{
		"$set": bson.M{
			"name":      doc.Name,
			"body":      doc.Body,
			"digest":    doc.Digest,
			"size":      doc.Size,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"key":       doc.Key,
			"createdAt": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var stored domain.PlanDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored)
	if err != nil {
		log.Printf("ERROR: Failed to upsert plan document '%s': %v", doc.Key, err)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrUpdateFailed
		}
		return err
	}
	doc.ID = stored.ID
	doc.CreatedAt = stored.CreatedAt
	return nil
}

// GetByKey retrieves a single plan document by its key.
func (r *mongoPlanDocumentRepository) GetByKey(ctx context.Context, key string) (*domain.PlanDocument, error) {
	var doc domain.PlanDocument
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// List returns document metadata, most recently updated first.
func (r *mongoPlanDocumentRepository) List(ctx context.Context) ([]domain.PlanDocument, error) {
	findOptions := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetProjection(bson.M{"body": 0})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []domain.PlanDocument{}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Delete removes the document with the given key.
func (r *mongoPlanDocumentRepository) Delete(ctx context.Context, key string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"key": key})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanDocumentIndexes creates necessary indexes. Call during startup.
func EnsurePlanDocumentIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "key", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
