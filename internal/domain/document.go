// internal/domain/document.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanDocument is a stored, serialized plan as kept by a document backend.
// Body holds the exact bytes that were saved so a load returns them unchanged.
type PlanDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key       string             `bson:"key" json:"key"`                       // Storage path without the scheme prefix
	Name      string             `bson:"name,omitempty" json:"name,omitempty"` // Plan name at save time, for listings
	Body      []byte             `bson:"body" json:"-"`
	Digest    string             `bson:"digest" json:"digest"` // Hex BLAKE2b-256 of Body
	Size      int                `bson:"size" json:"size"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
