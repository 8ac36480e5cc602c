package repositories

import (
	"context"
	"errors"
	"handmade-store/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidID       = errors.New("invalid id format")
	ErrVersionConflict = errors.New("product was modified by another request")
)

// ProductRepository owns product persistence. Implementations keep every
// write atomic per document and list newest first by CreatedAt.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	// Update replaces the mutable fields of the product with product.ID. When
	// expectedVersion is non-nil the write only happens if the stored version matches.
	Update(ctx context.Context, product *models.Product, expectedVersion *int64) error
	Delete(ctx context.Context, id string) error
}

// ParseID validates a 24 hex character document id.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}

// NewID issues a fresh document id. Every driver uses the same id format so
// clients see one id shape regardless of the backing store.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
