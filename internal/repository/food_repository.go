package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodwagen/foodwagen/internal/models"
)

var (
	// ErrFoodNotFound is returned when a well-formed id resolves to nothing.
	ErrFoodNotFound = errors.New("food not found")

	// ErrInvalidID is returned for syntactically malformed ids, before any
	// lookup happens.
	ErrInvalidID = errors.New("invalid food id")
)

// FoodRepository defines the interface for food data access
type FoodRepository interface {
	// FindAll returns all foods, or only those whose name contains
	// nameFilter case-insensitively when it is non-empty. Order is the
	// store's insertion order.
	FindAll(ctx context.Context, nameFilter string) ([]models.Food, error)
	FindByID(ctx context.Context, id string) (*models.Food, error)
	// Insert assigns the id and timestamps and returns the stored document.
	Insert(ctx context.Context, food models.Food) (*models.Food, error)
	// UpdateByID merges only the supplied fields and returns the updated
	// document.
	UpdateByID(ctx context.Context, id string, update models.FoodUpdate) (*models.Food, error)
	DeleteByID(ctx context.Context, id string) error
}

// ParseID validates that id is a well-formed ObjectID before it is used in
// any lookup. A malformed id is a client error, not a missing document.
func ParseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return oid, nil
}
