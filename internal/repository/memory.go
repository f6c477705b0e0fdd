package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/foodwagen/foodwagen/internal/models"
)

// InMemoryFoodRepository implements FoodRepository with in-memory storage.
// It mirrors the Mongo implementation's semantics (insertion order,
// case-insensitive substring filter) and backs the tests.
type InMemoryFoodRepository struct {
	mu    sync.RWMutex
	foods []models.Food
}

// NewInMemoryFoodRepository creates an empty in-memory food repository.
func NewInMemoryFoodRepository() *InMemoryFoodRepository {
	return &InMemoryFoodRepository{
		foods: make([]models.Food, 0),
	}
}

// FindAll returns foods in insertion order, optionally filtered by a
// case-insensitive substring of food_name.
func (r *InMemoryFoodRepository) FindAll(ctx context.Context, nameFilter string) ([]models.Food, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(nameFilter)
	result := make([]models.Food, 0, len(r.foods))
	for _, food := range r.foods {
		if needle == "" || strings.Contains(strings.ToLower(food.FoodName), needle) {
			result = append(result, food)
		}
	}
	return result, nil
}

// FindByID returns a food by its id.
func (r *InMemoryFoodRepository) FindByID(ctx context.Context, id string) (*models.Food, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.foods {
		if r.foods[i].ID == oid {
			food := r.foods[i]
			return &food, nil
		}
	}
	return nil, ErrFoodNotFound
}

// Insert stores a new food, assigning its id and timestamps.
func (r *InMemoryFoodRepository) Insert(ctx context.Context, food models.Food) (*models.Food, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	food.ID = primitive.NewObjectID()
	food.CreatedAt = now
	food.UpdatedAt = now

	r.foods = append(r.foods, food)
	stored := food
	return &stored, nil
}

// UpdateByID applies a partial update and returns the new document.
func (r *InMemoryFoodRepository) UpdateByID(ctx context.Context, id string, update models.FoodUpdate) (*models.Food, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.foods {
		if r.foods[i].ID != oid {
			continue
		}

		food := &r.foods[i]
		if update.FoodName != nil {
			food.FoodName = *update.FoodName
		}
		if update.FoodPrice != nil {
			food.FoodPrice = *update.FoodPrice
		}
		if update.FoodRating != nil {
			food.FoodRating = *update.FoodRating
		}
		if update.FoodImage != nil {
			food.FoodImage = *update.FoodImage
		}
		if update.RestaurantName != nil {
			food.RestaurantName = *update.RestaurantName
		}
		if update.RestaurantLogo != nil {
			food.RestaurantLogo = *update.RestaurantLogo
		}
		if update.RestaurantStatus != nil {
			food.RestaurantStatus = *update.RestaurantStatus
		}
		food.UpdatedAt = time.Now().UTC()

		updated := *food
		return &updated, nil
	}
	return nil, ErrFoodNotFound
}

// DeleteByID removes a food by its id.
func (r *InMemoryFoodRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.foods {
		if r.foods[i].ID == oid {
			r.foods = append(r.foods[:i], r.foods[i+1:]...)
			return nil
		}
	}
	return ErrFoodNotFound
}
