package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/foodwagen/foodwagen/internal/models"
)

const foodCollection = "foods"

// Mongo represents a MongoDB connection
type Mongo struct {
	client *mongo.Client
	db     *mongo.Database
	log    *slog.Logger
}

// NewMongo connects to MongoDB and verifies the connection with a ping.
func NewMongo(ctx context.Context, uri, dbName string, log *slog.Logger) (*Mongo, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Info("connected to MongoDB", "database", dbName)

	return &Mongo{
		client: client,
		db:     client.Database(dbName),
		log:    log,
	}, nil
}

// Disconnect closes the MongoDB connection
func (m *Mongo) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	m.log.Info("closing MongoDB connection")
	return m.client.Disconnect(ctx)
}

// Collection returns a MongoDB collection
func (m *Mongo) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// MongoFoodRepository implements FoodRepository over a MongoDB collection.
type MongoFoodRepository struct {
	coll *mongo.Collection
}

// NewMongoFoodRepository creates a food repository backed by the foods
// collection.
func NewMongoFoodRepository(db *Mongo) *MongoFoodRepository {
	return &MongoFoodRepository{
		coll: db.Collection(foodCollection),
	}
}

// FindAll returns all foods, optionally filtered by a case-insensitive
// substring of food_name.
func (r *MongoFoodRepository) FindAll(ctx context.Context, nameFilter string) ([]models.Food, error) {
	filter := bson.M{}
	if nameFilter != "" {
		// QuoteMeta keeps the filter a literal substring match.
		filter["food_name"] = primitive.Regex{Pattern: regexp.QuoteMeta(nameFilter), Options: "i"}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find foods: %w", err)
	}
	defer cursor.Close(ctx)

	foods := make([]models.Food, 0)
	if err := cursor.All(ctx, &foods); err != nil {
		return nil, fmt.Errorf("failed to decode foods: %w", err)
	}
	return foods, nil
}

// FindByID returns a food by its id.
func (r *MongoFoodRepository) FindByID(ctx context.Context, id string) (*models.Food, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	var food models.Food
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&food); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to find food: %w", err)
	}
	return &food, nil
}

// Insert stores a new food, assigning its id and timestamps.
func (r *MongoFoodRepository) Insert(ctx context.Context, food models.Food) (*models.Food, error) {
	now := time.Now().UTC()
	food.ID = primitive.NewObjectID()
	food.CreatedAt = now
	food.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, food); err != nil {
		return nil, fmt.Errorf("failed to insert food: %w", err)
	}
	return &food, nil
}

// UpdateByID applies a partial update and returns the new document.
func (r *MongoFoodRepository) UpdateByID(ctx context.Context, id string, update models.FoodUpdate) (*models.Food, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.FoodName != nil {
		set["food_name"] = *update.FoodName
	}
	if update.FoodPrice != nil {
		set["food_price"] = *update.FoodPrice
	}
	if update.FoodRating != nil {
		set["food_rating"] = *update.FoodRating
	}
	if update.FoodImage != nil {
		set["food_image"] = *update.FoodImage
	}
	if update.RestaurantName != nil {
		set["restaurant_name"] = *update.RestaurantName
	}
	if update.RestaurantLogo != nil {
		set["restaurant_logo"] = *update.RestaurantLogo
	}
	if update.RestaurantStatus != nil {
		set["restaurant_status"] = *update.RestaurantStatus
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Food
	err = r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrFoodNotFound
		}
		return nil, fmt.Errorf("failed to update food: %w", err)
	}
	return &updated, nil
}

// DeleteByID removes a food by its id.
func (r *MongoFoodRepository) DeleteByID(ctx context.Context, id string) error {
	oid, err := ParseID(id)
	if err != nil {
		return err
	}

	result, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("failed to delete food: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrFoodNotFound
	}
	return nil
}
