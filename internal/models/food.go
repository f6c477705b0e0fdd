package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Restaurant status values. The API accepts exactly these two literals.
const (
	StatusOpenNow = "Open Now"
	StatusClosed  = "Closed"
)

// Food represents one listed meal together with its restaurant metadata.
// Image fields always hold durable URLs once persisted, never raw bytes.
type Food struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FoodName         string             `bson:"food_name" json:"food_name"`
	FoodPrice        float64            `bson:"food_price" json:"food_price"`
	FoodRating       float64            `bson:"food_rating" json:"food_rating"`
	FoodImage        string             `bson:"food_image" json:"food_image"`
	RestaurantName   string             `bson:"restaurant_name" json:"restaurant_name"`
	RestaurantLogo   string             `bson:"restaurant_logo" json:"restaurant_logo"`
	RestaurantStatus string             `bson:"restaurant_status" json:"restaurant_status"`
	CreatedAt        time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updated_at"`
}

// FileUpload is one image file part taken from a multipart request.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Data        []byte
}

// CreateFoodInput is the typed intake for POST /api/foods.
// Numeric fields arrive as form-data strings and are coerced by validation.
// Both image slots must carry file parts on create.
type CreateFoodInput struct {
	FoodName         string
	FoodPrice        string
	FoodRating       string
	RestaurantName   string
	RestaurantStatus string
	FoodImage        *FileUpload
	RestaurantLogo   *FileUpload
}

// UpdateFoodInput is the typed intake for PUT /api/foods/{id}.
// Nil pointers mean the field was not supplied and must not change.
// Each image slot is either a fresh file part or the existing URL echoed
// back by the client.
type UpdateFoodInput struct {
	FoodName          *string
	FoodPrice         *string
	FoodRating        *string
	RestaurantName    *string
	RestaurantStatus  *string
	FoodImage         *FileUpload
	FoodImageURL      *string
	RestaurantLogo    *FileUpload
	RestaurantLogoURL *string
}

// FoodUpdate holds the validated fields of a partial update. Nil fields are
// left untouched by the store.
type FoodUpdate struct {
	FoodName         *string
	FoodPrice        *float64
	FoodRating       *float64
	FoodImage        *string
	RestaurantName   *string
	RestaurantLogo   *string
	RestaurantStatus *string
}

// Empty reports whether the update would change nothing.
func (u FoodUpdate) Empty() bool {
	return u.FoodName == nil && u.FoodPrice == nil && u.FoodRating == nil &&
		u.FoodImage == nil && u.RestaurantName == nil && u.RestaurantLogo == nil &&
		u.RestaurantStatus == nil
}
