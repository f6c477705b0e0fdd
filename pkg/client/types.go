package client

import (
	"fmt"
	"time"
)

// FoodRecord is the server's wire shape for one food item.
type FoodRecord struct {
	ID               string    `json:"id"`
	FoodName         string    `json:"food_name"`
	FoodPrice        float64   `json:"food_price"`
	FoodRating       float64   `json:"food_rating"`
	FoodImage        string    `json:"food_image"`
	RestaurantName   string    `json:"restaurant_name"`
	RestaurantLogo   string    `json:"restaurant_logo"`
	RestaurantStatus string    `json:"restaurant_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Restaurant is the embedded restaurant shape of a MealView.
type Restaurant struct {
	Name    string
	LogoURL string
}

// MealView is the display shape derived from a FoodRecord: price formatted
// to two decimals, status collapsed to Open/Closed.
type MealView struct {
	ID         string
	Name       string
	Price      string
	Rating     float64
	Status     string
	ImageURL   string
	Restaurant Restaurant
}

func toMealView(f FoodRecord) MealView {
	status := "Closed"
	if f.RestaurantStatus == "Open Now" {
		status = "Open"
	}
	return MealView{
		ID:       f.ID,
		Name:     f.FoodName,
		Price:    fmt.Sprintf("%.2f", f.FoodPrice),
		Rating:   f.FoodRating,
		Status:   status,
		ImageURL: f.FoodImage,
		Restaurant: Restaurant{
			Name:    f.RestaurantName,
			LogoURL: f.RestaurantLogo,
		},
	}
}

func toMealViews(records []FoodRecord) []MealView {
	meals := make([]MealView, 0, len(records))
	for _, record := range records {
		meals = append(meals, toMealView(record))
	}
	return meals
}

// ImageFile holds raw image bytes to send as a file part.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImageSource is one image slot of an update: either a fresh file or the
// existing URL echoed back to signal "no change".
type ImageSource struct {
	File *ImageFile
	URL  string
}

// NewMeal is the create payload. Both images must be files.
type NewMeal struct {
	Name           string
	Price          float64
	Rating         float64
	RestaurantName string
	Status         string
	Image          ImageFile
	Logo           ImageFile
}

// MealEdit is the update payload. Image slots may carry files or URLs.
type MealEdit struct {
	Name           string
	Price          float64
	Rating         float64
	RestaurantName string
	Status         string
	Image          ImageSource
	Logo           ImageSource
}
