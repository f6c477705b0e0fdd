package validation

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/foodwagen/foodwagen/internal/models"
)

// Image upload limits per slot.
const (
	MaxFoodImageBytes = 5 * 1024 * 1024
	MaxLogoBytes      = 2 * 1024 * 1024
)

const (
	maxNameLength = 100
	maxPrice      = 999.99
)

// allowedImageTypes are the MIME types accepted for uploaded image files.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// FieldError describes one invalid field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the structured failure returned for malformed input.
// It is a value the caller inspects, never a panic.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// CreateFields is the assembled field set for a create request. Image slots
// already hold the URLs returned by the media store.
type CreateFields struct {
	FoodName         string
	FoodPrice        string
	FoodRating       string
	FoodImage        string
	RestaurantName   string
	RestaurantLogo   string
	RestaurantStatus string
}

// Create validates a full field set and returns the normalized document.
// All fields are required.
func Create(in CreateFields) (models.Food, Errors) {
	var errs Errors
	var food models.Food

	food.FoodName = validName(&errs, "food_name", "Food name", in.FoodName)
	food.FoodPrice = validPrice(&errs, "food_price", in.FoodPrice)
	food.FoodRating = validRating(&errs, "food_rating", in.FoodRating)
	food.FoodImage = validURL(&errs, "food_image", "Invalid image URL", in.FoodImage)
	food.RestaurantName = validName(&errs, "restaurant_name", "Restaurant name", in.RestaurantName)
	food.RestaurantLogo = validURL(&errs, "restaurant_logo", "Invalid logo URL", in.RestaurantLogo)
	food.RestaurantStatus = validStatus(&errs, "restaurant_status", in.RestaurantStatus)

	if len(errs) > 0 {
		return models.Food{}, errs
	}
	return food, nil
}

// UpdateFields is the field set for a partial update. Nil fields were not
// supplied and are skipped entirely.
type UpdateFields struct {
	FoodName         *string
	FoodPrice        *string
	FoodRating       *string
	FoodImage        *string
	RestaurantName   *string
	RestaurantLogo   *string
	RestaurantStatus *string
}

// Update validates only the supplied fields and returns the partial update.
func Update(in UpdateFields) (models.FoodUpdate, Errors) {
	var errs Errors
	var upd models.FoodUpdate

	if in.FoodName != nil {
		v := validName(&errs, "food_name", "Food name", *in.FoodName)
		upd.FoodName = &v
	}
	if in.FoodPrice != nil {
		v := validPrice(&errs, "food_price", *in.FoodPrice)
		upd.FoodPrice = &v
	}
	if in.FoodRating != nil {
		v := validRating(&errs, "food_rating", *in.FoodRating)
		upd.FoodRating = &v
	}
	if in.FoodImage != nil {
		v := validURL(&errs, "food_image", "Invalid image URL", *in.FoodImage)
		upd.FoodImage = &v
	}
	if in.RestaurantName != nil {
		v := validName(&errs, "restaurant_name", "Restaurant name", *in.RestaurantName)
		upd.RestaurantName = &v
	}
	if in.RestaurantLogo != nil {
		v := validURL(&errs, "restaurant_logo", "Invalid logo URL", *in.RestaurantLogo)
		upd.RestaurantLogo = &v
	}
	if in.RestaurantStatus != nil {
		v := validStatus(&errs, "restaurant_status", *in.RestaurantStatus)
		upd.RestaurantStatus = &v
	}

	if len(errs) > 0 {
		return models.FoodUpdate{}, errs
	}
	return upd, nil
}

// CheckFile validates an uploaded image file part before it is sent to the
// media store. A nil file when required is a validation error, matching the
// intake filter the upload middleware applies.
func CheckFile(field, label string, f *models.FileUpload, maxBytes int64, required bool) *FieldError {
	if f == nil {
		if required {
			return &FieldError{Field: field, Message: label + " is required"}
		}
		return nil
	}
	if len(f.Data) == 0 {
		return &FieldError{Field: field, Message: label + " is required"}
	}
	if int64(len(f.Data)) > maxBytes {
		return &FieldError{Field: field, Message: fmt.Sprintf("%s must be less than %dMB", label, maxBytes/(1024*1024))}
	}
	if !allowedImageTypes[strings.ToLower(f.ContentType)] {
		return &FieldError{Field: field, Message: "Only JPEG, PNG, GIF and WebP images are allowed"}
	}
	return nil
}

func validName(errs *Errors, field, label, raw string) string {
	name := strings.TrimSpace(raw)
	switch {
	case name == "":
		*errs = append(*errs, FieldError{Field: field, Message: label + " is required"})
	case len(name) > maxNameLength:
		*errs = append(*errs, FieldError{Field: field, Message: fmt.Sprintf("%s must be less than %d characters", label, maxNameLength)})
	}
	return name
}

func validPrice(errs *Errors, field, raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case err != nil:
		*errs = append(*errs, FieldError{Field: field, Message: "Price must be a number"})
	case v <= 0:
		*errs = append(*errs, FieldError{Field: field, Message: "Price must be greater than 0"})
	case v > maxPrice:
		*errs = append(*errs, FieldError{Field: field, Message: "Price must be less than $1000"})
	case !hasMaxDecimals(v, 2):
		*errs = append(*errs, FieldError{Field: field, Message: "Price can have at most 2 decimal places"})
	}
	return v
}

func validRating(errs *Errors, field, raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	switch {
	case err != nil:
		*errs = append(*errs, FieldError{Field: field, Message: "Rating must be a number"})
	case v < 0 || v > 5:
		*errs = append(*errs, FieldError{Field: field, Message: "Rating must be between 0 and 5"})
	case !hasMaxDecimals(v, 1):
		*errs = append(*errs, FieldError{Field: field, Message: "Rating can have at most 1 decimal place"})
	}
	return v
}

func validURL(errs *Errors, field, message, raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		*errs = append(*errs, FieldError{Field: field, Message: message})
		return raw
	}
	return u.String()
}

func validStatus(errs *Errors, field, raw string) string {
	if raw != models.StatusOpenNow && raw != models.StatusClosed {
		*errs = append(*errs, FieldError{
			Field:   field,
			Message: fmt.Sprintf("Restaurant status must be %q or %q", models.StatusOpenNow, models.StatusClosed),
		})
	}
	return raw
}

func hasMaxDecimals(v float64, places int) bool {
	scale := math.Pow10(places)
	scaled := v * scale
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}
