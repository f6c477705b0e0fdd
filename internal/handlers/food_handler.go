package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foodwagen/foodwagen/internal/models"
	"github.com/foodwagen/foodwagen/internal/repository"
	"github.com/foodwagen/foodwagen/internal/service"
	"github.com/foodwagen/foodwagen/internal/validation"
)

// maxMultipartMemory bounds the in-memory portion of multipart parsing;
// larger file parts spill to disk.
const maxMultipartMemory = 32 << 20

// FoodHandler handles food-related HTTP requests
type FoodHandler struct {
	service *service.FoodService
	log     *slog.Logger
}

// NewFoodHandler creates a new food handler
func NewFoodHandler(service *service.FoodService, log *slog.Logger) *FoodHandler {
	return &FoodHandler{
		service: service,
		log:     log,
	}
}

// ListFoods handles GET /api/foods with an optional ?name= substring filter.
func (h *FoodHandler) ListFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.service.List(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.log.Error("failed to list foods", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to fetch food items", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, foods, h.log)
}

// SearchFoods handles GET /api/foods/search?name=. Unlike the listing
// endpoint's optional filter, a missing name here is a client error.
func (h *FoodHandler) SearchFoods(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		WriteError(w, http.StatusBadRequest, "Name query is required", h.log)
		return
	}

	foods, err := h.service.List(r.Context(), name)
	if err != nil {
		h.log.Error("failed to search foods", "name", name, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to search food items", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, foods, h.log)
}

// GetFood handles GET /api/foods/{foodID}.
func (h *FoodHandler) GetFood(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "foodID")

	food, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.writeFoodError(w, err, "Failed to fetch food item")
		return
	}

	WriteJSON(w, http.StatusOK, food, h.log)
}

// CreateFood handles POST /api/foods with multipart create fields.
func (h *FoodHandler) CreateFood(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.log.Warn("invalid multipart form", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid multipart form data", h.log)
		return
	}

	in := models.CreateFoodInput{
		FoodName:         r.FormValue("food_name"),
		FoodPrice:        r.FormValue("food_price"),
		FoodRating:       r.FormValue("food_rating"),
		RestaurantName:   r.FormValue("restaurant_name"),
		RestaurantStatus: r.FormValue("restaurant_status"),
	}

	var err error
	if in.FoodImage, err = formFile(r, "food_image"); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid food_image file", h.log)
		return
	}
	if in.RestaurantLogo, err = formFile(r, "restaurant_logo"); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid restaurant_logo file", h.log)
		return
	}

	food, err := h.service.Create(r.Context(), in)
	if err != nil {
		h.writeFoodError(w, err, "Failed to add food item")
		return
	}

	WriteJSON(w, http.StatusCreated, food, h.log)
}

// UpdateFood handles PUT /api/foods/{foodID} with multipart update fields.
// Only supplied fields change; image fields sent as URL strings retain the
// supplied value.
func (h *FoodHandler) UpdateFood(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "foodID")

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		h.log.Warn("invalid multipart form", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid multipart form data", h.log)
		return
	}

	in := models.UpdateFoodInput{
		FoodName:         formValue(r, "food_name"),
		FoodPrice:        formValue(r, "food_price"),
		FoodRating:       formValue(r, "food_rating"),
		RestaurantName:   formValue(r, "restaurant_name"),
		RestaurantStatus: formValue(r, "restaurant_status"),
	}

	var err error
	if in.FoodImage, err = formFile(r, "food_image"); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid food_image file", h.log)
		return
	}
	if in.FoodImage == nil {
		in.FoodImageURL = formValue(r, "food_image")
	}
	if in.RestaurantLogo, err = formFile(r, "restaurant_logo"); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid restaurant_logo file", h.log)
		return
	}
	if in.RestaurantLogo == nil {
		in.RestaurantLogoURL = formValue(r, "restaurant_logo")
	}

	food, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		h.writeFoodError(w, err, "Failed to update food item")
		return
	}

	WriteJSON(w, http.StatusOK, food, h.log)
}

// DeleteFood handles DELETE /api/foods/{foodID}.
func (h *FoodHandler) DeleteFood(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "foodID")

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.writeFoodError(w, err, "Failed to delete food item")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Food item deleted successfully"}, h.log)
}

// writeFoodError maps pipeline errors to status codes: validation failures
// and malformed ids are 400, missing documents are 404, everything else is
// an opaque 500.
func (h *FoodHandler) writeFoodError(w http.ResponseWriter, err error, fallback string) {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": verrs}, h.log)
	case errors.Is(err, repository.ErrInvalidID):
		WriteError(w, http.StatusBadRequest, "Invalid food ID", h.log)
	case errors.Is(err, repository.ErrFoodNotFound):
		WriteError(w, http.StatusNotFound, "Food item not found", h.log)
	default:
		h.log.Error("food request failed", "error", err)
		WriteError(w, http.StatusInternalServerError, fallback, h.log)
	}
}

// formFile reads one optional file part. A missing part is not an error.
func formFile(r *http.Request, field string) (*models.FileUpload, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.FileUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Data:        data,
	}, nil
}

// formValue distinguishes "field absent" from "field empty": only fields
// present in the form are part of a partial update.
func formValue(r *http.Request, field string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	if values, ok := r.MultipartForm.Value[field]; ok && len(values) > 0 {
		return &values[0]
	}
	return nil
}
