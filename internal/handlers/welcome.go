package handlers

import (
	"log/slog"
	"net/http"
)

// Welcome returns the GET /api handler: a short catalog of the available
// endpoints.
func Welcome(logger *slog.Logger) http.HandlerFunc {
	catalog := map[string]interface{}{
		"message": "Welcome to FoodWagen API",
		"version": "1.0.0",
		"endpoints": map[string]map[string]string{
			"foods": {
				"GET /api/foods":                   "Get all food items",
				"GET /api/foods?name=[searchTerm]": "Search food items",
				"GET /api/foods/search?name=":      "Search food items (alternate)",
				"GET /api/foods/:id":               "Get one food item",
				"POST /api/foods":                  "Add new food item",
				"PUT /api/foods/:id":               "Update food item",
				"DELETE /api/foods/:id":            "Delete food item",
			},
			"health": {
				"GET /health": "Check server status",
			},
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, catalog, logger)
	}
}
