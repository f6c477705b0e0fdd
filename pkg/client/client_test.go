package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleRecord = `{
	"id": "665f1a2b3c4d5e6f70818283",
	"food_name": "Mixed Avocado Sm",
	"food_price": 5,
	"food_rating": 4.5,
	"food_image": "https://cdn.example.com/foods/1.jpg",
	"restaurant_name": "Green Bowl",
	"restaurant_logo": "https://cdn.example.com/restaurants/1.jpg",
	"restaurant_status": "Open Now",
	"created_at": "2025-01-10T12:00:00Z",
	"updated_at": "2025-01-10T12:00:00Z"
}`

func newTestClient(ts *httptest.Server) *Client {
	return New(Config{BaseURL: ts.URL + "/api", HTTPClient: ts.Client()})
}

func TestListMeals_TransformsRecords(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/foods" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, "[%s]", sampleRecord)
	}))
	defer ts.Close()

	meals, err := newTestClient(ts).ListMeals(context.Background())
	if err != nil {
		t.Fatalf("list meals: %v", err)
	}
	if len(meals) != 1 {
		t.Fatalf("expected 1 meal, got %d", len(meals))
	}

	meal := meals[0]
	if meal.Price != "5.00" {
		t.Errorf("expected price formatted to two decimals, got %q", meal.Price)
	}
	if meal.Status != "Open" {
		t.Errorf("expected status Open, got %q", meal.Status)
	}
	if meal.Name != "Mixed Avocado Sm" {
		t.Errorf("unexpected name %q", meal.Name)
	}
	if meal.Restaurant.Name != "Green Bowl" || meal.Restaurant.LogoURL == "" {
		t.Errorf("unexpected restaurant %+v", meal.Restaurant)
	}
}

func TestListMeals_ServerErrorMessage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).ListMeals(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Server error. Please try again later." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCreateMeal_SendsMultipart(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/foods" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("food_name") != "Mixed Avocado Sm" {
			t.Errorf("unexpected food_name %q", r.FormValue("food_name"))
		}
		if r.FormValue("food_price") != "5.99" {
			t.Errorf("unexpected food_price %q", r.FormValue("food_price"))
		}
		if r.FormValue("restaurant_status") != "Open Now" {
			t.Errorf("unexpected restaurant_status %q", r.FormValue("restaurant_status"))
		}

		file, header, err := r.FormFile("food_image")
		if err != nil {
			t.Fatalf("expected food_image file part: %v", err)
		}
		defer file.Close()
		if header.Header.Get("Content-Type") != "image/jpeg" {
			t.Errorf("unexpected file content type %q", header.Header.Get("Content-Type"))
		}
		data, _ := io.ReadAll(file)
		if len(data) == 0 {
			t.Error("expected file bytes")
		}

		if _, _, err := r.FormFile("restaurant_logo"); err != nil {
			t.Errorf("expected restaurant_logo file part: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, sampleRecord)
	}))
	defer ts.Close()

	meal, err := newTestClient(ts).CreateMeal(context.Background(), NewMeal{
		Name:           "Mixed Avocado Sm",
		Price:          5.99,
		Rating:         4.5,
		RestaurantName: "Green Bowl",
		Status:         "Open Now",
		Image:          ImageFile{Name: "food.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8}},
		Logo:           ImageFile{Name: "logo.png", ContentType: "image/png", Data: []byte{0x89, 0x50}},
	})
	if err != nil {
		t.Fatalf("create meal: %v", err)
	}
	if meal.ID == "" {
		t.Error("expected meal id")
	}
}

func TestCreateMeal_ValidationErrorMessage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).CreateMeal(context.Background(), NewMeal{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Invalid data provided. Please check your inputs." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestCreateMeal_PayloadTooLargeMessage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusRequestEntityTooLarge)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).CreateMeal(context.Background(), NewMeal{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Files are too large. Please use smaller images." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestUpdateMeal_EchoesURLsAsFields(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("unexpected method %s", r.Method)
		}
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}

		// URL-backed slots must arrive as plain fields, not file parts.
		if _, _, err := r.FormFile("food_image"); err == nil {
			t.Error("expected no food_image file part")
		}
		if r.FormValue("food_image") != "https://cdn.example.com/foods/1.jpg" {
			t.Errorf("unexpected food_image field %q", r.FormValue("food_image"))
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, sampleRecord)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).UpdateMeal(context.Background(), "665f1a2b3c4d5e6f70818283", MealEdit{
		Name:           "Mixed Avocado Sm",
		Price:          5,
		Rating:         4.5,
		RestaurantName: "Green Bowl",
		Status:         "Open Now",
		Image:          ImageSource{URL: "https://cdn.example.com/foods/1.jpg"},
		Logo:           ImageSource{URL: "https://cdn.example.com/restaurants/1.jpg"},
	})
	if err != nil {
		t.Fatalf("update meal: %v", err)
	}
}

func TestUpdateMeal_NotFoundMessage(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := newTestClient(ts).UpdateMeal(context.Background(), "665f1a2b3c4d5e6f70818283", MealEdit{})
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Meal not found." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestDeleteMeal(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/foods/abc123" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":"Food item deleted successfully"}`)
	}))
	defer ts.Close()

	if err := newTestClient(ts).DeleteMeal(context.Background(), "abc123"); err != nil {
		t.Fatalf("delete meal: %v", err)
	}
}

func TestSearchMeals_BlankQueryAndNotFound(t *testing.T) {
	t.Parallel()

	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := newTestClient(ts)

	// Blank query: no request at all.
	meals, err := c.SearchMeals(context.Background(), "   ")
	if err != nil || len(meals) != 0 {
		t.Fatalf("expected empty result for blank query, got %v / %v", meals, err)
	}
	if calls != 0 {
		t.Errorf("expected no HTTP call for blank query, got %d", calls)
	}

	// 404 means no results, not an error.
	meals, err = c.SearchMeals(context.Background(), "avo")
	if err != nil {
		t.Fatalf("expected 404 to be empty results, got %v", err)
	}
	if len(meals) != 0 {
		t.Errorf("expected empty results, got %d", len(meals))
	}
}

func TestPriceRoundTripFormatting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		price float64
		want  string
	}{
		{5, "5.00"},
		{5.9, "5.90"},
		{12.99, "12.99"},
		{999.99, "999.99"},
	}
	for _, tt := range tests {
		got := toMealView(FoodRecord{FoodPrice: tt.price}).Price
		if got != tt.want {
			t.Errorf("price %v: expected %q, got %q", tt.price, tt.want, got)
		}
	}
}
