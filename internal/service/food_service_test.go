package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/foodwagen/foodwagen/internal/models"
	"github.com/foodwagen/foodwagen/internal/repository"
	"github.com/foodwagen/foodwagen/internal/validation"
	"github.com/foodwagen/foodwagen/pkg/logger"
)

// stubMediaStore records uploads and hands back deterministic URLs.
type stubMediaStore struct {
	uploads []string // folders in call order
	fail    bool
}

func (s *stubMediaStore) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if s.fail {
		return "", errors.New("media host unavailable")
	}
	s.uploads = append(s.uploads, folder)
	return fmt.Sprintf("https://cdn.example.com/%s/%d.jpg", folder, len(s.uploads)), nil
}

func jpegUpload() *models.FileUpload {
	return &models.FileUpload{
		Filename:    "food.jpg",
		ContentType: "image/jpeg",
		Size:        3,
		Data:        []byte{0xff, 0xd8, 0xff},
	}
}

func validCreateInput() models.CreateFoodInput {
	return models.CreateFoodInput{
		FoodName:         "Mixed Avocado Sm",
		FoodPrice:        "5.99",
		FoodRating:       "4.5",
		RestaurantName:   "Green Bowl",
		RestaurantStatus: models.StatusOpenNow,
		FoodImage:        jpegUpload(),
		RestaurantLogo:   jpegUpload(),
	}
}

func newTestService(media MediaStore) (*FoodService, *repository.InMemoryFoodRepository) {
	repo := repository.NewInMemoryFoodRepository()
	return NewFoodService(repo, media, "foodwagen", logger.New("error")), repo
}

func TestCreate_UploadsThenPersists(t *testing.T) {
	media := &stubMediaStore{}
	svc, _ := newTestService(media)

	food, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(media.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(media.uploads))
	}
	if media.uploads[0] != "foodwagen/foods" || media.uploads[1] != "foodwagen/restaurants" {
		t.Errorf("unexpected upload folders %v", media.uploads)
	}

	if food.ID.IsZero() {
		t.Error("expected assigned id")
	}
	if food.FoodImage != "https://cdn.example.com/foodwagen/foods/1.jpg" {
		t.Errorf("expected uploaded image URL, got %q", food.FoodImage)
	}
	if food.RestaurantLogo != "https://cdn.example.com/foodwagen/restaurants/2.jpg" {
		t.Errorf("expected uploaded logo URL, got %q", food.RestaurantLogo)
	}
	if food.FoodPrice != 5.99 || food.FoodRating != 4.5 {
		t.Errorf("expected coerced numbers, got %f / %f", food.FoodPrice, food.FoodRating)
	}
}

func TestCreate_MissingFilesFailBeforeUpload(t *testing.T) {
	media := &stubMediaStore{}
	svc, _ := newTestService(media)

	in := validCreateInput()
	in.FoodImage = nil
	in.RestaurantLogo = nil

	_, err := svc.Create(context.Background(), in)

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}
	if len(verrs) != 2 {
		t.Errorf("expected 2 field errors, got %v", verrs)
	}
	if len(media.uploads) != 0 {
		t.Errorf("expected no uploads for invalid files, got %d", len(media.uploads))
	}
}

func TestCreate_InvalidFieldsAfterUpload(t *testing.T) {
	media := &stubMediaStore{}
	svc, repo := newTestService(media)

	in := validCreateInput()
	in.FoodRating = "9"

	_, err := svc.Create(context.Background(), in)

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		t.Fatalf("expected validation errors, got %v", err)
	}

	// Uploads happen before validation, so the assets are already stored.
	// They are intentionally not rolled back.
	if len(media.uploads) != 2 {
		t.Errorf("expected uploads to have run, got %d", len(media.uploads))
	}

	foods, _ := repo.FindAll(context.Background(), "")
	if len(foods) != 0 {
		t.Errorf("expected nothing persisted, got %d", len(foods))
	}
}

func TestCreate_UploadFailure(t *testing.T) {
	svc, repo := newTestService(&stubMediaStore{fail: true})

	_, err := svc.Create(context.Background(), validCreateInput())
	if err == nil {
		t.Fatal("expected error")
	}

	var verrs validation.Errors
	if errors.As(err, &verrs) {
		t.Error("upload failure must not surface as a validation error")
	}

	foods, _ := repo.FindAll(context.Background(), "")
	if len(foods) != 0 {
		t.Errorf("expected nothing persisted, got %d", len(foods))
	}
}

func TestUpdate_KeepsSuppliedURLsWithoutUploading(t *testing.T) {
	media := &stubMediaStore{}
	svc, repo := newTestService(media)
	ctx := context.Background()

	stored, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	uploadsAfterCreate := len(media.uploads)

	name := "Mixed Avocado Lg"
	updated, err := svc.Update(ctx, stored.ID.Hex(), models.UpdateFoodInput{
		FoodName:          &name,
		FoodImageURL:      &stored.FoodImage,
		RestaurantLogoURL: &stored.RestaurantLogo,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if len(media.uploads) != uploadsAfterCreate {
		t.Errorf("expected no new uploads, got %d", len(media.uploads)-uploadsAfterCreate)
	}
	if updated.FoodName != "Mixed Avocado Lg" {
		t.Errorf("expected updated name, got %q", updated.FoodName)
	}
	if updated.FoodImage != stored.FoodImage || updated.RestaurantLogo != stored.RestaurantLogo {
		t.Error("expected image URLs to be retained")
	}

	persisted, _ := repo.FindByID(ctx, stored.ID.Hex())
	if persisted.FoodName != "Mixed Avocado Lg" {
		t.Errorf("expected persisted name, got %q", persisted.FoodName)
	}
}

func TestUpdate_UploadsFreshFilePart(t *testing.T) {
	media := &stubMediaStore{}
	svc, _ := newTestService(media)
	ctx := context.Background()

	stored, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.Update(ctx, stored.ID.Hex(), models.UpdateFoodInput{
		FoodImage: jpegUpload(),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.FoodImage == stored.FoodImage {
		t.Error("expected a freshly uploaded image URL")
	}
	if updated.RestaurantLogo != stored.RestaurantLogo {
		t.Error("expected logo unchanged")
	}
}

func TestUpdate_InvalidID(t *testing.T) {
	svc, _ := newTestService(&stubMediaStore{})

	_, err := svc.Update(context.Background(), "not-an-id", models.UpdateFoodInput{})
	if !errors.Is(err, repository.ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc, _ := newTestService(&stubMediaStore{})
	ctx := context.Background()

	stored, err := svc.Create(ctx, validCreateInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(ctx, stored.ID.Hex()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := svc.Delete(ctx, stored.ID.Hex()); !errors.Is(err, repository.ErrFoodNotFound) {
		t.Errorf("expected ErrFoodNotFound, got %v", err)
	}
}
