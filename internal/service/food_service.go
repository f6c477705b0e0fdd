package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foodwagen/foodwagen/internal/models"
	"github.com/foodwagen/foodwagen/internal/repository"
	"github.com/foodwagen/foodwagen/internal/validation"
)

// MediaStore stores raw image bytes and returns a durable public URL.
type MediaStore interface {
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}

// FoodService handles the create/update request pipeline: conditional image
// upload, validation, then persistence.
type FoodService struct {
	repo   repository.FoodRepository
	media  MediaStore
	folder string
	log    *slog.Logger
}

// NewFoodService creates a new food service. folder is the media-store
// namespace the foods/ and restaurants/ subfolders live under.
func NewFoodService(repo repository.FoodRepository, media MediaStore, folder string, log *slog.Logger) *FoodService {
	return &FoodService{
		repo:   repo,
		media:  media,
		folder: folder,
		log:    log,
	}
}

// List returns all foods, filtered by a case-insensitive substring of
// food_name when nameFilter is non-empty.
func (s *FoodService) List(ctx context.Context, nameFilter string) ([]models.Food, error) {
	return s.repo.FindAll(ctx, nameFilter)
}

// Get returns a single food by id.
func (s *FoodService) Get(ctx context.Context, id string) (*models.Food, error) {
	return s.repo.FindByID(ctx, id)
}

// Create runs the full create pipeline. Both image slots must carry files;
// they are uploaded before validation runs, because validation checks the
// final URL form. A validation failure after a successful upload leaves the
// uploaded asset in place.
func (s *FoodService) Create(ctx context.Context, in models.CreateFoodInput) (*models.Food, error) {
	var errs validation.Errors
	if fe := validation.CheckFile("food_image", "Food image", in.FoodImage, validation.MaxFoodImageBytes, true); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := validation.CheckFile("restaurant_logo", "Restaurant logo", in.RestaurantLogo, validation.MaxLogoBytes, true); fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	imageURL, err := s.media.Upload(ctx, in.FoodImage.Data, s.folder+"/foods")
	if err != nil {
		return nil, fmt.Errorf("upload food image: %w", err)
	}
	logoURL, err := s.media.Upload(ctx, in.RestaurantLogo.Data, s.folder+"/restaurants")
	if err != nil {
		return nil, fmt.Errorf("upload restaurant logo: %w", err)
	}

	food, verrs := validation.Create(validation.CreateFields{
		FoodName:         in.FoodName,
		FoodPrice:        in.FoodPrice,
		FoodRating:       in.FoodRating,
		FoodImage:        imageURL,
		RestaurantName:   in.RestaurantName,
		RestaurantLogo:   logoURL,
		RestaurantStatus: in.RestaurantStatus,
	})
	if verrs != nil {
		return nil, verrs
	}

	stored, err := s.repo.Insert(ctx, food)
	if err != nil {
		return nil, err
	}

	s.log.Info("food created", "id", stored.ID.Hex(), "food_name", stored.FoodName)
	return stored, nil
}

// Update runs the partial-update pipeline. Image slots with fresh file parts
// are uploaded and replaced; slots carrying URL strings keep the supplied
// value. Only supplied fields are validated and merged.
func (s *FoodService) Update(ctx context.Context, id string, in models.UpdateFoodInput) (*models.Food, error) {
	if _, err := repository.ParseID(id); err != nil {
		return nil, err
	}

	var errs validation.Errors
	if fe := validation.CheckFile("food_image", "Food image", in.FoodImage, validation.MaxFoodImageBytes, false); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := validation.CheckFile("restaurant_logo", "Restaurant logo", in.RestaurantLogo, validation.MaxLogoBytes, false); fe != nil {
		errs = append(errs, *fe)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	imageURL := in.FoodImageURL
	if in.FoodImage != nil {
		url, err := s.media.Upload(ctx, in.FoodImage.Data, s.folder+"/foods")
		if err != nil {
			return nil, fmt.Errorf("upload food image: %w", err)
		}
		imageURL = &url
	}

	logoURL := in.RestaurantLogoURL
	if in.RestaurantLogo != nil {
		url, err := s.media.Upload(ctx, in.RestaurantLogo.Data, s.folder+"/restaurants")
		if err != nil {
			return nil, fmt.Errorf("upload restaurant logo: %w", err)
		}
		logoURL = &url
	}

	update, verrs := validation.Update(validation.UpdateFields{
		FoodName:         in.FoodName,
		FoodPrice:        in.FoodPrice,
		FoodRating:       in.FoodRating,
		FoodImage:        imageURL,
		RestaurantName:   in.RestaurantName,
		RestaurantLogo:   logoURL,
		RestaurantStatus: in.RestaurantStatus,
	})
	if verrs != nil {
		return nil, verrs
	}

	updated, err := s.repo.UpdateByID(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.log.Info("food updated", "id", id)
	return updated, nil
}

// Delete removes a food by id.
func (s *FoodService) Delete(ctx context.Context, id string) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info("food deleted", "id", id)
	return nil
}
