package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default per-call timeouts. Upload-bearing calls get more headroom.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultUploadTimeout = 30 * time.Second
)

// Config configures a Client. RetryAttempts and RetryDelay are reserved for
// a future automatic-retry mode and are not consulted by any call path.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	UploadTimeout time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
	HTTPClient    *http.Client
}

// Client is the HTTP gateway to the food API. Every method issues one call
// and translates the response into MealViews. Transport and HTTP errors are
// normalized into a small set of human-readable messages.
type Client struct {
	baseURL       string
	http          *http.Client
	timeout       time.Duration
	uploadTimeout time.Duration
}

// New creates a client for the API rooted at cfg.BaseURL (e.g.
// "http://localhost:8080/api").
func New(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout == 0 {
		uploadTimeout = DefaultUploadTimeout
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		http:          httpClient,
		timeout:       timeout,
		uploadTimeout: uploadTimeout,
	}
}

// ListMeals fetches all meals.
func (c *Client) ListMeals(ctx context.Context) ([]MealView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, "/foods")
	if err != nil {
		return nil, normalizeTimeout(err, "Request timed out. Please check your connection.", "Failed to fetch meals. Please try again later.")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeMeals(resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.New("Meals not found.")
	case resp.StatusCode >= 500:
		return nil, errors.New("Server error. Please try again later.")
	default:
		return nil, errors.New("Failed to fetch meals. Please try again later.")
	}
}

// GetMeal fetches one meal by id.
func (c *Client) GetMeal(ctx context.Context, id string) (MealView, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, "/foods/"+url.PathEscape(id))
	if err != nil {
		return MealView{}, errors.New("Failed to fetch meal details.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MealView{}, errors.New("Failed to fetch meal details.")
	}

	var record FoodRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return MealView{}, errors.New("Failed to fetch meal details.")
	}
	return toMealView(record), nil
}

// SearchMeals searches meals by a case-insensitive name substring. A blank
// query or a 404 yields an empty result, not an error.
func (c *Client) SearchMeals(ctx context.Context, query string) ([]MealView, error) {
	if strings.TrimSpace(query) == "" {
		return []MealView{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.get(ctx, "/foods/search?name="+url.QueryEscape(query))
	if err != nil {
		return nil, normalizeTimeout(err, "Search timed out. Please try again.", "Failed to search meals. Please try again.")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return decodeMeals(resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		return []MealView{}, nil
	case resp.StatusCode >= 500:
		return nil, errors.New("Server error. Please try again later.")
	default:
		return nil, errors.New("Failed to search meals. Please try again.")
	}
}

// CreateMeal creates a meal from multipart fields plus both image files.
func (c *Client) CreateMeal(ctx context.Context, meal NewMeal) (MealView, error) {
	body, contentType, err := encodeCreateForm(meal)
	if err != nil {
		return MealView{}, errors.New("Failed to create meal. Please try again.")
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	resp, err := c.send(ctx, http.MethodPost, "/foods", body, contentType)
	if err != nil {
		return MealView{}, normalizeTimeout(err, "Upload timed out. Please try again or use smaller images.", "Failed to create meal. Please try again.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return MealView{}, mutationError(resp.StatusCode, "Failed to create meal. Please try again.")
	}

	var record FoodRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return MealView{}, errors.New("Failed to create meal. Please try again.")
	}
	return toMealView(record), nil
}

// UpdateMeal updates a meal. Image slots carrying URLs keep the existing
// stored images.
func (c *Client) UpdateMeal(ctx context.Context, id string, meal MealEdit) (MealView, error) {
	body, contentType, err := encodeEditForm(meal)
	if err != nil {
		return MealView{}, errors.New("Failed to update meal. Please try again.")
	}

	ctx, cancel := context.WithTimeout(ctx, c.uploadTimeout)
	defer cancel()

	resp, err := c.send(ctx, http.MethodPut, "/foods/"+url.PathEscape(id), body, contentType)
	if err != nil {
		return MealView{}, normalizeTimeout(err, "Upload timed out. Please try again or use smaller images.", "Failed to update meal. Please try again.")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return MealView{}, mutationError(resp.StatusCode, "Failed to update meal. Please try again.")
	}

	var record FoodRecord
	if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
		return MealView{}, errors.New("Failed to update meal. Please try again.")
	}
	return toMealView(record), nil
}

// DeleteMeal deletes a meal by id.
func (c *Client) DeleteMeal(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/foods/"+url.PathEscape(id), nil)
	if err != nil {
		return errors.New("Failed to delete meal. Please try again.")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return normalizeTimeout(err, "Request timed out. Please try again.", "Failed to delete meal. Please try again.")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return errors.New("Meal not found.")
	case resp.StatusCode >= 500:
		return errors.New("Server error. Please try again later.")
	default:
		return errors.New("Failed to delete meal. Please try again.")
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return c.http.Do(req)
}

func (c *Client) send(ctx context.Context, method, path string, body *bytes.Buffer, contentType string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	return c.http.Do(req)
}

func decodeMeals(body io.Reader) ([]MealView, error) {
	var records []FoodRecord
	if err := json.NewDecoder(body).Decode(&records); err != nil {
		return nil, errors.New("Failed to fetch meals. Please try again later.")
	}
	return toMealViews(records), nil
}

// mutationError maps create/update failure statuses to fixed messages.
func mutationError(status int, fallback string) error {
	switch {
	case status == http.StatusBadRequest:
		return errors.New("Invalid data provided. Please check your inputs.")
	case status == http.StatusNotFound:
		return errors.New("Meal not found.")
	case status == http.StatusRequestEntityTooLarge:
		return errors.New("Files are too large. Please use smaller images.")
	case status >= 500:
		return errors.New("Server error. Please try again later.")
	default:
		return errors.New(fallback)
	}
}

// normalizeTimeout hides raw transport errors behind fixed messages,
// distinguishing only timeouts.
func normalizeTimeout(err error, timeoutMsg, fallback string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.New(timeoutMsg)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.New(timeoutMsg)
	}
	return errors.New(fallback)
}

func encodeCreateForm(meal NewMeal) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := writeMealFields(mw, meal.Name, meal.Price, meal.Rating, meal.RestaurantName, meal.Status); err != nil {
		return nil, "", err
	}
	if err := writeFilePart(mw, "food_image", meal.Image); err != nil {
		return nil, "", err
	}
	if err := writeFilePart(mw, "restaurant_logo", meal.Logo); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &body, mw.FormDataContentType(), nil
}

func encodeEditForm(meal MealEdit) (*bytes.Buffer, string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := writeMealFields(mw, meal.Name, meal.Price, meal.Rating, meal.RestaurantName, meal.Status); err != nil {
		return nil, "", err
	}
	if err := writeImageSource(mw, "food_image", meal.Image); err != nil {
		return nil, "", err
	}
	if err := writeImageSource(mw, "restaurant_logo", meal.Logo); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &body, mw.FormDataContentType(), nil
}

func writeMealFields(mw *multipart.Writer, name string, price, rating float64, restaurant, status string) error {
	fields := map[string]string{
		"food_name":         name,
		"food_price":        strconv.FormatFloat(price, 'f', -1, 64),
		"food_rating":       strconv.FormatFloat(rating, 'f', -1, 64),
		"restaurant_name":   restaurant,
		"restaurant_status": status,
	}
	for field, value := range fields {
		if err := mw.WriteField(field, value); err != nil {
			return err
		}
	}
	return nil
}

func writeFilePart(mw *multipart.Writer, field string, file ImageFile) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Name))
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(file.Data)
	return err
}

// writeImageSource writes a fresh file part, or echoes the existing URL as a
// plain field so the server keeps it.
func writeImageSource(mw *multipart.Writer, field string, source ImageSource) error {
	if source.File != nil {
		return writeFilePart(mw, field, *source.File)
	}
	if source.URL != "" {
		return mw.WriteField(field, source.URL)
	}
	return nil
}
