package media

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/foodwagen/foodwagen/internal/config"
	"github.com/foodwagen/foodwagen/pkg/logger"
)

func testClient(baseURL string) *Client {
	return &Client{
		CloudName:  "demo",
		APIKey:     "key123",
		APISecret:  "secret456",
		BaseURL:    baseURL,
		HTTPClient: http.DefaultClient,
		log:        logger.New("error"),
	}
}

func TestUpload_ReturnsSecureURL(t *testing.T) {
	t.Parallel()

	var gotPath string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("failed to parse multipart form: %v", err)
		}

		if r.FormValue("api_key") != "key123" {
			t.Errorf("expected api_key field, got %q", r.FormValue("api_key"))
		}
		if r.FormValue("folder") != "foodwagen/foods" {
			t.Errorf("expected folder field, got %q", r.FormValue("folder"))
		}
		if r.FormValue("transformation") != "c_limit,h_1000,w_1000/q_auto" {
			t.Errorf("unexpected transformation %q", r.FormValue("transformation"))
		}
		if r.FormValue("public_id") == "" {
			t.Error("expected a public_id field")
		}

		// Signature must cover the sorted signed params plus the secret.
		signed := fmt.Sprintf("folder=%s&public_id=%s&timestamp=%s&transformation=%s",
			r.FormValue("folder"), r.FormValue("public_id"),
			r.FormValue("timestamp"), r.FormValue("transformation"))
		sum := sha1.Sum([]byte(signed + "secret456"))
		if r.FormValue("signature") != hex.EncodeToString(sum[:]) {
			t.Errorf("signature mismatch: got %q", r.FormValue("signature"))
		}

		file, _, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("expected file part: %v", err)
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if string(data) != "fake-image-bytes" {
			t.Errorf("unexpected file contents %q", data)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"secure_url":"https://res.cloudinary.com/demo/image/upload/v1/foodwagen/foods/abc.jpg","public_id":"foodwagen/foods/abc"}`)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	url, err := c.Upload(context.Background(), []byte("fake-image-bytes"), "foodwagen/foods")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	if url != "https://res.cloudinary.com/demo/image/upload/v1/foodwagen/foods/abc.jpg" {
		t.Errorf("unexpected url %q", url)
	}
	if gotPath != "/v1_1/demo/image/upload" {
		t.Errorf("unexpected request path %q", gotPath)
	}
}

func TestUpload_APIError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"message":"Invalid Signature"}}`)
	}))
	defer ts.Close()

	c := testClient(ts.URL)
	_, err := c.Upload(context.Background(), []byte("x"), "foodwagen/foods")
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestUpload_NotConfigured(t *testing.T) {
	t.Parallel()

	c := NewClient(config.CloudinaryConfig{}, logger.New("error"))
	_, err := c.Upload(context.Background(), []byte("x"), "foodwagen/foods")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestDestroy_DoesNotPropagateFailures(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/demo/image/destroy" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	// Must not panic or return anything on failure.
	c := testClient(ts.URL)
	c.Destroy(context.Background(), "foodwagen/foods/abc")
}
