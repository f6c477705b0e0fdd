package media

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/foodwagen/foodwagen/internal/config"
)

const defaultBaseURL = "https://api.cloudinary.com"

// uploadTransformation caps stored images at 1000x1000 with automatic quality.
const uploadTransformation = "c_limit,h_1000,w_1000/q_auto"

// ErrNotConfigured is returned when Cloudinary credentials are missing.
var ErrNotConfigured = errors.New("cloudinary is not configured; set CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")

// Client talks to the Cloudinary upload API. It stores raw image bytes and
// returns durable public URLs.
type Client struct {
	CloudName string
	APIKey    string
	APISecret string

	// BaseURL overrides the Cloudinary endpoint, used by tests.
	BaseURL    string
	HTTPClient *http.Client

	log *slog.Logger
}

// NewClient creates a Cloudinary client from configuration. Missing
// credentials are logged immediately; calls will fail with ErrNotConfigured.
func NewClient(cfg config.CloudinaryConfig, log *slog.Logger) *Client {
	c := &Client{
		CloudName: cfg.CloudName,
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
		log:       log,
	}
	if !cfg.Configured() {
		log.Warn("cloudinary credentials missing, image uploads will fail",
			"missing", strings.Join(cfg.MissingKeys(), ", "))
	}
	return c
}

// Configured reports whether all credentials are present.
func (c *Client) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload stores image bytes under the given folder and returns the durable
// secure URL. The stored image is limited to 1000x1000 with automatic
// quality.
func (c *Client) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	params := map[string]string{
		"folder":         folder,
		"public_id":      uuid.NewString(),
		"timestamp":      strconv.FormatInt(time.Now().Unix(), 10),
		"transformation": uploadTransformation,
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, value := range params {
		if err := mw.WriteField(key, value); err != nil {
			return "", fmt.Errorf("write upload field: %w", err)
		}
	}
	if err := mw.WriteField("api_key", c.APIKey); err != nil {
		return "", fmt.Errorf("write upload field: %w", err)
	}
	if err := mw.WriteField("signature", c.sign(params)); err != nil {
		return "", fmt.Errorf("write upload field: %w", err)
	}
	part, err := mw.CreateFormFile("file", "upload")
	if err != nil {
		return "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("write file part: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("upload"), &body)
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return "", fmt.Errorf("execute upload request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read upload response: %w", err)
	}

	var result uploadResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("decode upload response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || result.SecureURL == "" {
		msg := result.Error.Message
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return "", fmt.Errorf("cloudinary upload failed (status %d): %s", resp.StatusCode, msg)
	}

	c.log.Info("image uploaded", "folder", folder, "public_id", result.PublicID)
	return result.SecureURL, nil
}

// Destroy removes a stored asset by public id. Deletion is best-effort:
// failures are logged and never propagated.
func (c *Client) Destroy(ctx context.Context, publicID string) {
	if !c.Configured() {
		c.log.Error("cannot delete cloudinary asset", "public_id", publicID, "error", ErrNotConfigured)
		return
	}

	params := map[string]string{
		"public_id": publicID,
		"timestamp": strconv.FormatInt(time.Now().Unix(), 10),
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.APIKey)
	form.Set("signature", c.sign(params))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("destroy"), strings.NewReader(form.Encode()))
	if err != nil {
		c.log.Error("failed to create destroy request", "public_id", publicID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.log.Error("failed to delete cloudinary asset", "public_id", publicID, "error", err)
		return
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.log.Error("cloudinary destroy returned non-200", "public_id", publicID, "status", resp.StatusCode)
	}
}

// sign produces the Cloudinary request signature: SHA-1 over the
// alphabetically sorted parameters joined as a query string, followed by the
// API secret.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.APISecret))
	return hex.EncodeToString(sum[:])
}

func (c *Client) endpoint(action string) string {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	return fmt.Sprintf("%s/v1_1/%s/image/%s", strings.TrimRight(base, "/"), c.CloudName, action)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: 30 * time.Second}
}
