package cloudinary

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dashty/shoe-store-backend/pkg/config"
	"github.com/dashty/shoe-store-backend/pkg/logger"
)

const (
	baseEndpoint = "https://api.cloudinary.com/v1_1"
	pingTimeout  = 5 * time.Second
)

// Client talks to the Cloudinary upload API using signed requests.
type Client struct {
	httpClient *http.Client
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	endpoint   string
	now        func() time.Time
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// UploadResult is the subset of the Cloudinary response we care about.
type UploadResult struct {
	PublicID  string `json:"public_id"`
	SecureURL string `json:"secure_url"`
}

func closeBody(ctx context.Context, logg *logger.Logger, body io.Closer, msg string) {
	if body == nil {
		return
	}
	if err := body.Close(); err != nil && logg != nil {
		logg.Warn(ctx, msg)
	}
}

// NewClient builds a Cloudinary client and verifies credentials with a ping.
func NewClient(ctx context.Context, cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	if cfg.CloudName == "" {
		return nil, errors.New("cloudinary cloud name is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary api credentials are required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		folder:     cfg.Folder,
		endpoint:   baseEndpoint,
		now:        time.Now,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("cloudinary health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "cloudinary client initialized")
	}

	return client, nil
}

// Ping verifies credentials against the admin ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.httpClient == nil {
		return errors.New("cloudinary client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	u := fmt.Sprintf("%s/%s/ping", c.endpoint, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary ping returned status %d", resp.StatusCode)
	}
	return nil
}

// Upload sends image bytes to the configured folder and returns the hosted result.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	if c == nil || c.httpClient == nil {
		return nil, errors.New("cloudinary client not initialized")
	}
	if len(data) == 0 {
		return nil, errors.New("upload data is empty")
	}

	timestamp := strconv.FormatInt(c.now().UTC().Unix(), 10)
	params := map[string]string{"timestamp": timestamp}
	if c.folder != "" {
		params["folder"] = c.folder
	}
	signature := c.sign(params)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("building multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, fmt.Errorf("writing file part: %w", err)
	}
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("writing field %s: %w", key, err)
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, fmt.Errorf("writing api key: %w", err)
	}
	if err := writer.WriteField("signature", signature); err != nil {
		return nil, fmt.Errorf("writing signature: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	u := fmt.Sprintf("%s/%s/image/upload", c.endpoint, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("cloudinary upload returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var result UploadResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding upload response: %w", err)
	}
	if result.SecureURL == "" {
		return nil, errors.New("cloudinary response missing secure_url")
	}
	return &result, nil
}

// Delete removes a hosted image by its URL or public ID. Missing assets are not an error.
func (c *Client) Delete(ctx context.Context, reference string) error {
	if c == nil || c.httpClient == nil {
		return errors.New("cloudinary client not initialized")
	}

	publicID := PublicIDFromURL(reference)
	if publicID == "" {
		return errors.New("could not derive public id from reference")
	}

	timestamp := strconv.FormatInt(c.now().UTC().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}
	signature := c.sign(params)

	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", c.apiKey)
	form.Set("signature", signature)

	u := fmt.Sprintf("%s/%s/image/destroy", c.endpoint, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary destroy returned status %d", resp.StatusCode)
	}
	return nil
}

// sign computes the request signature over the sorted params joined by &.
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

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.apiSecret))
	return hex.EncodeToString(sum[:])
}

// PublicIDFromURL extracts the folder-qualified public ID from a delivery URL.
// Already-bare public IDs pass through unchanged.
func PublicIDFromURL(reference string) string {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ""
	}
	if !strings.Contains(reference, "://") {
		return reference
	}

	parsed, err := url.Parse(reference)
	if err != nil {
		return ""
	}

	// Delivery URLs look like /<cloud>/image/upload/v123/<folder>/<name>.<ext>
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	uploadIdx := -1
	for i, part := range parts {
		if part == "upload" {
			uploadIdx = i
			break
		}
	}
	if uploadIdx == -1 || uploadIdx == len(parts)-1 {
		return ""
	}

	rest := parts[uploadIdx+1:]
	if len(rest) > 0 && strings.HasPrefix(rest[0], "v") {
		if _, err := strconv.Atoi(strings.TrimPrefix(rest[0], "v")); err == nil {
			rest = rest[1:]
		}
	}
	if len(rest) == 0 {
		return ""
	}

	joined := strings.Join(rest, "/")
	ext := path.Ext(joined)
	return strings.TrimSuffix(joined, ext)
}
