package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ayame/salon-sync-go/pkg/errors"
	"go.uber.org/zap"
)

// Client talks to the object storage REST API: bucket-scoped uploads with
// overwrite-allowed semantics and public download URLs.
type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	bucket     string
	logger     *zap.Logger
}

type Config struct {
	BaseURL    string
	ServiceKey string
	Bucket     string
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		bucket:     cfg.Bucket,
		logger:     logger,
	}
}

// Upload stores data at path inside the bucket. Existing objects are
// overwritten (x-upsert), matching the mirror's timestamped-filename scheme
// where collisions only happen on deliberate re-uploads.
func (c *Client) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return errors.NewStorageError("failed to build upload request", path, "upload", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewStorageError("upload request failed", path, "upload", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.NewStorageError(
			fmt.Sprintf("upload rejected with status %d: %s", resp.StatusCode, string(body)),
			path, "upload", nil)
	}

	c.logger.Debug("Uploaded object",
		zap.String("path", path),
		zap.String("content_type", contentType),
		zap.Int("bytes", len(data)))

	return nil
}

// PublicURL returns the stable public URL for an uploaded object.
func (c *Client) PublicURL(path string) string {
	return fmt.Sprintf("%s/object/public/%s/%s", c.baseURL, c.bucket, path)
}

// Delete removes an object. Used only by the orphan-asset prune job.
func (c *Client) Delete(ctx context.Context, path string) error {
	url := fmt.Sprintf("%s/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return errors.NewStorageError("failed to build delete request", path, "delete", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.NewStorageError("delete request failed", path, "delete", err)
	}
	defer resp.Body.Close()

	if (resp.StatusCode < 200 || resp.StatusCode >= 300) && resp.StatusCode != http.StatusNotFound {
		return errors.NewStorageError(
			fmt.Sprintf("delete rejected with status %d", resp.StatusCode),
			path, "delete", nil)
	}

	return nil
}
