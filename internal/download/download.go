// Package download fetches the catalog dataset over HTTP.
package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/j-veylop/catalog-eda/internal/logger"
)

// maxErrorBody caps how much of an error response is quoted.
const maxErrorBody = 512

// Result describes the outcome of a fetch.
type Result struct {
	Path    string
	SHA256  string
	Bytes   int64
	Skipped bool
}

// Client downloads files to disk.
type Client struct {
	http   *http.Client
	notify func(title, message string) error
}

// NewClient creates a client whose requests time out after timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http = h
	return c
}

// WithNotifications enables a desktop notification after each download.
func (c *Client) WithNotifications(enabled bool) *Client {
	if enabled {
		c.notify = func(title, message string) error {
			return beeep.Notify(title, message, "")
		}
	} else {
		c.notify = nil
	}
	return c
}

// Fetch downloads url to dest unless dest already exists.
func (c *Client) Fetch(ctx context.Context, url, dest string) (Result, error) {
	if _, err := os.Stat(dest); err == nil {
		logger.Info("dataset already present, skipping download", "path", dest)
		return Result{Path: dest, Skipped: true}, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Result{}, fmt.Errorf("failed to stat %s: %w", dest, err)
	}
	return c.download(ctx, url, dest)
}

// Refetch downloads url to dest, replacing any existing file.
func (c *Client) Refetch(ctx context.Context, url, dest string) (Result, error) {
	return c.download(ctx, url, dest)
}

func (c *Client) download(ctx context.Context, url, dest string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("download request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return Result{}, fmt.Errorf("download failed (status %d): %s", resp.StatusCode, string(body))
	}

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return Result{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	hash := sha256.New()
	n, err := io.Copy(io.MultiWriter(tmp, hash), resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{}, fmt.Errorf("failed to write download: %w", err)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		return Result{}, fmt.Errorf("failed to move download into place: %w", err)
	}

	res := Result{Path: dest, SHA256: hex.EncodeToString(hash.Sum(nil)), Bytes: n}
	logger.Info("dataset downloaded", "url", url, "path", dest, "bytes", n)

	if c.notify != nil {
		_ = c.notify("Catalog dataset downloaded", fmt.Sprintf("%s (%d bytes)", filepath.Base(dest), n))
	}
	return res, nil
}
