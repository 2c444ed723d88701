package download

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; rv:109.0) Gecko/20100101 Firefox/115.0"

// DefaultMaxBytes caps a single tile image download.
const DefaultMaxBytes = 32 << 20

var (
	// ErrNotImage is returned when the response is neither typed nor named as an image.
	ErrNotImage = errors.New("download: not an image")
	// ErrTooLarge is returned when the body exceeds MaxBytes.
	ErrTooLarge = errors.New("download: image too large")
)

// Client fetches remote tile images into a cache directory. The cache file name is derived
// from the URL, so a second Fetch of the same URL does not touch the network.
type Client struct {
	Dir       string
	HTTP      *http.Client
	UserAgent string
	MaxBytes  int64
}

// New returns a client caching into dir with the given request timeout.
func New(dir string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		Dir:       dir,
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: defaultUserAgent,
		MaxBytes:  DefaultMaxBytes,
	}
}

// Fetch returns the local path of the image at url, downloading it if it is not cached.
func (c *Client) Fetch(ctx context.Context, url string) (savedPath string, err error) {
	key := cacheKey(url)
	if p, ok := c.cached(key); ok {
		return p, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "image/*")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	ext := extensionFromContentType(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = extensionFromURL(url)
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %s", ErrNotImage, resp.Header.Get("Content-Type"))
	}

	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	tmp, err := os.CreateTemp(c.Dir, key+"-*.part")
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer os.Remove(tmp.Name())

	limit := c.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBytes
	}
	n, err := io.Copy(tmp, io.LimitReader(resp.Body, limit+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if n > limit {
		return "", ErrTooLarge
	}
	savedPath = filepath.Join(c.Dir, key+ext)
	if err := os.Rename(tmp.Name(), savedPath); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

func (c *Client) cached(key string) (string, bool) {
	for _, ext := range imageExtensions {
		p := filepath.Join(c.Dir, key+ext)
		if fi, err := os.Stat(p); err == nil && fi.Mode().IsRegular() && fi.Size() > 0 {
			return p, true
		}
	}
	return "", false
}

func cacheKey(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:12])
}

var imageExtensions = []string{".png", ".jpg", ".gif", ".webp"}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = ct[:idx]
	}
	switch {
	case strings.Contains(ct, "png"):
		return ".png"
	case strings.Contains(ct, "jpeg"), strings.Contains(ct, "jpg"):
		return ".jpg"
	case strings.Contains(ct, "gif"):
		return ".gif"
	case strings.Contains(ct, "webp"):
		return ".webp"
	}
	return ""
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".gif", ".webp":
		return ext
	case ".jpg", ".jpeg":
		return ".jpg"
	}
	return ""
}
