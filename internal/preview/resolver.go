package preview

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hession/omnisuggest/internal/logger"
)

const (
	mediaTypeSVG  = "image/svg+xml"
	mediaTypeWebP = "image/webp"
)

// Options configures a Resolver
type Options struct {
	Dir         string
	UserAgent   string
	MaxBytes    int64
	MaxIconSize int
	Timeout     time.Duration
}

// Resolver downloads preview images into a cache directory that is emptied
// at the start of every query. Failures degrade to "no preview".
type Resolver struct {
	dir         string
	userAgent   string
	maxBytes    int64
	maxIconSize int
	client      *http.Client
}

// NewResolver creates a resolver
func NewResolver(opts Options) *Resolver {
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 5 << 20
	}
	if opts.MaxIconSize <= 0 {
		opts.MaxIconSize = 256
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = "omnisuggest/0.1"
	}
	client := &http.Client{}
	if opts.Timeout > 0 {
		client.Timeout = opts.Timeout
	}
	return &Resolver{
		dir:         opts.Dir,
		userAgent:   opts.UserAgent,
		maxBytes:    opts.MaxBytes,
		maxIconSize: opts.MaxIconSize,
		client:      client,
	}
}

// Dir returns the cache directory.
func (r *Resolver) Dir() string {
	return r.dir
}

// Purge creates the cache directory if needed and deletes every file in it.
func (r *Resolver) Purge() {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		logger.Warn("Failed to create preview directory %s: %v", r.dir, err)
		return
	}
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		logger.Warn("Failed to list preview directory %s: %v", r.dir, err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if err := os.Remove(filepath.Join(r.dir, e.Name())); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to delete cached preview %s: %v", e.Name(), err)
		}
	}
}

// Resolve downloads imageURL and returns the path of a displayable file.
// SVG and WebP images are converted to PNG.
func (r *Resolver) Resolve(ctx context.Context, imageURL string) (string, bool) {
	if strings.TrimSpace(imageURL) == "" {
		return "", false
	}
	path, err := r.resolve(ctx, imageURL)
	if err != nil {
		logger.Warn("Failed to fetch preview image %s: %v", imageURL, err)
		return "", false
	}
	return path, true
}

func (r *Resolver) resolve(ctx context.Context, imageURL string) (string, error) {
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create preview directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)
	req.Header.Set("Accept", "image/*")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if int64(len(data)) > r.maxBytes {
		return "", fmt.Errorf("image exceeds %d bytes", r.maxBytes)
	}

	mediaType := mediaTypeOf(resp.Header.Get("Content-Type"), data)
	original := filepath.Join(r.dir, uuid.NewString()+"."+extensionFor(mediaType))
	if err := os.WriteFile(original, data, 0644); err != nil {
		return "", fmt.Errorf("failed to save image: %w", err)
	}

	switch mediaType {
	case mediaTypeSVG:
		img, err := rasterizeSVG(data, r.maxIconSize)
		if err != nil {
			return "", err
		}
		return r.savePNG(img)
	case mediaTypeWebP:
		img, err := decodeWebP(data, r.maxIconSize)
		if err != nil {
			return "", err
		}
		return r.savePNG(img)
	default:
		return original, nil
	}
}

// mediaTypeOf prefers the Content-Type header and sniffs the body otherwise.
func mediaTypeOf(header string, data []byte) string {
	if header != "" {
		if mediaType, _, err := mime.ParseMediaType(header); err == nil {
			return strings.ToLower(mediaType)
		}
	}
	mediaType, _, err := mime.ParseMediaType(http.DetectContentType(data))
	if err != nil {
		return "application/octet-stream"
	}
	return mediaType
}

// extensionFor derives a file extension from the media subtype, dropping
// any structured-syntax suffix ("svg+xml" becomes "svg").
func extensionFor(mediaType string) string {
	_, subtype, ok := strings.Cut(mediaType, "/")
	if !ok {
		return "bin"
	}
	subtype, _, _ = strings.Cut(subtype, "+")
	subtype = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '.' {
			return r
		}
		return -1
	}, strings.ToLower(subtype))
	if subtype == "" {
		return "bin"
	}
	return subtype
}
