package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Storage is the blob store behind product images and avatars.
type Storage interface {
	// Save stores a file at the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error

	// DeleteMany removes several keys in one call where the backend allows it
	DeleteMany(ctx context.Context, keys []string) error

	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the public URL for a key
	GetURL(ctx context.Context, key string) (string, error)

	// PathFromURL maps a public URL produced by GetURL back to its key, or "" if it is foreign.
	PathFromURL(url string) string
}

type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	AccountID  string // For R2
	UseSSL     bool   // For S3/R2
	PublicRead bool   // Make files public by default
}

func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// NewKey builds "<folder>/<uuid>.<ext>".
func NewKey(folder, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	return path.Join(folder, uuid.NewString()+"."+ext)
}

// keyFromURL strips baseURL from rawURL. It returns "" when rawURL is not under baseURL.
func keyFromURL(baseURL, rawURL string) string {
	prefix := strings.TrimSuffix(baseURL, "/") + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return ""
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key
}
