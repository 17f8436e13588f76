package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/rafaelleal24/catalog/internal/adapters/config"
	"github.com/rafaelleal24/catalog/internal/core/port"
)

// Backend is an image store that can also report its health and release its resources.
type Backend interface {
	port.ImageStoragePort
	Check(ctx context.Context) error
	Close() error
}

// New builds the image store selected by cfg.Driver.
func New(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Driver {
	case config.StorageDriverLocal:
		return NewLocalStorage(cfg.UploadDir, cfg.PublicPrefix)
	case config.StorageDriverGCS:
		return NewGCSStorage(ctx, cfg.GCSBucket, cfg.CDNDomain)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// objectName returns a fresh image id and the stored object name "<id><ext>".
func objectName(filename string) (string, string) {
	id := ulid.Make().String()
	return id, id + strings.ToLower(filepath.Ext(filename))
}

func contentTypeFor(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	default:
		return "application/octet-stream"
	}
}

var (
	_ Backend = (*LocalStorage)(nil)
	_ Backend = (*GCSStorage)(nil)
)
