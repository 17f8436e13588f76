package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/logger"
)

const gcsImagePrefix = "products/"

type GCSStorage struct {
	client    *gcs.Client
	bucket    string
	cdnDomain string
}

func NewGCSStorage(ctx context.Context, bucket, cdnDomain string, opts ...option.ClientOption) (*GCSStorage, error) {
	if bucket == "" {
		return nil, errors.New("missing STORAGE_GCS_BUCKET")
	}

	opts = append(opts, option.WithScopes(gcs.ScopeReadWrite))
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	logger.Info(ctx, "gcs image storage initialized", map[string]any{
		"bucket":     bucket,
		"cdn_domain": cdnDomain,
	})

	return &GCSStorage{client: client, bucket: bucket, cdnDomain: cdnDomain}, nil
}

func (s *GCSStorage) Save(ctx context.Context, data []byte, filename string) (*domain.ProductImage, error) {
	id, name := objectName(filename)
	key := gcsImagePrefix + name

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentTypeFor(name)
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close object writer %q: %w", key, err)
	}

	image := domain.NewProductImage(domain.ID(id), s.publicURL(key))
	return &image, nil
}

// Delete removes the object behind url. A missing object is not an error.
func (s *GCSStorage) Delete(ctx context.Context, rawURL string) error {
	key := s.keyFromURL(rawURL)
	if key == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("delete object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *GCSStorage) Check(ctx context.Context) error {
	if _, err := s.client.Bucket(s.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *GCSStorage) Close() error {
	return s.client.Close()
}

func (s *GCSStorage) publicURL(key string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

func (s *GCSStorage) keyFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || !strings.Contains(u.Path, gcsImagePrefix) {
		return ""
	}
	return gcsImagePrefix + name
}
