package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/rafaelleal24/catalog/internal/core/domain"
)

// LocalStorage keeps images on disk under dir and serves them from prefix.
type LocalStorage struct {
	dir    string
	prefix string
}

func NewLocalStorage(dir, prefix string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalStorage{dir: dir, prefix: "/" + strings.Trim(prefix, "/")}, nil
}

func (s *LocalStorage) Save(ctx context.Context, data []byte, filename string) (*domain.ProductImage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id, name := objectName(filename)
	if err := atomic.WriteFile(filepath.Join(s.dir, name), bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("write image %s: %w", name, err)
	}

	image := domain.NewProductImage(domain.ID(id), path.Join(s.prefix, name))
	return &image, nil
}

// Delete removes the file behind url. Unknown or already removed files are not an error.
func (s *LocalStorage) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := path.Base(strings.TrimPrefix(url, s.prefix+"/"))
	if name == "." || name == "/" || name == ".." {
		return nil
	}

	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}

// Check fails when the upload directory has disappeared or is not a directory.
func (s *LocalStorage) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("upload dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload dir %s is not a directory", s.dir)
	}
	return nil
}

func (s *LocalStorage) Close() error { return nil }
