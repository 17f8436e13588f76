package port

import (
	"context"

	"github.com/rafaelleal24/catalog/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type ImageStoragePort interface {
	Save(ctx context.Context, data []byte, filename string) (*domain.ProductImage, error)
	// Delete removes the stored bytes behind url. Deleting a missing image is not an error.
	Delete(ctx context.Context, url string) error
}
