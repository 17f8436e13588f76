package port

import (
	"context"

	"github.com/rafaelleal24/catalog/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type ProductPort interface {
	GetByID(ctx context.Context, id domain.ID) (*domain.Product, error)
	// GetByOwnerID returns the owner's products, most recently updated first.
	GetByOwnerID(ctx context.Context, ownerID domain.ID) ([]*domain.Product, error)
	// Save inserts or replaces the product, including its image order, and records the
	// events in the outbox within the same transaction.
	Save(ctx context.Context, product *domain.Product, events ...domain.Event) error
	Delete(ctx context.Context, id domain.ID) error
}
