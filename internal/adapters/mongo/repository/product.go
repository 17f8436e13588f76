package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rafaelleal24/catalog/internal/adapters/mongo/document"
	"github.com/rafaelleal24/catalog/internal/adapters/outbox"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/port"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

type ProductRepository struct {
	*BaseRepository[document.ProductDocument]
	collection *mongo.Collection
	txManager  port.TransactionManager
	outbox     outbox.Repository
}

func NewProductRepository(db *mongo.Database, txManager port.TransactionManager, outbox outbox.Repository) port.ProductPort {
	repo := &ProductRepository{
		BaseRepository: NewBaseRepository[document.ProductDocument](db, "products"),
		collection:     db.Collection("products"),
		txManager:      txManager,
		outbox:         outbox,
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": "products",
		})
	}

	return repo
}

func (r *ProductRepository) createIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "updated_at", Value: -1},
			},
			Options: options.Index().SetUnique(false),
		},
		{
			Keys:    bson.D{{Key: "images.id", Value: 1}},
			Options: options.Index().SetUnique(false),
		},
	}

	_, err := r.collection.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *ProductRepository) GetByID(ctx context.Context, id domain.ID) (*domain.Product, error) {
	doc, err := r.FindByID(ctx, string(id))
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			return nil, serviceerrors.NewNotFoundError("product not found")
		}
		return nil, err
	}

	return doc.ToDomain(), nil
}

func (r *ProductRepository) GetByOwnerID(ctx context.Context, ownerID domain.ID) ([]*domain.Product, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "updated_at", Value: -1},
		{Key: "_id", Value: 1},
	})

	docs, err := r.Find(ctx, bson.M{"owner_id": string(ownerID)}, opts)
	if err != nil {
		return nil, err
	}

	products := make([]*domain.Product, len(docs))
	for i := range docs {
		products[i] = docs[i].ToDomain()
	}

	return products, nil
}

func (r *ProductRepository) Save(ctx context.Context, product *domain.Product, events ...domain.Event) error {
	doc := document.ToProductDocument(product)

	entries := make([]outbox.Entry, len(events))
	for i, event := range events {
		eventData, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshal %s event: %w", event.GetName(), err)
		}
		entries[i] = outbox.Entry{
			AggregateID: doc.ID,
			EventName:   event.GetName(),
			EntityName:  event.GetEntityName(),
			EventData:   eventData,
		}
	}

	if len(entries) == 0 {
		return r.Upsert(ctx, doc)
	}

	return r.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := r.Upsert(txCtx, doc); err != nil {
			return err
		}
		for _, entry := range entries {
			if err := r.outbox.Insert(txCtx, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id domain.ID) error {
	return r.DeleteByID(ctx, string(id))
}
