package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/rafaelleal24/catalog/internal/adapters/mongo/document"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BaseRepository holds the CRUD operations shared by every collection keyed on a string _id.
type BaseRepository[T document.Document] struct {
	collection *mongo.Collection
}

func NewBaseRepository[T document.Document](db *mongo.Database, collectionName string) *BaseRepository[T] {
	return &BaseRepository[T]{
		collection: db.Collection(collectionName),
	}
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	if !domain.ValidateID(id) {
		return nil, serviceerrors.NewInvalidRequestError("invalid ID format")
	}

	var entity T
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entity)
	if err != nil {
		return nil, r.parseError(err)
	}

	return &entity, nil
}

func (r *BaseRepository[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, r.parseError(err)
	}
	defer cursor.Close(ctx)

	entities := make([]T, 0)
	if err = cursor.All(ctx, &entities); err != nil {
		return nil, r.parseError(err)
	}

	return entities, nil
}

func (r *BaseRepository[T]) FindOne(ctx context.Context, filter bson.M) (*T, error) {
	var entity T
	err := r.collection.FindOne(ctx, filter).Decode(&entity)
	if err != nil {
		return nil, r.parseError(err)
	}

	return &entity, nil
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	_, err := r.collection.InsertOne(ctx, entity)
	if err != nil {
		return r.parseError(err)
	}

	return nil
}

// Upsert replaces the whole document stored under the entity's id, inserting it when absent.
func (r *BaseRepository[T]) Upsert(ctx context.Context, entity *T) error {
	_, err := r.collection.ReplaceOne(
		ctx,
		bson.M{"_id": (*entity).GetID()},
		entity,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return r.parseError(err)
	}

	return nil
}

func (r *BaseRepository[T]) DeleteByID(ctx context.Context, id string) error {
	if !domain.ValidateID(id) {
		return serviceerrors.NewInvalidRequestError("invalid ID format")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return r.parseError(err)
	}

	if result.DeletedCount == 0 {
		return serviceerrors.NewNotFoundError("entity not found")
	}

	return nil
}

func (r *BaseRepository[T]) parseError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return serviceerrors.NewNotFoundError("entity not found")
	case mongo.IsDuplicateKeyError(err):
		return serviceerrors.NewConflictError("duplicate key error")
	case mongo.IsTimeout(err):
		return fmt.Errorf("%s: timed out: %w", r.collection.Name(), err)
	default:
		return fmt.Errorf("%s: %w", r.collection.Name(), err)
	}
}
