package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rafaelleal24/catalog/internal/adapters/mongo/document"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/port"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

type UserRepository struct {
	*BaseRepository[document.UserDocument]
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) port.UserPort {
	repo := &UserRepository{
		BaseRepository: NewBaseRepository[document.UserDocument](db, "users"),
		collection:     db.Collection("users"),
	}

	if err := repo.createIndexes(context.Background()); err != nil {
		logger.Error(context.Background(), "failed to create indexes", err, map[string]any{
			"collection": "users",
		})
	}

	return repo
}

func (r *UserRepository) createIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.BaseRepository.Create(ctx, document.ToUserDocument(user))
	if serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
		return serviceerrors.NewConflictError("email already exists").WithCode("EMAIL_ALREADY_EXISTS")
	}
	return err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	doc, err := r.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			return nil, serviceerrors.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return doc.ToDomain(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	doc, err := r.FindByID(ctx, string(id))
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			return nil, serviceerrors.NewNotFoundError("user not found")
		}
		return nil, err
	}
	return doc.ToDomain(), nil
}
