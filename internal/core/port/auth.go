package port

import (
	"time"

	"github.com/rafaelleal24/catalog/internal/core/domain"
)

//go:generate mockgen -source=$GOFILE -destination=mock/$GOFILE -package=mock

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenPort interface {
	Issue(actor domain.Actor) (token string, expiresIn time.Duration, err error)
	Verify(token string) (*domain.Actor, error)
}
