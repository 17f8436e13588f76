package service

import (
	"context"
	"strings"

	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/dto"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/port"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

const tokenTypeBearer = "Bearer"

type AuthService struct {
	userRepository port.UserPort
	hasher         port.PasswordHasher
	tokens         port.TokenPort
}

func NewAuthService(userRepository port.UserPort, hasher port.PasswordHasher, tokens port.TokenPort) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		hasher:         hasher,
		tokens:         tokens,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, request *dto.RegisterRequest) (*domain.User, error) {
	if !request.Role.IsValid() {
		return nil, serviceerrors.NewInvalidRequestError("invalid role")
	}
	email := normalizeEmail(request.Email)

	existing, err := s.userRepository.GetByEmail(ctx, email)
	if err != nil && !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, serviceerrors.NewConflictError("email already exists").WithCode("EMAIL_ALREADY_EXISTS")
	}

	hash, err := s.hasher.Hash(request.Password)
	if err != nil {
		logger.Error(ctx, "auth: hash password failed", err, map[string]any{
			"email": email,
		})
		return nil, err
	}

	user := domain.NewUser(email, hash, request.Role)
	if err := s.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "User registered", map[string]any{
		"user_id": user.ID,
		"role":    user.Role,
	})
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.LoginResponse, error) {
	invalid := serviceerrors.NewUnauthenticatedError("invalid credentials").WithCode("INVALID_CREDENTIALS")

	user, err := s.userRepository.GetByEmail(ctx, normalizeEmail(request.Email))
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			return nil, invalid
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, request.Password); err != nil {
		logger.Warn(ctx, "auth: password mismatch", map[string]any{
			"user_id": user.ID,
		})
		return nil, invalid
	}

	token, expiresIn, err := s.tokens.Issue(domain.Actor{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		logger.Error(ctx, "auth: issue token failed", err, map[string]any{
			"user_id": user.ID,
		})
		return nil, err
	}

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int64(expiresIn.Seconds()),
		User:        dto.NewUserResponse(user),
	}, nil
}

// Authenticate resolves a bearer token to the caller it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.Actor, error) {
	if token == "" {
		return nil, serviceerrors.NewUnauthenticatedError("missing bearer token")
	}
	actor, err := s.tokens.Verify(token)
	if err != nil {
		logger.Debug(ctx, "auth: token rejected", map[string]any{
			"reason": err.Error(),
		})
		return nil, serviceerrors.NewUnauthenticatedError("invalid or expired token")
	}
	return actor, nil
}
