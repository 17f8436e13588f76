package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/dto"
	"github.com/rafaelleal24/catalog/internal/core/port/mock"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
	"go.uber.org/mock/gomock"
)

type authServiceMocks struct {
	users  *mock.MockUserPort
	hasher *mock.MockPasswordHasher
	tokens *mock.MockTokenPort
}

func setupAuthService(t *testing.T) (*AuthService, authServiceMocks) {
	ctrl := gomock.NewController(t)
	m := authServiceMocks{
		users:  mock.NewMockUserPort(ctrl),
		hasher: mock.NewMockPasswordHasher(ctrl),
		tokens: mock.NewMockTokenPort(ctrl),
	}
	return NewAuthService(m.users, m.hasher, m.tokens), m
}

func TestAuthService_Register(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, m := setupAuthService(t)
		req := &dto.RegisterRequest{Email: " Shop@Example.com ", Password: "secret1", Role: domain.UserRoleMerchant}

		m.users.EXPECT().GetByEmail(gomock.Any(), "shop@example.com").Return(nil, serviceerrors.NewNotFoundError("user not found"))
		m.hasher.EXPECT().Hash("secret1").Return("hashed", nil)
		m.users.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *domain.User) error {
				if u.PasswordHash != "hashed" {
					t.Fatalf("expected stored hash 'hashed', got %q", u.PasswordHash)
				}
				return nil
			})

		user, err := svc.Register(context.Background(), req)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if user.Email != "shop@example.com" {
			t.Fatalf("expected normalized email, got %q", user.Email)
		}
		if user.Role != domain.UserRoleMerchant {
			t.Fatalf("expected merchant role, got %q", user.Role)
		}
	})

	t.Run("email already exists", func(t *testing.T) {
		svc, m := setupAuthService(t)
		req := &dto.RegisterRequest{Email: "shop@example.com", Password: "secret1", Role: domain.UserRoleCustomer}

		m.users.EXPECT().GetByEmail(gomock.Any(), "shop@example.com").Return(&domain.User{ID: testOwner}, nil)

		_, err := svc.Register(context.Background(), req)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			t.Fatalf("expected conflict, got %v", err)
		}
	})

	t.Run("invalid role", func(t *testing.T) {
		svc, _ := setupAuthService(t)
		req := &dto.RegisterRequest{Email: "shop@example.com", Password: "secret1", Role: "admin"}

		_, err := svc.Register(context.Background(), req)
		if !serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			t.Fatalf("expected invalid request, got %v", err)
		}
	})

	t.Run("repository error on lookup", func(t *testing.T) {
		svc, m := setupAuthService(t)
		repoErr := errors.New("db connection failed")
		m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, repoErr)

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{Email: "a@b.co", Password: "secret1", Role: domain.UserRoleMerchant})
		if !errors.Is(err, repoErr) {
			t.Fatalf("expected %v, got %v", repoErr, err)
		}
	})
}

func TestAuthService_Login(t *testing.T) {
	user := &domain.User{ID: testOwner, Email: "shop@example.com", PasswordHash: "hashed", Role: domain.UserRoleMerchant}

	t.Run("success", func(t *testing.T) {
		svc, m := setupAuthService(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), "shop@example.com").Return(user, nil)
		m.hasher.EXPECT().Compare("hashed", "secret1").Return(nil)
		m.tokens.EXPECT().
			Issue(domain.Actor{ID: testOwner, Email: "shop@example.com", Role: domain.UserRoleMerchant}).
			Return("signed-token", time.Hour, nil)

		resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "shop@example.com", Password: "secret1"})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resp.AccessToken != "signed-token" {
			t.Fatalf("expected token 'signed-token', got %q", resp.AccessToken)
		}
		if resp.TokenType != "Bearer" {
			t.Fatalf("expected token type Bearer, got %q", resp.TokenType)
		}
		if resp.ExpiresIn != 3600 {
			t.Fatalf("expected expires_in 3600, got %d", resp.ExpiresIn)
		}
		if resp.User.ID != testOwner {
			t.Fatalf("expected user %q, got %q", testOwner, resp.User.ID)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		svc, m := setupAuthService(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, serviceerrors.NewNotFoundError("user not found"))

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "nobody@example.com", Password: "x"})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc, m := setupAuthService(t)
		m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
		m.hasher.EXPECT().Compare("hashed", "wrong").Return(errors.New("mismatch"))

		_, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "shop@example.com", Password: "wrong"})
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
}

func TestAuthService_Authenticate(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		svc, m := setupAuthService(t)
		m.tokens.EXPECT().Verify("good").Return(&domain.Actor{ID: testOwner, Role: domain.UserRoleMerchant}, nil)

		actor, err := svc.Authenticate(context.Background(), "good")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if actor.ID != testOwner {
			t.Fatalf("expected actor %q, got %q", testOwner, actor.ID)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		svc, _ := setupAuthService(t)
		_, err := svc.Authenticate(context.Background(), "")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})

	t.Run("rejected token", func(t *testing.T) {
		svc, m := setupAuthService(t)
		m.tokens.EXPECT().Verify("bad").Return(nil, errors.New("signature invalid"))

		_, err := svc.Authenticate(context.Background(), "bad")
		if !serviceerrors.IsOfKind(err, serviceerrors.KindUnauthenticated) {
			t.Fatalf("expected unauthenticated, got %v", err)
		}
	})
}
