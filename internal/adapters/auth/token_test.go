package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/rafaelleal24/catalog/internal/adapters/config"
	"github.com/rafaelleal24/catalog/internal/core/domain"
)

const testUserID = domain.ID("5f0c6d3e-8f4a-4b6e-9c1d-2a3b4c5d6e7f")

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{JWTSecret: "test-secret", JWTIssuer: "catalog", TokenTTL: time.Hour})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return svc.(*JWTService)
}

func TestJWTService_IssueAndVerify(t *testing.T) {
	svc := newTestJWTService(t)
	actor := domain.Actor{ID: testUserID, Email: "ana@example.com", Role: domain.UserRoleMerchant}

	token, expiresIn, err := svc.Issue(actor)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if expiresIn != time.Hour {
		t.Fatalf("expected 1h expiry, got %v", expiresIn)
	}

	got, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if *got != actor {
		t.Fatalf("expected %+v, got %+v", actor, *got)
	}
}

func TestJWTService_VerifyRejects(t *testing.T) {
	svc := newTestJWTService(t)
	actor := domain.Actor{ID: testUserID, Email: "ana@example.com", Role: domain.UserRoleMerchant}

	t.Run("expired token", func(t *testing.T) {
		token, _, _ := svc.Issue(actor)
		svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		defer func() { svc.now = time.Now }()

		if _, err := svc.Verify(token); err == nil {
			t.Fatal("expected error for expired token")
		}
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other, _ := NewJWTService(config.AuthConfig{JWTSecret: "other", JWTIssuer: "catalog", TokenTTL: time.Hour})
		token, _, _ := other.Issue(actor)

		if _, err := svc.Verify(token); err == nil {
			t.Fatal("expected error for foreign signature")
		}
	})

	t.Run("token from another issuer", func(t *testing.T) {
		other, _ := NewJWTService(config.AuthConfig{JWTSecret: "test-secret", JWTIssuer: "elsewhere", TokenTTL: time.Hour})
		token, _, _ := other.Issue(actor)

		if _, err := svc.Verify(token); err == nil {
			t.Fatal("expected error for foreign issuer")
		}
	})

	t.Run("unsigned token", func(t *testing.T) {
		token, _ := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
			Role:             domain.UserRoleMerchant,
			RegisteredClaims: jwt.RegisteredClaims{Subject: string(testUserID), Issuer: "catalog"},
		}).SignedString(jwt.UnsafeAllowNoneSignatureType)

		if _, err := svc.Verify(token); err == nil {
			t.Fatal("expected error for alg none")
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		token, _, _ := svc.Issue(domain.Actor{ID: testUserID, Role: "admin"})

		if _, err := svc.Verify(token); err == nil {
			t.Fatal("expected error for unknown role")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := svc.Verify("not-a-token"); err == nil {
			t.Fatal("expected error for malformed token")
		}
	})
}

func TestNewJWTService_RequiresSecret(t *testing.T) {
	if _, err := NewJWTService(config.AuthConfig{}); err == nil {
		t.Fatal("expected error for empty secret")
	}
}
