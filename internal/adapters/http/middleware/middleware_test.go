package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuthenticator struct {
	actors map[string]*domain.Actor
}

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*domain.Actor, error) {
	if actor, ok := s.actors[token]; ok {
		return actor, nil
	}
	return nil, serviceerrors.NewUnauthenticatedError("invalid or expired token")
}

type stubLimiter struct {
	counts map[string]int
	err    error
}

func (s *stubLimiter) Allow(_ context.Context, key string, limit int, _ time.Duration) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.counts[key]++
	return s.counts[key] <= limit, nil
}

var (
	merchant = &domain.Actor{ID: "merchant-1", Email: "m@example.com", Role: domain.UserRoleMerchant}
	customer = &domain.Actor{ID: "customer-1", Email: "c@example.com", Role: domain.UserRoleCustomer}
	auth     = stubAuthenticator{actors: map[string]*domain.Actor{"m-token": merchant, "c-token": customer}}
)

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	handlers = append(handlers, func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		if actor != nil {
			c.String(http.StatusOK, string(actor.ID))
			return
		}
		c.String(http.StatusOK, "anonymous")
	})
	engine.GET("/resource", handlers...)
	return engine
}

func do(engine *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	engine := newEngine(RequireAuth(auth))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"valid bearer token", "Bearer m-token", http.StatusOK, "merchant-1"},
		{"scheme is case insensitive", "bearer c-token", http.StatusOK, "customer-1"},
		{"missing header", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic m-token", http.StatusUnauthorized, ""},
		{"unknown token", "Bearer nope", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, tt.header)
			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantBody != "" && w.Body.String() != tt.wantBody {
				t.Fatalf("expected body %q, got %q", tt.wantBody, w.Body.String())
			}
		})
	}
}

func TestRequireMerchant(t *testing.T) {
	engine := newEngine(RequireAuth(auth), RequireMerchant())

	if w := do(engine, "Bearer m-token"); w.Code != http.StatusOK {
		t.Fatalf("expected merchant to pass, got %d", w.Code)
	}
	if w := do(engine, "Bearer c-token"); w.Code != http.StatusForbidden {
		t.Fatalf("expected customer to be forbidden, got %d", w.Code)
	}

	unauthenticated := newEngine(RequireMerchant())
	if w := do(unauthenticated, ""); w.Code != http.StatusForbidden {
		t.Fatalf("expected missing actor to be forbidden, got %d", w.Code)
	}
}

func TestRateLimit(t *testing.T) {
	t.Run("blocks after limit per caller", func(t *testing.T) {
		limiter := &stubLimiter{counts: map[string]int{}}
		engine := newEngine(RequireAuth(auth), RateLimit(limiter, 2, time.Minute))

		for i := 0; i < 2; i++ {
			if w := do(engine, "Bearer m-token"); w.Code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i, w.Code)
			}
		}
		w := do(engine, "Bearer m-token")
		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", w.Code)
		}
		if w.Header().Get("Retry-After") != "60" {
			t.Fatalf("expected Retry-After 60, got %q", w.Header().Get("Retry-After"))
		}

		if w := do(engine, "Bearer c-token"); w.Code != http.StatusOK {
			t.Fatalf("expected another caller to have its own budget, got %d", w.Code)
		}
		if _, ok := limiter.counts["GET:/resource:user:merchant-1"]; !ok {
			t.Fatalf("expected actor keyed counter, got %v", limiter.counts)
		}
	})

	t.Run("anonymous callers are keyed by ip", func(t *testing.T) {
		limiter := &stubLimiter{counts: map[string]int{}}
		engine := newEngine(RateLimit(limiter, 1, time.Minute))

		do(engine, "")
		if len(limiter.counts) != 1 {
			t.Fatalf("expected one counter, got %v", limiter.counts)
		}
		for key := range limiter.counts {
			if key != "GET:/resource:ip:192.0.2.1" {
				t.Fatalf("unexpected key %q", key)
			}
		}
	})

	t.Run("fails open when limiter errors", func(t *testing.T) {
		limiter := &stubLimiter{counts: map[string]int{}, err: errors.New("redis down")}
		engine := newEngine(RateLimit(limiter, 0, time.Minute))

		if w := do(engine, ""); w.Code != http.StatusOK {
			t.Fatalf("expected request to pass, got %d", w.Code)
		}
	})
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"http://localhost:3000"}))
	engine.GET("/resource", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/resource", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected disallowed origin to be rejected, got %d", w.Code)
	}
}

func TestLogRequest_RequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(LogRequest())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Header().Get(RequestIDHeader) == "" {
			t.Fatal("expected generated request id")
		}
	})

	t.Run("echoes the caller id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		if got := w.Header().Get(RequestIDHeader); got != "req-42" {
			t.Fatalf("expected echoed request id, got %q", got)
		}
	})
}
