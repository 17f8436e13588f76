package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/catalog/internal/adapters/http/handlers"
	"github.com/rafaelleal24/catalog/internal/core/domain"
	"github.com/rafaelleal24/catalog/internal/core/logger"
	"github.com/rafaelleal24/catalog/internal/core/serviceerrors"
)

const actorContextKey = "catalog.actor"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Actor, error)
}

// RequireAuth resolves the bearer token into an actor stored on the gin context.
func RequireAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := authenticator.Authenticate(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
		if err != nil {
			handlers.HandleError(c, err)
			c.Abort()
			return
		}
		c.Set(actorContextKey, actor)
		c.Request = c.Request.WithContext(logger.WithAttributes(c.Request.Context(), map[string]any{
			"user.id":   string(actor.ID),
			"user.role": string(actor.Role),
		}))
		c.Next()
	}
}

// RequireMerchant must run after RequireAuth.
func RequireMerchant() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok || !actor.IsMerchant() {
			handlers.HandleError(c, serviceerrors.NewForbiddenError("merchant only"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func ActorFrom(c *gin.Context) (*domain.Actor, bool) {
	value, ok := c.Get(actorContextKey)
	if !ok {
		return nil, false
	}
	actor, ok := value.(*domain.Actor)
	return actor, ok && actor != nil
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
