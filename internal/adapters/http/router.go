package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafaelleal24/catalog/internal/adapters/config"
	"github.com/rafaelleal24/catalog/internal/adapters/http/controllers"
	"github.com/rafaelleal24/catalog/internal/adapters/http/middleware"
)

type Router struct {
	healthController  *controllers.HealthController
	authController    *controllers.AuthController
	productController *controllers.ProductController
	authenticator     middleware.Authenticator
	rateLimiter       middleware.RateLimiter
	config            *config.Config
}

func NewRouter(
	healthController *controllers.HealthController,
	authController *controllers.AuthController,
	productController *controllers.ProductController,
	authenticator middleware.Authenticator,
	rateLimiter middleware.RateLimiter,
	config *config.Config,
) *Router {
	return &Router{
		healthController:  healthController,
		authController:    authController,
		productController: productController,
		authenticator:     authenticator,
		rateLimiter:       rateLimiter,
		config:            config,
	}
}

func (r *Router) SetupRoutes(router *gin.Engine) {
	rl := r.rateLimiter
	limits := r.config.RateLimit

	router.Use(middleware.CORS(r.config.HTTP.AllowedOrigins))
	router.MaxMultipartMemory = r.config.Storage.MaxUploadBytes

	if r.config.Storage.Driver == config.StorageDriverLocal {
		router.Static(r.config.Storage.PublicPrefix, r.config.Storage.UploadDir)
	}

	apiGroup := router.Group("/api")
	v1Group := apiGroup.Group("/v1")
	{
		v1Group.Use(middleware.LogRequest())
		v1Group.GET("/health", r.healthController.Health)

		authGroup := v1Group.Group("/auth")
		authGroup.Use(middleware.RateLimit(rl, limits.AuthLimit, limits.Window))
		authGroup.POST("/register", r.authController.Register)
		authGroup.POST("/login", r.authController.Login)

		productGroup := v1Group.Group("/products")
		productGroup.Use(middleware.RequireAuth(r.authenticator), middleware.RequireMerchant())
		writeLimit := middleware.RateLimit(rl, limits.WriteLimit, limits.Window)
		productGroup.POST("", writeLimit, r.productController.CreateProduct)
		productGroup.PUT("/:id", writeLimit, r.productController.EditProduct)
		productGroup.GET("", r.productController.ListProducts)
		productGroup.GET("/:id", r.productController.GetProduct)
	}
}

func (r *Router) ListenAndServe(ctx context.Context, config config.HTTPConfig) error {
	engine := gin.Default()
	r.SetupRoutes(engine)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", config.BindInterface, config.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
