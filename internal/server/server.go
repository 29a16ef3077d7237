package server

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/foodgram-project/backend/config"
	"github.com/foodgram-project/backend/internal/api"
	"github.com/foodgram-project/backend/internal/database"
	"github.com/foodgram-project/backend/internal/middleware"
	"github.com/foodgram-project/backend/internal/router"
	"github.com/foodgram-project/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	engine *gin.Engine
	http   *http.Server
	db     *database.DB
	redis  *redis.Client
}

// New wires the services and handlers and creates a server instance
func New(cfg *config.Config) (*Server, error) {
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	authService := service.NewAuthService(db.DB, cfg.JWTSecret)
	userService := service.NewUserService(db.DB)
	recipeService := service.NewRecipeService(db.DB)
	shoppingService := service.NewShoppingListService(db.DB)

	var imageStorage service.ImageStorage
	if s3Cfg, err := config.NewS3Config(context.Background()); err != nil {
		log.Printf("S3 storage unavailable, image uploads disabled: %v", err)
	} else {
		imageStorage = service.NewImageService(s3Cfg)
	}

	limiter := middleware.NewRecipeWriteRateLimiter(redisClient)

	authHandler := api.NewAuthHandler(authService)
	userHandler := api.NewUserHandler(userService, authService)
	recipeHandler := api.NewRecipeHandler(recipeService, shoppingService, userService, authService, imageStorage, limiter)
	catalogHandler := api.NewCatalogHandler(db.DB)

	engine := router.SetupRouter(authHandler, userHandler, recipeHandler, catalogHandler)

	return &Server{
		engine: engine,
		db:     db,
		redis:  redisClient,
		http: &http.Server{
			Addr:    ":" + cfg.ServerPort,
			Handler: engine,
		},
	}, nil
}

// Start starts the server
func (s *Server) Start() error {
	log.Printf("Listening on %s", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	return s.redis.Close()
}
