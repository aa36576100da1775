package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/opyryanova/foodgram/internal/auth"
	"github.com/opyryanova/foodgram/internal/config"
	"github.com/opyryanova/foodgram/internal/db"
	"github.com/opyryanova/foodgram/internal/ingredients"
	"github.com/opyryanova/foodgram/internal/logging"
	"github.com/opyryanova/foodgram/internal/recipes"
	"github.com/opyryanova/foodgram/internal/router"
	"github.com/opyryanova/foodgram/internal/storage"
	"github.com/opyryanova/foodgram/internal/tags"
	"github.com/opyryanova/foodgram/internal/users"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	logger, err := logging.New()
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("connected to postgres")

	// Media storage is optional in local setups; image uploads then
	// answer 400 instead of failing startup.
	var media *storage.MediaStore
	if cfg.MediaConfigured() {
		media, err = storage.NewMediaStore(ctx, storage.MediaConfig{
			Endpoint:  cfg.MediaEndpoint,
			AccessKey: cfg.MediaAccessKey,
			SecretKey: cfg.MediaSecretKey,
			Bucket:    cfg.MediaBucket,
			BaseURL:   cfg.MediaBaseURL,
		})
		if err != nil {
			logger.Fatal("media storage init failed", zap.Error(err))
		}
	} else {
		logger.Warn("media storage not configured, image uploads disabled")
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := auth.NewPostgresUserRepository(pool)
	authService := auth.NewService(userRepo)
	authHandler := auth.NewHandler(authService, tokens, logger)

	profileRepo := users.NewPostgresRepository(pool)
	usersHandler := users.NewHandler(newUsersService(profileRepo, media), logger)

	tagsHandler := tags.NewHandler(tags.NewPostgresRepository(pool), logger)
	ingredientsHandler := ingredients.NewHandler(ingredients.NewPostgresRepository(pool), logger)

	recipeRepo := recipes.NewPostgresRepository(pool)
	recipesHandler := recipes.NewHandler(
		newRecipesService(recipeRepo, media),
		cfg.FrontendBaseURL,
		logger,
	)

	engine := router.New(router.Deps{
		Tokens:         tokens,
		Auth:           authHandler,
		Users:          usersHandler,
		Tags:           tagsHandler,
		Ingredients:    ingredientsHandler,
		Recipes:        recipesHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	logger.Info("api listening", zap.String("port", cfg.Port))
	if err := engine.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

// A nil *storage.MediaStore must become a nil interface, otherwise the
// services would call through a nil pointer.
func newUsersService(repo users.Repository, media *storage.MediaStore) *users.Service {
	if media == nil {
		return users.NewService(repo, nil)
	}
	return users.NewService(repo, media)
}

func newRecipesService(repo recipes.Repository, media *storage.MediaStore) *recipes.Service {
	if media == nil {
		return recipes.NewService(repo, nil)
	}
	return recipes.NewService(repo, media)
}
