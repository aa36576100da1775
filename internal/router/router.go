package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/opyryanova/foodgram/internal/auth"
	"github.com/opyryanova/foodgram/internal/ingredients"
	"github.com/opyryanova/foodgram/internal/middleware"
	"github.com/opyryanova/foodgram/internal/recipes"
	"github.com/opyryanova/foodgram/internal/tags"
	"github.com/opyryanova/foodgram/internal/users"
)

// Deps bundles everything the route table needs.
type Deps struct {
	Tokens      *auth.TokenManager
	Auth        *auth.Handler
	Users       *users.Handler
	Tags        *tags.Handler
	Ingredients *ingredients.Handler
	Recipes     *recipes.Handler

	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// New assembles the gin engine with the full API surface.
func New(d Deps) *gin.Engine {
	r := gin.Default()

	if len(d.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	if d.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(d.RateLimitRPS, d.RateLimitBurst))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	required := middleware.RequireAuth(d.Tokens)
	optional := middleware.OptionalAuth(d.Tokens)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/token/login", d.Auth.Login)
		authGroup.POST("/token/logout", d.Auth.Logout)
	}

	usersGroup := api.Group("/users")
	{
		usersGroup.POST("", d.Auth.Register)
		usersGroup.GET("", optional, d.Users.List)
		usersGroup.GET("/subscriptions", required, d.Users.Subscriptions)
		usersGroup.GET("/me", required, d.Users.Me)
		usersGroup.PUT("/me/avatar", required, d.Users.SetAvatar)
		usersGroup.DELETE("/me/avatar", required, d.Users.DeleteAvatar)
		usersGroup.GET("/:id", optional, d.Users.Get)
		usersGroup.POST("/:id/subscribe", required, d.Users.Subscribe)
		usersGroup.DELETE("/:id/subscribe", required, d.Users.Unsubscribe)
	}

	tagsGroup := api.Group("/tags")
	{
		tagsGroup.GET("", d.Tags.List)
		tagsGroup.GET("/:id", d.Tags.Get)
	}

	ingredientsGroup := api.Group("/ingredients")
	{
		ingredientsGroup.GET("", d.Ingredients.List)
		ingredientsGroup.GET("/:id", d.Ingredients.Get)
	}

	recipesGroup := api.Group("/recipes")
	{
		recipesGroup.GET("", optional, d.Recipes.List)
		recipesGroup.POST("", required, d.Recipes.Create)
		recipesGroup.GET("/download_shopping_cart", required, d.Recipes.DownloadShoppingCart)
		recipesGroup.GET("/:id", optional, d.Recipes.Get)
		recipesGroup.PATCH("/:id", required, d.Recipes.Update)
		recipesGroup.DELETE("/:id", required, d.Recipes.Delete)
		recipesGroup.GET("/:id/get-link", d.Recipes.GetLink)
		recipesGroup.POST("/:id/favorite", required, d.Recipes.Favorite)
		recipesGroup.DELETE("/:id/favorite", required, d.Recipes.Unfavorite)
		recipesGroup.POST("/:id/shopping_cart", required, d.Recipes.AddToCart)
		recipesGroup.PATCH("/:id/shopping_cart", required, d.Recipes.UpdateCart)
		recipesGroup.DELETE("/:id/shopping_cart", required, d.Recipes.RemoveFromCart)
	}

	// Short links live outside /api so they stay shareable.
	r.GET("/s/:code", d.Recipes.Redirect)

	return r
}
