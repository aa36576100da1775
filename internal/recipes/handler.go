package recipes

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/opyryanova/foodgram/internal/middleware"
	"github.com/opyryanova/foodgram/internal/pagination"
	"github.com/opyryanova/foodgram/internal/storage"
)

type Handler struct {
	service *Service
	logger  *zap.Logger

	// frontendBaseURL is where short links redirect to.
	frontendBaseURL string
}

func NewHandler(service *Service, frontendBaseURL string, logger *zap.Logger) *Handler {
	return &Handler{service: service, frontendBaseURL: frontendBaseURL, logger: logger}
}

func truthy(v string) bool {
	switch v {
	case "1", "true", "True", "yes", "on":
		return true
	}
	return false
}

// List handles GET /api/recipes.
func (h *Handler) List(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	params := pagination.FromQuery(c)

	f := Filter{
		TagSlugs: c.QueryArray("tags"),
		Name:     c.Query("name"),
		Limit:    params.Limit,
		Offset:   params.Offset(),
	}
	if raw := c.Query("author"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			f.AuthorID = id
		}
	}
	if viewerID > 0 && truthy(c.Query("is_favorited")) {
		f.FavoritedBy = viewerID
	}
	if viewerID > 0 && truthy(c.Query("is_in_shopping_cart")) {
		f.InCartOf = viewerID
	}

	result, count, err := h.service.List(c.Request.Context(), viewerID, f)
	if err != nil {
		h.logger.Error("list recipes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not list recipes"})
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, count, params, result))
}

// Get handles GET /api/recipes/:id. An optional ?servings=N rescales
// the ingredient amounts to the requested serving count.
func (h *Handler) Get(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	target := 0
	if raw := c.Query("servings"); raw != "" {
		// Garbage and out-of-range values are coerced, never rejected.
		if n, err := strconv.Atoi(raw); err == nil {
			target = ClampServings(n)
		}
	}

	rec, err := h.service.Get(c.Request.Context(), middleware.CurrentUserID(c), recipeID, target)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"errors": "recipe not found"})
		return
	}
	if err != nil {
		h.logger.Error("get recipe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not load recipe"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

type createRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []int64            `json:"tags"`
	Image       string             `json:"image"`
	Name        string             `json:"name"`
	Text        string             `json:"text"`
	CookingTime int                `json:"cooking_time"`
	Servings    int                `json:"servings"`
}

type updateRequest struct {
	Ingredients []IngredientAmount `json:"ingredients"`
	Tags        []int64            `json:"tags"`
	Image       *string            `json:"image"`
	Name        *string            `json:"name"`
	Text        *string            `json:"text"`
	CookingTime *int               `json:"cooking_time"`
	Servings    *int               `json:"servings"`
}

// Create handles POST /api/recipes.
func (h *Handler) Create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	rec, err := h.service.Create(c.Request.Context(), middleware.CurrentUserID(c), CreateParams{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		Servings:    req.Servings,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		h.writeError(c, err, "could not create recipe")
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// Update handles PATCH /api/recipes/:id.
func (h *Handler) Update(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	rec, err := h.service.Update(c.Request.Context(), middleware.CurrentUserID(c), recipeID, UpdateParams{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		Servings:    req.Servings,
		TagIDs:      req.Tags,
		Ingredients: req.Ingredients,
	})
	if err != nil {
		h.writeError(c, err, "could not update recipe")
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Delete handles DELETE /api/recipes/:id.
func (h *Handler) Delete(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	err := h.service.Delete(c.Request.Context(), middleware.CurrentUserID(c), recipeID)
	if err != nil {
		h.writeError(c, err, "could not delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

// Favorite handles POST /api/recipes/:id/favorite.
func (h *Handler) Favorite(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	short, err := h.service.Favorite(c.Request.Context(), middleware.CurrentUserID(c), recipeID)
	if err != nil {
		h.writeError(c, err, "could not add to favorites")
		return
	}
	c.JSON(http.StatusCreated, short)
}

// Unfavorite handles DELETE /api/recipes/:id/favorite.
func (h *Handler) Unfavorite(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	if err := h.service.Unfavorite(c.Request.Context(), middleware.CurrentUserID(c), recipeID); err != nil {
		h.writeError(c, err, "could not remove from favorites")
		return
	}
	c.Status(http.StatusNoContent)
}

type cartRequest struct {
	Servings *int `json:"servings"`
}

// AddToCart handles POST /api/recipes/:id/shopping_cart. The optional
// servings defaults to the recipe's base serving count. A duplicate
// POST answers 400 so clients retry as an update.
func (h *Handler) AddToCart(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req cartRequest
	_ = c.ShouldBindJSON(&req) // body is optional

	short, err := h.service.AddToCart(c.Request.Context(), middleware.CurrentUserID(c), recipeID, req.Servings)
	if err != nil {
		h.writeError(c, err, "could not add to shopping cart")
		return
	}
	c.JSON(http.StatusCreated, short)
}

// UpdateCart handles PATCH /api/recipes/:id/shopping_cart.
func (h *Handler) UpdateCart(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	var req cartRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Servings == nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "servings field is required"})
		return
	}

	short, err := h.service.UpdateCartServings(c.Request.Context(), middleware.CurrentUserID(c), recipeID, req.Servings)
	if err != nil {
		h.writeError(c, err, "could not update shopping cart")
		return
	}
	c.JSON(http.StatusOK, short)
}

// RemoveFromCart handles DELETE /api/recipes/:id/shopping_cart.
func (h *Handler) RemoveFromCart(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	if err := h.service.RemoveFromCart(c.Request.Context(), middleware.CurrentUserID(c), recipeID); err != nil {
		h.writeError(c, err, "could not remove from shopping cart")
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart handles GET /api/recipes/download_shopping_cart.
func (h *Handler) DownloadShoppingCart(c *gin.Context) {
	content, err := h.service.ShoppingListText(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		h.logger.Error("shopping list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not build shopping list"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(content))
}

// GetLink handles GET /api/recipes/:id/get-link.
func (h *Handler) GetLink(c *gin.Context) {
	recipeID, ok := h.recipeID(c)
	if !ok {
		return
	}

	code, err := h.service.ShortLink(c.Request.Context(), recipeID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"errors": "recipe not found"})
		return
	}
	if err != nil {
		h.logger.Error("short link failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not build short link"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	c.JSON(http.StatusOK, gin.H{
		"short-link": fmt.Sprintf("%s://%s/s/%s", scheme, c.Request.Host, code),
	})
}

// Redirect handles GET /s/:code.
func (h *Handler) Redirect(c *gin.Context) {
	recipeID, err := h.service.ResolveShortLink(c.Request.Context(), c.Param("code"))
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"errors": "unknown short link"})
		return
	}
	if err != nil {
		h.logger.Error("resolve short link failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not resolve short link"})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/recipes/%d/", h.frontendBaseURL, recipeID))
}

func (h *Handler) recipeID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "recipe not found"})
		return 0, false
	}
	return id, true
}

func (h *Handler) writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": "recipe not found"})
	case errors.Is(err, ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"errors": err.Error()})
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
	default:
		h.logger.Error(fallback, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": fallback})
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		ErrAlreadyFavorited, ErrNotFavorited,
		ErrAlreadyInCart, ErrNotInCart,
		ErrNoTags, ErrDuplicateTags, ErrUnknownTag,
		ErrNoIngredients, ErrDuplicateLines, ErrUnknownIngredient,
		ErrBadAmount, ErrBadCookingTime, ErrBadServings,
		ErrNameRequired, ErrTextRequired, ErrImageRequired,
		ErrNoMediaStore, ErrDuplicateName,
		storage.ErrNotBase64, storage.ErrInvalidImage,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
