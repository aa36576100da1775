package ingredients

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	repo   Repository
	logger *zap.Logger
}

func NewHandler(repo Repository, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, logger: logger}
}

// List handles GET /api/ingredients?name=. Unpaginated, like the tag
// dictionary; the frontend autocomplete consumes the whole result.
func (h *Handler) List(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))

	items, err := h.repo.Search(c.Request.Context(), name)
	if err != nil {
		h.logger.Error("search ingredients failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not list ingredients"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get handles GET /api/ingredients/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "ingredient not found"})
		return
	}

	ing, err := h.repo.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"errors": "ingredient not found"})
		return
	}
	if err != nil {
		h.logger.Error("get ingredient failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not load ingredient"})
		return
	}
	c.JSON(http.StatusOK, ing)
}
