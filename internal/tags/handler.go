package tags

import (
	"errors"
	"net/http"
	"strconv"

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

// List handles GET /api/tags. The tag dictionary is small, no pagination.
func (h *Handler) List(c *gin.Context) {
	tags, err := h.repo.List(c.Request.Context())
	if err != nil {
		h.logger.Error("list tags failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not list tags"})
		return
	}
	c.JSON(http.StatusOK, tags)
}

// Get handles GET /api/tags/:id.
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "tag not found"})
		return
	}

	tag, err := h.repo.Get(c.Request.Context(), id)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"errors": "tag not found"})
		return
	}
	if err != nil {
		h.logger.Error("get tag failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not load tag"})
		return
	}
	c.JSON(http.StatusOK, tag)
}
