package users

import (
	"errors"
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
}

func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List handles GET /api/users.
func (h *Handler) List(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)
	params := pagination.FromQuery(c)

	result, count, err := h.service.List(c.Request.Context(), viewerID, params.Limit, params.Offset())
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not list users"})
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, count, params, result))
}

// Get handles GET /api/users/:id.
func (h *Handler) Get(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	}

	user, err := h.service.Get(c.Request.Context(), middleware.CurrentUserID(c), userID)
	if errors.Is(err, ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	}
	if err != nil {
		h.logger.Error("get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not load user"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// Me handles GET /api/users/me.
func (h *Handler) Me(c *gin.Context) {
	viewerID := middleware.CurrentUserID(c)

	user, err := h.service.Get(c.Request.Context(), viewerID, viewerID)
	if err != nil {
		h.logger.Error("get me failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, user)
}

type avatarRequest struct {
	Avatar string `json:"avatar"`
}

// SetAvatar handles PUT /api/users/me/avatar.
func (h *Handler) SetAvatar(c *gin.Context) {
	var req avatarRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Avatar == "" {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "avatar field is required"})
		return
	}

	url, err := h.service.SetAvatar(c.Request.Context(), middleware.CurrentUserID(c), req.Avatar)
	switch {
	case err == nil:
	case errors.Is(err, storage.ErrNotBase64), errors.Is(err, storage.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	case errors.Is(err, ErrNoMediaStore):
		c.JSON(http.StatusBadRequest, gin.H{"errors": ErrNoMediaStore.Error()})
		return
	default:
		h.logger.Error("set avatar failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not store avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

// DeleteAvatar handles DELETE /api/users/me/avatar.
func (h *Handler) DeleteAvatar(c *gin.Context) {
	if err := h.service.DeleteAvatar(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		h.logger.Error("delete avatar failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not delete avatar"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions handles GET /api/users/subscriptions.
func (h *Handler) Subscriptions(c *gin.Context) {
	params := pagination.FromQuery(c)

	recipesLimit := -1
	if raw := c.Query("recipes_limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": "recipes_limit must be a non-negative integer"})
			return
		}
		recipesLimit = n
	}

	authors, count, err := h.service.Subscriptions(
		c.Request.Context(), middleware.CurrentUserID(c),
		params.Limit, params.Offset(), recipesLimit,
	)
	if err != nil {
		h.logger.Error("list subscriptions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not list subscriptions"})
		return
	}
	c.JSON(http.StatusOK, pagination.NewPage(c, count, params, authors))
}

// Subscribe handles POST /api/users/:id/subscribe.
func (h *Handler) Subscribe(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	}

	author, err := h.service.Subscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	case errors.Is(err, ErrSelfSubscribe), errors.Is(err, ErrAlreadySubscribed):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	default:
		h.logger.Error("subscribe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not subscribe"})
		return
	}

	c.JSON(http.StatusCreated, author)
}

// Unsubscribe handles DELETE /api/users/:id/subscribe.
func (h *Handler) Unsubscribe(c *gin.Context) {
	authorID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	}

	err = h.service.Unsubscribe(c.Request.Context(), middleware.CurrentUserID(c), authorID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"errors": "user not found"})
		return
	case errors.Is(err, ErrNotSubscribed):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	default:
		h.logger.Error("unsubscribe failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not unsubscribe"})
		return
	}

	c.Status(http.StatusNoContent)
}
