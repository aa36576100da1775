package auth

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service *Service
	tokens  *TokenManager
	logger  *zap.Logger
}

func NewHandler(service *Service, tokens *TokenManager, logger *zap.Logger) *Handler {
	return &Handler{service: service, tokens: tokens, logger: logger}
}

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/users.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	user, err := h.service.Register(
		c.Request.Context(),
		req.Username, req.Email, req.FirstName, req.LastName, req.Password,
	)
	switch {
	case err == nil:
	case errors.Is(err, ErrMissingFields),
		errors.Is(err, ErrInvalidUsername),
		errors.Is(err, ErrForbiddenUsername),
		errors.Is(err, ErrEmailTaken),
		errors.Is(err, ErrUsernameTaken):
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	default:
		h.logger.Error("register failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// Login handles POST /api/auth/token/login. The login may arrive in any
// of the login/email/username fields; email or username both work.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": "invalid request body"})
		return
	}

	login := req.Login
	if login == "" {
		login = req.Email
	}
	if login == "" {
		login = req.Username
	}

	user, err := h.service.Login(c.Request.Context(), login, req.Password)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.logger.Error("token generation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"errors": "could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

// Logout handles POST /api/auth/token/logout. Bearer tokens are stateless,
// the client just drops its copy.
func (h *Handler) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
