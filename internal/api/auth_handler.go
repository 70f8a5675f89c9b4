package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asuyou/anzen-web-api/internal/auth"
	"github.com/asuyou/anzen-web-api/internal/config"
	"github.com/asuyou/anzen-web-api/internal/logger"
	"github.com/asuyou/anzen-web-api/internal/models"
	"github.com/asuyou/anzen-web-api/internal/repository"
)

// UserStore is the account persistence boundary of the auth handlers.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByName(ctx context.Context, name string) (*models.User, error)
	Exists(ctx context.Context, name string) (bool, error)
}

// AuthHandler handles login and registration requests.
type AuthHandler struct {
	cfg        *config.Config
	jwtManager *auth.JWTManager
	users      UserStore
	logger     logger.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(cfg *config.Config, jwtManager *auth.JWTManager, users UserStore, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:        cfg,
		jwtManager: jwtManager,
		users:      users,
		logger:     log,
	}
}

// CredentialsRequest is the login/register request body.
type CredentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the login response body.
type LoginResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Login verifies the credentials and issues a JWT.
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	user, err := h.users.GetByName(c.Request.Context(), req.Username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		h.logger.Error("Login lookup failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := h.jwtManager.GenerateToken(user.Name)
	if err != nil {
		h.logger.Error("Token generation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{Username: user.Name, Token: token})
}

// Register creates an account for a name on the configured allow-list.
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if !h.cfg.Auth.Allowed(req.Username) {
		c.JSON(http.StatusForbidden, gin.H{"error": "account name not permitted"})
		return
	}

	exists, err := h.users.Exists(c.Request.Context(), req.Username)
	if err != nil {
		h.logger.Error("Registration lookup failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	if exists {
		c.JSON(http.StatusConflict, gin.H{"error": "account already exists"})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("Password hashing failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	user := &models.User{Name: req.Username, PasswordHash: hash}
	if err := h.users.Create(c.Request.Context(), user); err != nil {
		h.logger.Error("User creation failed", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
