// Package api - Authentication handlers
package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/Ocarreno01/aira-back/internal/auth"
	"github.com/Ocarreno01/aira-back/internal/errors"
	"github.com/Ocarreno01/aira-back/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	db         *gorm.DB
	jwtService *auth.JWTService
	logger     *zap.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtService *auth.JWTService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		db:         db,
		jwtService: jwtService,
		logger:     logger.Named("auth"),
	}
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents user data in responses. The password hash never
// leaves the server.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt string    `json:"createdAt"`
}

// Register creates a new user account
// POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, errors.NewValidationError("", "invalid request body"))
		return
	}

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		respondError(c, h.logger, errors.NewValidationError("", "name, email and password are required"))
		return
	}

	var existing int64
	if err := h.db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}
	if existing > 0 {
		respondError(c, h.logger, errors.NewConflictMessageError("user", "email is already registered"))
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	user := models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: hashed,
	}
	if err := h.db.Create(&user).Error; err != nil {
		// Registration races on the unique email index; the second
		// writer sees the same conflict as the pre-check.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, h.logger, errors.NewConflictMessageError("user", "email is already registered"))
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user": UserResponse{
			ID:        user.ID,
			Name:      user.Name,
			Email:     user.Email,
			CreatedAt: user.CreatedAt.UTC().Format("2006-01-02T15:04:05.000Z"),
		},
	})
}

// Login authenticates a user and returns a signed token. Failures share a
// single response shape so callers cannot probe which emails exist.
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": false, "message": "email and password are required"})
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		c.JSON(http.StatusOK, gin.H{"status": false, "message": "email and password are required"})
		return
	}

	var user models.User
	err := h.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusOK, gin.H{"status": false, "message": "invalid credentials"})
			return
		}
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		c.JSON(http.StatusOK, gin.H{"status": false, "message": "invalid credentials"})
		return
	}

	token, err := h.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		respondError(c, h.logger, errors.NewInternalError(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": true, "token": token})
}

// Me echoes the authenticated identity extracted from the token
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, h.logger, errors.NewUnauthorizedError(""))
		return
	}

	user := gin.H{"id": userID}
	if email, exists := c.Get("user_email"); exists {
		user["email"] = email
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": user})
}
