package auth

import (
	"errors"
	"net/http"

	"rentanything/internal/middleware"
	"rentanything/internal/pkg/response"
	"rentanything/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Handler manages the HTTP side of authentication and profiles
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	authGroup := v1.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	userGroup := protected.Group("/users")
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.PATCH("/me", h.UpdateProfile)
	}
}

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	user, err := h.service.Register(c.Request.Context(), req)
	if errors.Is(err, ErrPasswordTooLong) {
		response.ValidationError(c, map[string]string{"password": "Password must be at most 72 bytes"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *Handler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	user, err := h.service.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, validator.Translate(err))
		return
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if errors.Is(err, ErrPasswordTooLong) {
		response.ValidationError(c, map[string]string{"newPassword": "New password must be at most 72 bytes"})
		return
	}
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "EMAIL_EXISTS", "This email is already registered")
	case errors.Is(err, ErrInvalidCredentials):
		response.Error(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	case errors.Is(err, ErrUserNotFound):
		response.Error(c, http.StatusNotFound, response.CodeNotFound, "User not found")
	case errors.Is(err, ErrCurrentPasswordMissing):
		response.ValidationError(c, map[string]string{"currentPassword": "Current password is required"})
	case errors.Is(err, ErrCurrentPasswordWrong):
		response.Error(c, http.StatusUnauthorized, "INVALID_PASSWORD", "Current password is incorrect")
	default:
		response.Internal(c, err)
	}
}
