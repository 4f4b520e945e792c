package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mkrishnan-neu/user-directory/internal/database/repository"
	"github.com/mkrishnan-neu/user-directory/internal/database/service"
)

// UserHandler handles HTTP requests for the user directory
type UserHandler struct {
	service service.UserService
	logger  *slog.Logger
}

// NewUserHandler creates a new user handler
func NewUserHandler(service service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

// Request/Response DTOs
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type EditUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type DeleteUserRequest struct {
	Email string `json:"email" binding:"required"`
}

type UserResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateUser handles POST /user/create
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid create request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Name, email and password required."})
		return
	}

	if err := h.service.CreateUser(req.Name, req.Email, req.Password); err != nil {
		h.handleServiceError(c, err, "User not found",
			"Name should be atleast 6 characters and email should be neu mailid only or user already exists")
		return
	}

	c.String(http.StatusOK, "User created")
}

// EditUser handles PUT /user/edit
func (h *UserHandler) EditUser(c *gin.Context) {
	var req EditUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid edit request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Email required."})
		return
	}

	if err := h.service.EditUser(req.Email, req.Name, req.Password); err != nil {
		h.handleServiceError(c, err, "User not found", "Failed to update user")
		return
	}

	c.String(http.StatusOK, "User updated")
}

// DeleteUser handles DELETE /user/delete
func (h *UserHandler) DeleteUser(c *gin.Context) {
	var req DeleteUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("❌ [Handler] Invalid delete request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request. Email required."})
		return
	}

	if err := h.service.DeleteUser(req.Email); err != nil {
		h.handleServiceError(c, err,
			"User not found (enter email address only for deletion)",
			"Please send a valid delete request")
		return
	}

	c.String(http.StatusOK, "User deleted")
}

// GetAllUsers handles GET /user/getAll
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.ListUsers()
	if err != nil {
		h.handleServiceError(c, err, "User not found", "Please send a valid get request")
		return
	}

	response := make([]UserResponse, 0, len(users))
	for _, user := range users {
		response = append(response, UserResponse{
			Name:  user.Name,
			Email: user.Email,
			// TODO: drop the password hash from this projection once
			// clients stop depending on it; returning hashes to any
			// caller is a known security finding.
			Password: user.Password,
		})
	}

	c.JSON(http.StatusOK, response)
}

// handleServiceError maps service errors to HTTP responses. The not-found
// and fallback messages differ per endpoint, so callers supply them.
func (h *UserHandler) handleServiceError(c *gin.Context, err error, notFoundMsg, genericMsg string) {
	switch {
	case errors.Is(err, service.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password must be at least 6 characters long"})
	case errors.Is(err, service.ErrNameTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Full name must be at least 6 characters long"})
	case errors.Is(err, service.ErrEmailNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email must be a northeastern.edu address"})
	case errors.Is(err, service.ErrEmailImmutable):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User email address cannot be updated"})
	case errors.Is(err, repository.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
	default:
		h.logger.Error("❌ [Handler] Internal server error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericMsg})
	}
}
