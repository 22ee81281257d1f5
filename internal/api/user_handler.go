package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ptcoach/fitness-planner/internal/domain"
	"ptcoach/fitness-planner/internal/service"
)

// UserHandler serves coach-side account management.
type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserRequest struct {
	Username string      `json:"username" binding:"required"`
	Password string      `json:"password" binding:"required,min=4"`
	Role     domain.Role `json:"role" binding:"required,oneof=admin user"`
}

type SetUserStatusRequest struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

// ListUsers godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} UserResponse
// @Failure 403 {object} gin.H "Forbidden (not a coach)"
// @Router /users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondWithServiceError(c, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, MapUsersToResponse(users))
}

// CreateUser godoc
// @Summary Create a user
// @Description Creates a client or coach account. Usernames are unique case-insensitively.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body CreateUserRequest true "Account details"
// @Success 201 {object} UserResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Username taken"
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		respondWithServiceError(c, err, "Could not create user")
		return
	}
	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// SetUserStatus godoc
// @Summary Activate or deactivate a user
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param status body SetUserStatusRequest true "New status"
// @Success 200 {object} UserResponse
// @Failure 404 {object} gin.H "User not found"
// @Router /users/{userId}/status [patch]
func (h *UserHandler) SetUserStatus(c *gin.Context) {
	userID, ok := paramID(c, "userId")
	if !ok {
		return
	}
	var req SetUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	user, err := h.userService.SetUserActive(c.Request.Context(), userID, *req.IsActive)
	if err != nil {
		respondWithServiceError(c, err, "Could not update user")
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}
