package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cloudauth/internal/services"
)

type UserHandler struct {
	service services.VerificationService
}

func NewUserHandler(service services.VerificationService) *UserHandler {
	return &UserHandler{service: service}
}

// @Summary      Current user
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.User
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	username, ok := getStringFromCtx(c, "username")
	if !ok || username == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
		return
	}
	user, err := h.service.GetUserByUsername(username)
	if err != nil || user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}
