package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/middleware"
	"hotel-booking/internal/models"
	"hotel-booking/internal/services"
	"hotel-booking/internal/utils"
)

type UserHandler struct {
	users *services.UserService
	log   *logger.Logger
}

func NewUserHandler(users *services.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, log: log}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	user, err := h.users.GetProfile(c.Request.Context(), id.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Profile retrieved", user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), id.UserID, models.ProfileUpdate{Name: req.Name, Phone: req.Phone})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Profile updated", user))
}
