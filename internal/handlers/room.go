package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/models"
	"hotel-booking/internal/services"
	"hotel-booking/internal/utils"
)

type RoomHandler struct {
	rooms *services.RoomService
	log   *logger.Logger
}

func NewRoomHandler(rooms *services.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{rooms: rooms, log: log}
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	var q models.RoomQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	rooms, err := h.rooms.ListRooms(c.Request.Context(), q.Filter())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Rooms retrieved", rooms))
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.rooms.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Room retrieved", room))
}

func (h *RoomHandler) CreateHotel(c *gin.Context) {
	var req models.CreateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	hotel, err := h.rooms.CreateHotel(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Hotel created", hotel))
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	room, err := h.rooms.CreateRoom(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Room created", room))
}
