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

type ReviewHandler struct {
	reviews *services.ReviewService
	log     *logger.Logger
}

func NewReviewHandler(reviews *services.ReviewService, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{reviews: reviews, log: log}
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	var q models.ReviewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	list, err := h.reviews.ListReviews(c.Request.Context(), q.RoomID, models.ParseReviewSort(q.SortBy))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Reviews retrieved", list))
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	var req models.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.reviews.CreateReview(c.Request.Context(), id.UserID, req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, utils.SuccessResponse("Review created", review))
}

func (h *ReviewHandler) Vote(c *gin.Context) {
	id, _ := middleware.CurrentIdentity(c)

	var req models.ReviewVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.reviews.Vote(c.Request.Context(), c.Param("id"), id.UserID, *req.Helpful)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, utils.SuccessResponse("Vote recorded", review))
}
