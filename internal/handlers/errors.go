package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotel-booking/internal/logger"
	"hotel-booking/internal/services"
	"hotel-booking/internal/utils"
)

var kindStatus = map[services.ErrorKind]int{
	services.KindInvalidDateRange:  http.StatusBadRequest,
	services.KindInvalidInput:      http.StatusBadRequest,
	services.KindCapacityExceeded:  http.StatusBadRequest,
	services.KindAlreadyPaid:       http.StatusBadRequest,
	services.KindNotFound:          http.StatusNotFound,
	services.KindForbidden:         http.StatusNotFound,
	services.KindConflict:          http.StatusConflict,
	services.KindInvalidTransition: http.StatusConflict,
	services.KindProviderError:     http.StatusBadGateway,
	services.KindUnavailable:       http.StatusServiceUnavailable,
}

// respondError writes err as an APIResponse. Ownership failures are reported
// as not found so callers cannot probe for other users' bookings.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	kind := services.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		log.Error("API", c.Request.Method+" "+c.Request.URL.Path+": "+err.Error())
		c.JSON(http.StatusInternalServerError, utils.ErrorResponse("Internal server error", ""))
		return
	}

	message := string(kind)
	details := err.Error()
	if kind == services.KindForbidden {
		message, details = string(services.KindNotFound), "resource not found"
	}
	c.JSON(status, utils.ErrorResponse(message, details))
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, utils.ErrorResponse(string(services.KindInvalidInput), err.Error()))
}
