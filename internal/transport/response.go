package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SuccessResponse представляет успешный ответ
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func respond(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Error: msg})
}

// writeError переводит доменную ошибку в HTTP статус
func writeError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		logrus.WithField("path", c.Request.URL.Path).Errorf("Request failed: %v", err)
	}
	c.JSON(status, ErrorResponse{Success: false, Error: err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, entity.ErrCustomerNotFound),
		errors.Is(err, entity.ErrTourNotFound),
		errors.Is(err, entity.ErrScheduleNotFound),
		errors.Is(err, entity.ErrBookingNotFound):
		return http.StatusNotFound

	case errors.Is(err, entity.ErrCustomerExists),
		errors.Is(err, entity.ErrTourExists),
		errors.Is(err, entity.ErrScheduleExists),
		errors.Is(err, entity.ErrScheduleHasBookings),
		errors.Is(err, entity.ErrScheduleClosed),
		errors.Is(err, entity.ErrScheduleDeparted),
		errors.Is(err, entity.ErrDuplicateCustomer),
		errors.Is(err, entity.ErrNotEnoughSeats),
		errors.Is(err, entity.ErrSeatReleaseExceeded):
		return http.StatusConflict

	case errors.Is(err, entity.ErrAddSeatsUnsupported),
		errors.Is(err, entity.ErrGroupClosed):
		return http.StatusUnprocessableEntity

	case errors.Is(err, entity.ErrInvalidCustomer),
		errors.Is(err, entity.ErrInvalidTour),
		errors.Is(err, entity.ErrInvalidSchedule),
		errors.Is(err, entity.ErrInvalidBooking),
		errors.Is(err, entity.ErrGroupTooSmall),
		errors.Is(err, entity.ErrInvalidSeatCount),
		errors.Is(err, entity.ErrInvalidInput):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func parseBookingID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid booking ID")
		return 0, false
	}
	return id, true
}

// paginate применяет limit/offset из query к срезу
func paginate[T any](c *gin.Context, items []T) ([]T, map[string]interface{}) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}

	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	return items[start:end], map[string]interface{}{
		"total":    len(items),
		"limit":    limit,
		"offset":   offset,
		"has_more": end < len(items),
	}
}
