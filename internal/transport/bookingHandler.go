package transport

import (
	"net/http"

	"github.com/ds124wfegd/tourbooker/internal/service"
	"github.com/ds124wfegd/tourbooker/pkg/receipt"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type BookingHandler struct {
	bookingService service.BookingService
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBooking бронирует места на отправление
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Booking created successfully", booking)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	booking, err := h.bookingService.GetBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Booking retrieved successfully", booking)
}

// GetAllBookings возвращает все бронирования
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	bookings, err := h.bookingService.GetAllBookings(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	page, meta := paginate(c, bookings)
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Bookings retrieved successfully",
		Data:    page,
		Meta:    meta,
	})
}

// GetScheduleBookings возвращает бронирования конкретного отправления
func (h *BookingHandler) GetScheduleBookings(c *gin.Context) {
	code := c.Param("code")

	bookings, err := h.bookingService.GetScheduleBookings(c.Request.Context(), code)
	if err != nil {
		writeError(c, err)
		return
	}

	page, meta := paginate(c, bookings)
	meta["schedule_code"] = code
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Schedule bookings retrieved successfully",
		Data:    page,
		Meta:    meta,
	})
}

// QuoteCancellation показывает штраф, если отменить бронирование сейчас
func (h *BookingHandler) QuoteCancellation(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	quote, err := h.bookingService.QuoteCancellation(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Cancellation quote calculated", quote)
}

// CancelBooking отменяет бронирование
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	quote, err := h.bookingService.CancelBooking(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Booking cancelled successfully", quote)
}

func (h *BookingHandler) AddSeats(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req service.AddSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	booking, err := h.bookingService.AddSeats(c.Request.Context(), id, &req)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Seats added successfully", booking)
}

// GetReceipt отдает PDF квитанцию с текущей стоимостью отмены
func (h *BookingHandler) GetReceipt(c *gin.Context) {
	id, ok := parseBookingID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	booking, err := h.bookingService.GetBooking(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	quote, err := h.bookingService.QuoteCancellation(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}

	pdf, err := receipt.Render(*booking, &receipt.Cancellation{
		LeadDays:    quote.LeadDays,
		PenaltyRate: quote.PenaltyRate,
		Penalty:     quote.Penalty,
		Refund:      quote.Refund,
	}, quote.CancelledAt)
	if err != nil {
		logrus.WithField("booking_id", id).Errorf("Failed to render receipt: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: "Failed to render receipt"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+receipt.Filename(id)+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
