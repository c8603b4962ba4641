package transport

import (
	"net/http"
	"strconv"

	"github.com/ds124wfegd/tourbooker/internal/entity"
	"github.com/ds124wfegd/tourbooker/internal/service"
	"github.com/gin-gonic/gin"
)

type TourHandler struct {
	tourService service.TourService
}

func NewTourHandler(tourService service.TourService) *TourHandler {
	return &TourHandler{tourService: tourService}
}

func (h *TourHandler) GetAllTours(c *gin.Context) {
	tours, err := h.tourService.GetAllTours(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tours retrieved successfully", tours)
}

func (h *TourHandler) GetTour(c *gin.Context) {
	tour, err := h.tourService.GetTour(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Tour retrieved successfully", tour)
}

// AddTour добавляет тур в каталог
func (h *TourHandler) AddTour(c *gin.Context) {
	var req service.AddTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	tour, err := h.tourService.AddTour(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Tour added successfully", tour)
}

// ScheduleTour создает отправление тура
func (h *TourHandler) ScheduleTour(c *gin.Context) {
	var req service.ScheduleTourRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	schedule, err := h.tourService.ScheduleTour(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Tour scheduled successfully", schedule)
}

// GetScheduledTours возвращает расписание; ?open=true оставляет только открытые отправления
func (h *TourHandler) GetScheduledTours(c *gin.Context) {
	openOnly := false
	if raw := c.Query("open"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "Invalid open filter")
			return
		}
		openOnly = v
	}

	var (
		schedules []entity.ScheduledTourInfo
		err       error
	)
	if openOnly {
		schedules, err = h.tourService.GetOpenScheduledTours(c.Request.Context())
	} else {
		schedules, err = h.tourService.GetAllScheduledTours(c.Request.Context())
	}
	if err != nil {
		writeError(c, err)
		return
	}

	page, meta := paginate(c, schedules)
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Scheduled tours retrieved successfully",
		Data:    page,
		Meta:    meta,
	})
}

func (h *TourHandler) GetScheduledTour(c *gin.Context) {
	schedule, err := h.tourService.GetScheduledTour(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Scheduled tour retrieved successfully", schedule)
}

// SetScheduleStatus открывает или закрывает отправление для бронирования
func (h *TourHandler) SetScheduleStatus(c *gin.Context) {
	var req service.SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	schedule, err := h.tourService.SetScheduleStatus(c.Request.Context(), c.Param("code"), *req.Open)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Schedule status updated", schedule)
}

func (h *TourHandler) RemoveScheduledTour(c *gin.Context) {
	code := c.Param("code")
	if err := h.tourService.RemoveScheduledTour(c.Request.Context(), code); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Scheduled tour removed",
		Meta:    map[string]interface{}{"schedule_code": code},
	})
}

func (h *TourHandler) GetScheduleStats(c *gin.Context) {
	stats, err := h.tourService.GetScheduleStats(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Schedule statistics retrieved", stats)
}

func (h *TourHandler) GetLedgerStats(c *gin.Context) {
	stats, err := h.tourService.GetLedgerStats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Ledger statistics retrieved", stats)
}
