package transport

import (
	"net/http"

	"github.com/ds124wfegd/tourbooker/internal/service"
	"github.com/gin-gonic/gin"
)

type CustomerHandler struct {
	customerService service.CustomerService
}

func NewCustomerHandler(customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// RegisterCustomer регистрирует клиента по паспорту
func (h *CustomerHandler) RegisterCustomer(c *gin.Context) {
	var req service.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	customer, err := h.customerService.RegisterCustomer(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Customer registered successfully", customer)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customerService.GetCustomer(c.Request.Context(), c.Param("passport"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Customer retrieved successfully", customer)
}

func (h *CustomerHandler) GetAllCustomers(c *gin.Context) {
	customers, err := h.customerService.GetAllCustomers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	page, meta := paginate(c, customers)
	c.JSON(http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Customers retrieved successfully",
		Data:    page,
		Meta:    meta,
	})
}

// GetCustomerBookings возвращает бронирования, в которых участвует клиент
func (h *CustomerHandler) GetCustomerBookings(c *gin.Context) {
	bookings, err := h.customerService.GetCustomerBookings(c.Request.Context(), c.Param("passport"))
	if err != nil {
		writeError(c, err)
		return
	}

	respond(c, http.StatusOK, "Customer bookings retrieved successfully", bookings)
}
