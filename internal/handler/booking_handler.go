package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushall/hallbook-api/internal/listing"
	"github.com/campushall/hallbook-api/internal/models"
	"github.com/campushall/hallbook-api/internal/service"
	appErrors "github.com/campushall/hallbook-api/pkg/errors"
	"github.com/campushall/hallbook-api/pkg/response"
)

// BookingHandler wires HTTP endpoints to the booking service.
type BookingHandler struct {
	service *service.BookingService
	exports *service.ExportService
	metrics *service.MetricsService
}

// NewBookingHandler creates a new handler. metrics may be nil.
func NewBookingHandler(svc *service.BookingService, exports *service.ExportService, metrics *service.MetricsService) *BookingHandler {
	return &BookingHandler{service: svc, exports: exports, metrics: metrics}
}

func listQuery(c *gin.Context) service.ListBookingsQuery {
	return service.ListBookingsQuery{
		Filter: models.BookingFilter{
			Status:      models.BookingStatus(c.Query("status")),
			Institution: c.Query("institution"),
			Department:  c.Query("department"),
			HallID:      c.Query("hallId"),
		},
		Search: c.Query("q"),
		Sort: listing.Directive{
			Key:        listing.ParseSortKey(c.Query("sortBy")),
			Descending: c.Query("order") == "desc",
		},
	}
}

// List godoc
// @Summary List bookings
// @Description Filtered, searched and sorted booking table
// @Tags Bookings
// @Produce json
// @Param status query string false "Filter by approval status"
// @Param department query string false "Filter by department"
// @Param hallId query string false "Filter by hall"
// @Param q query string false "Free-text search"
// @Param sortBy query string false "Sort key" Enums(eventName, bookedHallName, eventDate, time, createdAt)
// @Param order query string false "Sort direction" Enums(asc, desc)
// @Success 200 {object} response.Envelope
// @Router /bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.service.List(c.Request.Context(), listQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"bookings": bookings}, nil)
}

// Create godoc
// @Summary Submit booking request
// @Description Create a booking in the REQUEST_SENT state
// @Tags Bookings
// @Accept json
// @Produce json
// @Param payload body service.CreateBookingRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	booking, err := h.service.Create(c.Request.Context(), req, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// View godoc
// @Summary View booking
// @Tags Bookings
// @Produce json
// @Param id path string true "Booking id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /bookingsView/{id} [get]
func (h *BookingHandler) View(c *gin.Context) {
	booking, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"booking": booking}, nil)
}

// Edit godoc
// @Summary Apply approval transition
// @Description Move a booking through the approval workflow
// @Tags Bookings
// @Accept json
// @Produce json
// @Param id path string true "Booking id"
// @Param payload body service.TransitionRequest true "Target status and optional reason"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /bookingsEdit/{id} [put]
func (h *BookingHandler) Edit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid transition payload"))
		return
	}

	booking, err := h.service.Transition(c.Request.Context(), c.Param("id"), req, claims.UserType)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordTransition(string(booking.IsApproved))
	response.JSON(c, http.StatusOK, gin.H{"booking": booking}, nil)
}

// Events godoc
// @Summary Public event calendar
// @Description Fully approved bookings, no authentication required
// @Tags Bookings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *BookingHandler) Events(c *gin.Context) {
	bookings, err := h.service.Events(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"bookings": bookings}, nil)
}

// Export godoc
// @Summary Export bookings
// @Description Download the filtered booking table as CSV or PDF
// @Tags Bookings
// @Produce octet-stream
// @Param format query string false "Export format" Enums(csv, pdf)
// @Success 200 {file} binary
// @Router /bookings/export [get]
func (h *BookingHandler) Export(c *gin.Context) {
	format := service.ParseExportFormat(c.Query("format"))
	file, err := h.exports.ExportBookings(c.Request.Context(), listQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
