package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmanager-pro/service-booking-api/internal/service"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
	"github.com/taskmanager-pro/service-booking-api/pkg/response"
)

// AssignmentHandler wires HTTP endpoints to the assignment service.
type AssignmentHandler struct {
	service   *service.AssignmentService
	dashboard *service.DashboardService
	metrics   *service.MetricsService
}

// NewAssignmentHandler creates a new handler.
func NewAssignmentHandler(svc *service.AssignmentService, dashboard *service.DashboardService, metrics *service.MetricsService) *AssignmentHandler {
	return &AssignmentHandler{service: svc, dashboard: dashboard, metrics: metrics}
}

// Candidates godoc
// @Summary Ranked worker candidates
// @Description Workers in the booking's category ranked by availability then rating
// @Tags Assignment
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/bookings/{id}/candidates [get]
func (h *AssignmentHandler) Candidates(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	list, err := h.service.Candidates(c.Request.Context(), identity, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, list, nil)
}

// Assign godoc
// @Summary Assign booking
// @Description Confirm a pending booking against a worker with a price
// @Tags Assignment
// @Accept json
// @Produce json
// @Param id path string true "Booking ID"
// @Param payload body service.AssignRequest true "Assignment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/bookings/{id}/assign [post]
func (h *AssignmentHandler) Assign(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid assignment payload"))
		return
	}
	req.BookingID = c.Param("id")

	booking, err := h.service.Assign(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.BookingAssigned()
	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
	response.JSON(c, http.StatusOK, booking, nil)
}
