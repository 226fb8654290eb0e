package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taskmanager-pro/service-booking-api/internal/service"
	appErrors "github.com/taskmanager-pro/service-booking-api/pkg/errors"
	"github.com/taskmanager-pro/service-booking-api/pkg/response"
)

// AvailabilityHandler wires HTTP endpoints to the availability service.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler creates a new handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// Overview godoc
// @Summary Availability overview
// @Description The calling worker's schedule, slots and upcoming unavailability
// @Tags Availability
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /availability [get]
func (h *AvailabilityHandler) Overview(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), identity)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overview, nil)
}

// SetupSchedule godoc
// @Summary Replace weekly schedule
// @Description Replace the calling worker's default weekly availability windows
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.SetupScheduleRequest true "Schedule payload"
// @Success 204 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/schedule [put]
func (h *AvailabilityHandler) SetupSchedule(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SetupScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}

	if err := h.service.SetupSchedule(c.Request.Context(), identity, req); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddSlot godoc
// @Summary Add availability slot
// @Description Create one explicit availability slot for the calling worker
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.AddSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/slots [post]
func (h *AvailabilityHandler) AddSlot(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AddSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	slot, err := h.service.AddSlot(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, slot)
}

// RemoveSlot godoc
// @Summary Remove availability slot
// @Description Delete an unbooked slot owned by the calling worker
// @Tags Availability
// @Produce json
// @Param id path string true "Slot ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/slots/{id} [delete]
func (h *AvailabilityHandler) RemoveSlot(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.RemoveSlot(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddOverride godoc
// @Summary Mark unavailability
// @Description Block out an interval on one date for the calling worker
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body service.AddOverrideRequest true "Unavailability payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/unavailability [post]
func (h *AvailabilityHandler) AddOverride(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AddOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid unavailability payload"))
		return
	}

	override, err := h.service.AddOverride(c.Request.Context(), identity, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, override)
}

// RemoveOverride godoc
// @Summary Remove unavailability
// @Description Delete an unavailability interval owned by the calling worker
// @Tags Availability
// @Produce json
// @Param id path string true "Unavailability ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /availability/unavailability/{id} [delete]
func (h *AvailabilityHandler) RemoveOverride(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.RemoveOverride(c.Request.Context(), identity, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
