package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-crm-api/internal/middleware"
	"github.com/noah-isme/tutor-crm-api/internal/service"
	appErrors "github.com/noah-isme/tutor-crm-api/pkg/errors"
	"github.com/noah-isme/tutor-crm-api/pkg/response"
)

// EventHandler exposes the materialized calendar.
type EventHandler struct {
	service *service.EventService
}

// NewEventHandler constructs handler.
func NewEventHandler(svc *service.EventService) *EventHandler {
	return &EventHandler{service: svc}
}

// List godoc
// @Summary Merged calendar events for a date window
// @Tags Events
// @Produce json
// @Param startDate query string true "Window start (RFC3339)"
// @Param endDate query string true "Window end (RFC3339)"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	from, err := time.Parse(time.RFC3339, c.Query("startDate"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "startDate must be RFC3339"))
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("endDate"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "endDate must be RFC3339"))
		return
	}

	events, err := h.service.GetEventsByDates(c.Request.Context(), middleware.UserID(c), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}

// Update godoc
// @Summary Persist an edited occurrence
// @Tags Events
// @Accept json
// @Produce json
// @Param id path string true "Occurrence ID"
// @Param payload body service.UpdateEventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req service.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	event, err := h.service.UpdateEvent(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Cancel godoc
// @Summary Cancel an occurrence
// @Tags Events
// @Produce json
// @Param id path string true "Occurrence ID"
// @Success 204
// @Security BearerAuth
// @Router /events/{id}/cancel [post]
func (h *EventHandler) Cancel(c *gin.Context) {
	if err := h.service.CancelEvent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
