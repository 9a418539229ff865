package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/dto"
	"github.com/slutstation/slutstation-web/internal/models"
	appErrors "github.com/slutstation/slutstation-web/pkg/errors"
	"github.com/slutstation/slutstation-web/pkg/response"
)

// listings are cheap to recompute but change rarely
const eventListMaxAge = 60

type eventService interface {
	GetEvents(ctx context.Context) []models.Event
	GetUpcomingEvents(ctx context.Context) []models.Event
	GetPastEvents(ctx context.Context) []models.Event
	GetEventByID(ctx context.Context, id string) (models.Event, bool)
	GetOverview(ctx context.Context) dto.EventOverview
	ClearCache(ctx context.Context) error
	Calendar(ctx context.Context) []byte
}

// EventHandler exposes event listing endpoints.
type EventHandler struct {
	service eventService
}

// NewEventHandler builds a new handler.
func NewEventHandler(service eventService) *EventHandler {
	return &EventHandler{service: service}
}

// List godoc
// @Summary List active events
// @Description Upcoming and recent events from the ticketing API, without events that started before today. Falls back to the bundled listing.
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	events := h.service.GetEvents(c.Request.Context())
	response.Cached(c, eventListMaxAge, events, countMeta(events))
}

// Upcoming godoc
// @Summary List upcoming events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *gin.Context) {
	events := h.service.GetUpcomingEvents(c.Request.Context())
	response.Cached(c, eventListMaxAge, events, countMeta(events))
}

// Past godoc
// @Summary List past events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/past [get]
func (h *EventHandler) Past(c *gin.Context) {
	events := h.service.GetPastEvents(c.Request.Context())
	response.Cached(c, eventListMaxAge, events, countMeta(events))
}

// Overview godoc
// @Summary Upcoming and past events together
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/overview [get]
func (h *EventHandler) Overview(c *gin.Context) {
	overview := h.service.GetOverview(c.Request.Context())
	response.Cached(c, eventListMaxAge, overview)
}

// Get godoc
// @Summary Get event by id
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, ok := h.service.GetEventByID(c.Request.Context(), c.Param("id"))
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "event not found"))
		return
	}
	response.Cached(c, eventListMaxAge, event)
}

// Calendar godoc
// @Summary Upcoming events as an iCalendar feed
// @Tags Events
// @Produce text/calendar
// @Success 200 {string} string
// @Router /events/calendar.ics [get]
func (h *EventHandler) Calendar(c *gin.Context) {
	feed := h.service.Calendar(c.Request.Context())
	c.Header("Cache-Control", "public, max-age=300")
	c.Header("Content-Disposition", `inline; filename="slutstation.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", feed)
}

// ClearCache godoc
// @Summary Drop cached past events
// @Tags Admin
// @Security BearerAuth
// @Success 204
// @Failure 401 {object} response.Envelope
// @Router /admin/events/cache/clear [post]
func (h *EventHandler) ClearCache(c *gin.Context) {
	if err := h.service.ClearCache(c.Request.Context()); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear event cache"))
		return
	}
	response.NoContent(c)
}

func countMeta(events []models.Event) map[string]interface{} {
	return map[string]interface{}{"count": len(events)}
}
