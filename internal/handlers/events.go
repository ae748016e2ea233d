package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/services"
	"github.com/Cesarb72/waypoint-sub001/internal/sse"
)

type EventHandler struct {
	log    *logger.Logger
	events services.EventService
	hub    *sse.Hub
}

func NewEventHandler(log *logger.Logger, events services.EventService, hub *sse.Hub) *EventHandler {
	return &EventHandler{
		log:    log.With("handler", "EventHandler"),
		events: events,
		hub:    hub,
	}
}

type ingestRequest struct {
	Events []services.EventInput `json:"events"`
}

// POST /api/events
func (h *EventHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}

	n, err := h.events.Ingest(c.Request.Context(), nil, req.Events)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "ingest_failed", err)
		return
	}
	if n > 0 && h.hub != nil {
		h.hub.Broadcast(sse.Message{
			Channel: "insights",
			Event:   sse.EventSummariesInvalidated,
			Data:    gin.H{"ingested": n},
		})
	}
	RespondOK(c, gin.H{"ingested": n})
}
