package handlers

import (
	"net/http"

	"github.com/arlo/calcledger/internal/api/middleware"
	"github.com/arlo/calcledger/internal/domain"
	"github.com/arlo/calcledger/internal/service"
	"github.com/rs/zerolog/log"
)

type EventHandler struct {
	calcService *service.CalculationService
}

func NewEventHandler(calcService *service.CalculationService) *EventHandler {
	return &EventHandler{calcService: calcService}
}

// List returns the caller's calculation audit trail, newest first.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	events, err := h.calcService.ListEvents(r.Context(), userID, skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list events")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if events == nil {
		events = []*domain.CalculationEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
