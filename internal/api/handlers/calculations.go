package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/arlo/calcledger/internal/api/middleware"
	"github.com/arlo/calcledger/internal/calc"
	"github.com/arlo/calcledger/internal/domain"
	"github.com/arlo/calcledger/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type CalculationHandler struct {
	calcService *service.CalculationService
}

func NewCalculationHandler(calcService *service.CalculationService) *CalculationHandler {
	return &CalculationHandler{calcService: calcService}
}

type CreateCalculationRequest struct {
	A    float64        `json:"a"`
	B    float64        `json:"b"`
	Type calc.Operation `json:"type"`
}

type UpdateCalculationRequest struct {
	A    *float64        `json:"a"`
	B    *float64        `json:"b"`
	Type *calc.Operation `json:"type"`
}

func (h *CalculationHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Type == "" {
		http.Error(w, "Operation type is required", http.StatusBadRequest)
		return
	}

	calculation, err := h.calcService.Create(r.Context(), userID, service.CreateCalculationInput{
		A:    req.A,
		B:    req.B,
		Type: req.Type,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, calculation)
}

func (h *CalculationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 0)

	calculations, err := h.calcService.List(r.Context(), userID, skip, limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list calculations")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if calculations == nil {
		calculations = []*domain.Calculation{}
	}
	writeJSON(w, http.StatusOK, calculations)
}

func (h *CalculationHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Calculation not found", http.StatusNotFound)
		return
	}

	calculation, err := h.calcService.Get(r.Context(), userID, id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calculation)
}

func (h *CalculationHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Calculation not found", http.StatusNotFound)
		return
	}

	var req UpdateCalculationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.A == nil && req.B == nil && req.Type == nil {
		http.Error(w, "At least one of a, b or type is required", http.StatusBadRequest)
		return
	}

	calculation, err := h.calcService.UpdatePartial(r.Context(), userID, id, service.UpdateCalculationInput{
		A:    req.A,
		B:    req.B,
		Type: req.Type,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, calculation)
}

func (h *CalculationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Calculation not found", http.StatusNotFound)
		return
	}

	if err := h.calcService.Delete(r.Context(), userID, id); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// writeError maps service errors onto the response taxonomy: factory
// validation failures are 400 with the violated constraint, missing and
// foreign records are both 404.
func (h *CalculationHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, calc.ErrDivisionByZero), errors.Is(err, calc.ErrUnsupportedOperation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrCalculationNotFound):
		http.Error(w, "Calculation not found", http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("calculation request failed")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	if value := r.URL.Query().Get(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
