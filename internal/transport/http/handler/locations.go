package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/staff-tracker-api/internal/application/location"
	"github.com/staff-tracker-api/internal/domain"
)

// LocationHandler handles staff location endpoints.
type LocationHandler struct {
	svc location.Service
}

func NewLocationHandler(svc location.Service) *LocationHandler {
	return &LocationHandler{svc: svc}
}

func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Get(r.Context(), chi.URLParam(r, "staffID"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rec)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Staff not found")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *LocationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in domain.LocationInput
	// A non-numeric latitude like "12" fails here, before any store access.
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid location data")
		return
	}
	rec, err := h.svc.Update(r.Context(), chi.URLParam(r, "staffID"), in)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rec)
	case errors.Is(err, domain.ErrBadRequest):
		writeError(w, http.StatusBadRequest, "Invalid location data")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (h *LocationHandler) ListIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.svc.ListIDs(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, StaffIDsEnvelope{StaffIDs: ids})
}
