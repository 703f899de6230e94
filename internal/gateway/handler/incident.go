package handler

import (
	"errors"
	"net/http"
	"strings"

	"safespot/internal/gateway/repository/media"
	"safespot/internal/incident/store"
	"safespot/internal/intake"
)

// IncidentHandler serves the incident list, submission, and photo
// endpoints.
type IncidentHandler struct {
	coord  *intake.Coordinator
	store  *store.Store
	photos media.Store
}

func NewIncidentHandler(coord *intake.Coordinator, st *store.Store, photos media.Store) *IncidentHandler {
	return &IncidentHandler{coord: coord, store: st, photos: photos}
}

// HandleIncidents serves GET (list, newest first) and POST (submit)
// on /api/incidents.
func (h *IncidentHandler) HandleIncidents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"incidents": h.store.Incidents(),
		})
	case http.MethodPost:
		h.handleSubmit(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h *IncidentHandler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var sub intake.Submission
	if err := decodeBody(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	rec, err := h.coord.Submit(r.Context(), sub)
	if err != nil {
		var invalid *intake.InvalidSubmissionError
		if errors.As(err, &invalid) {
			writeError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		var failed *intake.ClassificationFailedError
		if errors.As(err, &failed) {
			writeError(w, http.StatusBadGateway, failed.Message())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"incident": rec})
}

// HandleIncidentByID serves GET /api/incidents/<id>.
func (h *IncidentHandler) HandleIncidentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/incidents/")
	id = strings.TrimSpace(strings.Trim(id, "/"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "incident id is required")
		return
	}
	rec, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "incident not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"incident": rec})
}

// HandlePhoto serves GET /api/photos/<id> from the photo store.
func (h *IncidentHandler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if h.photos == nil {
		writeError(w, http.StatusNotFound, "photo store disabled")
		return
	}
	id := strings.TrimSpace(strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/photos/"), "/"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "photo id is required")
		return
	}
	data, mimeType, err := h.photos.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, media.ErrNotFound) {
			writeError(w, http.StatusNotFound, "photo not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "photo fetch failed")
		return
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mimeType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
