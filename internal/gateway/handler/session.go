package handler

import (
	"net/http"
	"strings"

	"safespot/internal/incident"
	"safespot/internal/incident/store"
)

// SessionHandler exposes the sheet/selection state and its mutation
// actions.
type SessionHandler struct {
	store *store.Store
}

func NewSessionHandler(st *store.Store) *SessionHandler {
	return &SessionHandler{store: st}
}

// HandleSession serves GET /api/session.
func (h *SessionHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Session())
}

// HandleSheet serves POST /api/session/sheet with
// {action: open_report|open_details|close, incident_id?}.
func (h *SessionHandler) HandleSheet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var in struct {
		Action     string `json:"action"`
		IncidentID string `json:"incident_id"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	switch strings.ToLower(strings.TrimSpace(in.Action)) {
	case "open_report":
		h.store.OpenReportSheet()
	case "open_details":
		rec, ok := h.store.Get(strings.TrimSpace(in.IncidentID))
		if !ok {
			writeError(w, http.StatusNotFound, "incident not found")
			return
		}
		h.store.OpenDetailsSheet(rec)
	case "close":
		h.store.CloseSheet()
	default:
		writeError(w, http.StatusBadRequest, "action must be open_report, open_details, or close")
		return
	}
	writeJSON(w, http.StatusOK, h.store.Session())
}

// HandleLocation serves POST (set) and DELETE (clear) on
// /api/session/location.
func (h *SessionHandler) HandleLocation(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var loc incident.LatLng
		if err := decodeBody(r, &loc); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		h.store.SetPendingLocation(loc)
	case http.MethodDelete:
		h.store.ClearPendingLocation()
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, h.store.Session())
}
