package server

import (
	"net/http"

	"safespot/internal/gateway/handler"
	"safespot/internal/gateway/middleware"
)

func NewMux(
	incidentHandler *handler.IncidentHandler,
	sessionHandler *handler.SessionHandler,
	eventsHandler *handler.EventsHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/incidents", incidentHandler.HandleIncidents)
	mux.HandleFunc("/api/incidents/", incidentHandler.HandleIncidentByID)
	mux.HandleFunc("/api/photos/", incidentHandler.HandlePhoto)

	mux.HandleFunc("/api/session", sessionHandler.HandleSession)
	mux.HandleFunc("/api/session/sheet", sessionHandler.HandleSheet)
	mux.HandleFunc("/api/session/location", sessionHandler.HandleLocation)

	mux.HandleFunc("/api/events", eventsHandler.HandleEvents)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return middleware.CORS(mux)
}
