package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"
)

// ReadinessStatus is returned by the readiness probe
type ReadinessStatus struct {
	Readiness string `json:"readiness"`
}

// MakeReadinessRouter adds the readiness probe to a router
func MakeReadinessRouter(sub chi.Router) {
	sub.Get("/", GetReadinessStatus)
}

// GetReadinessStatus reports that the key registry is loaded and requests can be served
func GetReadinessStatus(w http.ResponseWriter, r *http.Request) {
	logEntry := log.WithContext(r.Context())
	logEntry.Debug("Checking service readiness")

	respondWithJSONBody(w, logEntry, ReadinessStatus{
		Readiness: "ready",
	})
}
