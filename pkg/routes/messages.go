package routes

import (
	"net/http"
	"os"

	"github.com/uhwot/sacklite/pkg/dependencies"
	"github.com/uhwot/sacklite/pkg/errors"

	log "github.com/sirupsen/logrus"
)

// GetEULA returns the configured end user agreement
func GetEULA(w http.ResponseWriter, r *http.Request) {
	ctxServices := dependencies.ServicesFromContext(r.Context())
	respondWithText(w, ctxServices.Log, ctxServices.Config.EULA)
}

// GetAnnouncement returns the configured message of the day
func GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	ctxServices := dependencies.ServicesFromContext(r.Context())
	respondWithText(w, ctxServices.Log, ctxServices.Config.Announcement)
}

// GetNetworkSettings serves the network settings file, or nothing when none is configured
func GetNetworkSettings(w http.ResponseWriter, r *http.Request) {
	ctxServices := dependencies.ServicesFromContext(r.Context())
	path := ctxServices.Config.NetworkSettingsPath
	if path == "" {
		respondWithText(w, ctxServices.Log, "")
		return
	}
	content, err := os.ReadFile(path)
	if err != nil {
		ctxServices.Log.WithFields(log.Fields{
			"error": err.Error(),
			"path":  path,
		}).Error("Error reading network settings")
		respondWithAPIError(w, ctxServices.Log, errors.NewInternalServerError())
		return
	}
	respondWithText(w, ctxServices.Log, string(content))
}
