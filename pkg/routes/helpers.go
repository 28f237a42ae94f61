package routes

import (
	"encoding/json"
	"encoding/xml"
	"net/http"

	"github.com/uhwot/sacklite/pkg/errors"

	log "github.com/sirupsen/logrus"
)

func respondWithAPIError(w http.ResponseWriter, logEntry log.FieldLogger, apiError errors.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiError.GetStatus())
	if err := json.NewEncoder(w).Encode(apiError); err != nil {
		logEntry.WithField("error", err.Error()).Error("Error while trying to encode api error")
	}
}

func respondWithJSONBody(w http.ResponseWriter, logEntry log.FieldLogger, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Error while trying to encode data")
		respondWithAPIError(w, logEntry, errors.NewInternalServerError())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(body); err != nil {
		logEntry.WithField("error", err.Error()).Error("Error while writing response")
	}
}

func respondWithXMLBody(w http.ResponseWriter, logEntry log.FieldLogger, data interface{}) {
	body, err := xml.Marshal(data)
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Error while trying to encode data")
		respondWithAPIError(w, logEntry, errors.NewInternalServerError())
		return
	}
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	if _, err := w.Write(body); err != nil {
		logEntry.WithField("error", err.Error()).Error("Error while writing response")
	}
}

func respondWithText(w http.ResponseWriter, logEntry log.FieldLogger, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(text)); err != nil {
		logEntry.WithField("error", err.Error()).Error("Error while writing response")
	}
}
