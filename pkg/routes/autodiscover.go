package routes

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Autodiscover is read by patched clients to find the game server
type Autodiscover struct {
	Version     int    `json:"version"`
	ServerBrand string `json:"serverBrand"`
	URL         string `json:"url"`
}

// MakeAutodiscoverHandler answers with the externally reachable game server url
func MakeAutodiscoverHandler(url string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSONBody(w, log.WithContext(r.Context()), Autodiscover{
			Version:     1,
			ServerBrand: EnvVersion,
			URL:         url,
		})
	}
}
