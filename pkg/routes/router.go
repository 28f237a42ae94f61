package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/uhwot/sacklite/config"
	"github.com/uhwot/sacklite/pkg/dependencies"
	"github.com/uhwot/sacklite/pkg/digest"
	"github.com/uhwot/sacklite/pkg/errors"
	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/session"

	log "github.com/sirupsen/logrus"
)

// MakeGameServerRouter builds the routes served under the base path.
// The digest check wraps everything, so it sees the request before any
// handler reads the body.
func MakeGameServerRouter(cfg *config.SackliteConfig, keys npticket.KeyLookup, sessions session.Issuer) func(chi.Router) {
	return func(sub chi.Router) {
		if cfg.DigestEnabled() {
			sub.Use(digest.Middleware(digest.Options{
				Key:      cfg.DigestKey,
				BasePath: cfg.BasePath,
				Enforce:  cfg.VerifyClientDigest,
			}))
		} else {
			log.Warn("No digest key configured, client digests are neither checked nor sent")
		}
		sub.Use(dependencies.Middleware(cfg, keys, sessions))

		sub.Post("/login", Login)
		sub.Get("/eula", GetEULA)
		sub.Get("/announce", GetAnnouncement)
		sub.Get("/status", StatusOK)
		sub.Get("/network_settings.nws", GetNetworkSettings)

		sub.Group(func(protected chi.Router) {
			protected.Use(session.RequireSession(sessions))
			protected.Post("/goodbye", Goodbye)
		})
	}
}

// MakeRouter assembles the whole public router
func MakeRouter(cfg *config.SackliteConfig, keys npticket.KeyLookup, sessions session.Issuer, middlewares ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(middlewares...)
	r.Get("/", StatusOK)
	r.Route("/ready", MakeReadinessRouter)
	r.Get("/autodiscover", MakeAutodiscoverHandler(cfg.AutodiscoverURL))
	r.Route(cfg.BasePath, MakeGameServerRouter(cfg, keys, sessions))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithAPIError(w, log.WithContext(r.Context()), errors.NewNotFound("not found"))
	})
	return r
}
