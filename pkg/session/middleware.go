package session

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// RequireSession resolves the MM_AUTH cookie and rejects requests without a
// live session. It must run after the digest check.
func RequireSession(issuer Issuer) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				log.WithContext(r.Context()).Debug("Request without session cookie")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			data, err := issuer.Parse(r.Context(), cookie.Value)
			if err != nil {
				log.WithContext(r.Context()).WithField("error", err.Error()).Info("Rejecting request with invalid session")
				w.WriteHeader(http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithData(r.Context(), data)))
		})
	}
}
