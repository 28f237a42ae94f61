package routes

import (
	"io"
	"net/http"

	"github.com/uhwot/sacklite/pkg/auth"
	"github.com/uhwot/sacklite/pkg/dependencies"
	"github.com/uhwot/sacklite/pkg/errors"
	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/session"
)

// EnvVersion is reported to the game as the server environment
const EnvVersion = "sacklite"

// maxTicketSize is the largest ticket the 16-bit length field can describe
const maxTicketSize = npticket.HeaderLength + 0xffff

// LoginResult is the body the game expects after a successful login
type LoginResult struct {
	XMLName    struct{} `xml:"loginResult"`
	AuthTicket string   `xml:"authTicket"`
	LbpEnvVer  string   `xml:"lbpEnvVer"`
}

// Login authenticates the NpTicket in the request body and starts a session
func Login(w http.ResponseWriter, r *http.Request) {
	ctxServices := dependencies.ServicesFromContext(r.Context())
	logEntry := ctxServices.Log

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxTicketSize+1))
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Error reading login body")
		respondWithAPIError(w, logEntry, errors.NewBadRequest("unreadable ticket"))
		return
	}

	authenticator := &auth.Authenticator{
		Keys:            ctxServices.Keys,
		VerifySignature: ctxServices.Config.VerifyNpTicketSignature,
		VerifyExpiry:    ctxServices.Config.VerifyNpTicketExpiry,
	}
	identity, err := authenticator.Authenticate(raw, logEntry)
	if err != nil {
		respondWithAPIError(w, logEntry, errors.FromLoginError(err))
		return
	}

	token, err := ctxServices.Sessions.Issue(r.Context(), session.Data{
		Platform:    identity.Platform,
		UserID:      identity.UserID,
		OnlineID:    identity.OnlineID,
		ServiceID:   identity.ServiceID,
		GameVersion: identity.GameVersion,
	})
	if err != nil {
		logEntry.WithField("error", err.Error()).Error("Error issuing session")
		respondWithAPIError(w, logEntry, errors.NewInternalServerError())
		return
	}

	logEntry.WithField("online_id", identity.OnlineID).Info("Player logged in")
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	})
	respondWithXMLBody(w, logEntry, LoginResult{
		AuthTicket: session.CookieName + "=" + token,
		LbpEnvVer:  EnvVersion,
	})
}

// Goodbye ends the caller's session
func Goodbye(w http.ResponseWriter, r *http.Request) {
	ctxServices := dependencies.ServicesFromContext(r.Context())

	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		respondWithAPIError(w, ctxServices.Log, errors.NewForbidden("no session"))
		return
	}
	if err := ctxServices.Sessions.Revoke(r.Context(), cookie.Value); err != nil {
		ctxServices.Log.WithField("error", err.Error()).Info("Error revoking session")
		respondWithAPIError(w, ctxServices.Log, errors.NewForbidden("invalid session"))
		return
	}
	w.WriteHeader(http.StatusOK)
}
