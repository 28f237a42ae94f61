// Package auth turns a raw NpTicket into the identity a session is issued for.
package auth

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/uhwot/sacklite/pkg/gameversion"
	"github.com/uhwot/sacklite/pkg/metrics"
	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/platform"
)

// Identity is the part of a ticket that outlives the login request
type Identity struct {
	Platform    platform.Platform
	UserID      uint64
	OnlineID    string
	ServiceID   string
	GameVersion gameversion.GameVersion
}

// Authenticator checks tickets against the key registry
type Authenticator struct {
	Keys            npticket.KeyLookup
	VerifySignature bool
	VerifyExpiry    bool
	// Now defaults to time.Now
	Now func() time.Time
}

// Authenticate decodes and checks a ticket. Every failure is terminal; the
// returned error wraps one of the npticket sentinels or gameversion.ErrUnknownTitle.
func (a *Authenticator) Authenticate(raw []byte, logEntry log.FieldLogger) (*Identity, error) {
	t, err := npticket.Decode(raw)
	if err != nil {
		result := "malformed"
		if errors.Is(err, npticket.ErrUnsupportedPlatform) {
			result = "unsupported"
		}
		metrics.LoginCount.WithLabelValues("unknown", result).Inc()
		logEntry.WithField("error", err.Error()).Warn("NpTicket parsing failed")
		return nil, err
	}
	plat := t.Footer.Platform.String()
	logEntry = logEntry.WithFields(log.Fields{
		"platform":  plat,
		"online_id": t.Body.OnlineID,
		"user_id":   t.Body.UserID,
	})

	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	if a.VerifyExpiry && t.Expired(now()) {
		metrics.LoginCount.WithLabelValues(plat, "expired").Inc()
		logEntry.WithField("expires_at", t.Body.ExpiryTime()).Warn("NpTicket is expired")
		return nil, npticket.ErrTicketExpired
	}

	if a.VerifySignature {
		start := time.Now()
		ok, err := npticket.Verify(t, a.Keys)
		metrics.TicketVerifyDuration.WithLabelValues(plat).Observe(float64(time.Since(start).Nanoseconds()) / 1000000)
		if err != nil {
			metrics.LoginCount.WithLabelValues(plat, "error").Inc()
			logEntry.WithField("error", err.Error()).Warn("NpTicket signature parsing failed")
			return nil, err
		}
		if !ok {
			metrics.LoginCount.WithLabelValues(plat, "bad_signature").Inc()
			logEntry.WithField("key_id", t.Footer.KeyID).Warn("NpTicket signature doesn't match data and/or key")
			return nil, npticket.ErrSignatureMismatch
		}
	}

	version, err := gameversion.FromServiceID(t.Body.ServiceID)
	if err != nil {
		metrics.LoginCount.WithLabelValues(plat, "unknown_title").Inc()
		logEntry.WithField("service_id", t.Body.ServiceID).Warn("NpTicket is for an unsupported game")
		return nil, err
	}

	metrics.LoginCount.WithLabelValues(plat, "ok").Inc()
	return &Identity{
		Platform:    t.Footer.Platform,
		UserID:      t.Body.UserID,
		OnlineID:    t.Body.OnlineID,
		ServiceID:   t.Body.ServiceID,
		GameVersion: version,
	}, nil
}
