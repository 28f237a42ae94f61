// Package session issues the MM_AUTH session tokens handed out at login.
// Tokens are self contained signed payloads; nothing is stored server side
// except the ids of sessions revoked before their expiry.
package session

//go:generate mockgen -source=session.go -destination=mock_session/session.go -package=mock_session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uhwot/sacklite/pkg/cache"
	"github.com/uhwot/sacklite/pkg/gameversion"
	"github.com/uhwot/sacklite/pkg/metrics"
	"github.com/uhwot/sacklite/pkg/platform"
	"github.com/uhwot/sacklite/pkg/signature"
)

// CookieName is the cookie the game sends its session token in
const CookieName = "MM_AUTH"

var (
	// ErrInvalidSession is returned for tokens that fail to open
	ErrInvalidSession = errors.New("invalid session token")
	// ErrSessionExpired is returned for tokens past their expiry
	ErrSessionExpired = errors.New("session expired")
	// ErrSessionRevoked is returned for tokens revoked at logout
	ErrSessionRevoked = errors.New("session revoked")
)

// Data is what a session remembers about the player
type Data struct {
	ID          uuid.UUID               `json:"id"`
	Platform    platform.Platform       `json:"platform"`
	UserID      uint64                  `json:"user_id"`
	OnlineID    string                  `json:"online_id"`
	ServiceID   string                  `json:"service_id"`
	GameVersion gameversion.GameVersion `json:"game_version"`
	ExpiresAt   int64                   `json:"expires_at"`
}

// Issuer creates, resolves and revokes session tokens
type Issuer interface {
	Issue(ctx context.Context, data Data) (string, error)
	Parse(ctx context.Context, token string) (*Data, error)
	Revoke(ctx context.Context, token string) error
}

// SignedIssuer seals session data with an HMAC key
type SignedIssuer struct {
	signer  *signature.Signer
	ttl     time.Duration
	revoked *cache.Cache[uuid.UUID, struct{}]
	now     func() time.Time
}

// NewSignedIssuer returns an issuer whose sessions last ttl
func NewSignedIssuer(key []byte, ttl time.Duration) (*SignedIssuer, error) {
	signer, err := signature.NewSigner(key)
	if err != nil {
		return nil, err
	}
	return &SignedIssuer{
		signer:  signer,
		ttl:     ttl,
		revoked: cache.NewMemoryCache[uuid.UUID, struct{}]("revoked_sessions", ttl),
		now:     time.Now,
	}, nil
}

// Issue assigns the session an id and expiry and returns its token
func (s *SignedIssuer) Issue(_ context.Context, data Data) (string, error) {
	data.ID = uuid.New()
	data.ExpiresAt = s.now().Add(s.ttl).Unix()
	token, err := s.signer.Seal(&data)
	if err != nil {
		return "", err
	}
	metrics.SessionCount.WithLabelValues("issued").Inc()
	return token, nil
}

// Parse opens a token and checks that it is still live
func (s *SignedIssuer) Parse(_ context.Context, token string) (*Data, error) {
	var data Data
	if err := s.signer.Open(token, &data); err != nil {
		metrics.SessionCount.WithLabelValues("rejected").Inc()
		return nil, errors.Join(ErrInvalidSession, err)
	}
	if s.now().Unix() >= data.ExpiresAt {
		metrics.SessionCount.WithLabelValues("rejected").Inc()
		return nil, ErrSessionExpired
	}
	if _, found := s.revoked.Get(data.ID); found {
		metrics.SessionCount.WithLabelValues("rejected").Inc()
		return nil, ErrSessionRevoked
	}
	return &data, nil
}

// Revoke invalidates a token until its natural expiry
func (s *SignedIssuer) Revoke(ctx context.Context, token string) error {
	data, err := s.Parse(ctx, token)
	if err != nil {
		return err
	}
	remaining := time.Unix(data.ExpiresAt, 0).Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	// a zero ttl would keep the entry forever
	s.revoked.Set(data.ID, struct{}{}, remaining)
	metrics.SessionCount.WithLabelValues("revoked").Inc()
	return nil
}

// Stop releases the revocation list
func (s *SignedIssuer) Stop() {
	s.revoked.Stop()
}

type ctxKey struct{}

// WithData stores session data on a context
func WithData(ctx context.Context, data *Data) context.Context {
	return context.WithValue(ctx, ctxKey{}, data)
}

// FromContext returns the session data stored by WithData
func FromContext(ctx context.Context) (*Data, bool) {
	data, ok := ctx.Value(ctxKey{}).(*Data)
	return data, ok
}
