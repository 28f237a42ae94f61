package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/uhwot/sacklite/pkg/gameversion"
	"github.com/uhwot/sacklite/pkg/platform"
)

var _ = Describe("SignedIssuer", func() {
	var issuer *SignedIssuer
	var data Data
	ctx := context.Background()
	start := time.Unix(1700000000, 0)

	BeforeEach(func() {
		var err error
		issuer, err = NewSignedIssuer([]byte(faker.Password()), time.Hour)
		Expect(err).ToNot(HaveOccurred())
		issuer.now = func() time.Time { return start }
		data = Data{
			Platform:    platform.RPCN,
			UserID:      42,
			OnlineID:    faker.Username(),
			ServiceID:   "UP9000-BCUS98245_00",
			GameVersion: gameversion.LBP2,
		}
	})

	AfterEach(func() {
		issuer.Stop()
	})

	It("refuses an empty key", func() {
		_, err := NewSignedIssuer(nil, time.Hour)
		Expect(err).To(HaveOccurred())
	})

	It("parses what it issued", func() {
		token, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())

		parsed, err := issuer.Parse(ctx, token)
		Expect(err).ToNot(HaveOccurred())
		Expect(parsed.ID).ToNot(Equal(uuid.Nil))
		Expect(parsed.ExpiresAt).To(Equal(start.Add(time.Hour).Unix()))
		Expect(parsed.OnlineID).To(Equal(data.OnlineID))
		Expect(parsed.Platform).To(Equal(platform.RPCN))
		Expect(parsed.GameVersion).To(Equal(gameversion.LBP2))
	})

	It("gives every session its own id", func() {
		first, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		second, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		Expect(first).ToNot(Equal(second))
	})

	It("rejects tampered tokens", func() {
		token, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		encoded, sig, _ := strings.Cut(token, "::")
		_, err = issuer.Parse(ctx, encoded+"::"+strings.ToUpper(sig))
		Expect(err).To(MatchError(ErrInvalidSession))
	})

	It("rejects tokens from another key", func() {
		other, err := NewSignedIssuer([]byte("another key"), time.Hour)
		Expect(err).ToNot(HaveOccurred())
		defer other.Stop()
		token, err := other.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())

		_, err = issuer.Parse(ctx, token)
		Expect(err).To(MatchError(ErrInvalidSession))
	})

	It("rejects expired tokens", func() {
		token, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		issuer.now = func() time.Time { return start.Add(time.Hour) }
		_, err = issuer.Parse(ctx, token)
		Expect(err).To(MatchError(ErrSessionExpired))
	})

	It("rejects revoked tokens", func() {
		token, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		Expect(issuer.Revoke(ctx, token)).To(Succeed())

		_, err = issuer.Parse(ctx, token)
		Expect(err).To(MatchError(ErrSessionRevoked))
		Expect(issuer.Revoke(ctx, token)).To(MatchError(ErrSessionRevoked))
	})

	It("does not revoke other sessions", func() {
		first, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		second, err := issuer.Issue(ctx, data)
		Expect(err).ToNot(HaveOccurred())
		Expect(issuer.Revoke(ctx, first)).To(Succeed())

		_, err = issuer.Parse(ctx, second)
		Expect(err).ToNot(HaveOccurred())
	})
})

var _ = Describe("RequireSession", func() {
	var issuer *SignedIssuer
	var seen *Data
	var handler http.Handler

	BeforeEach(func() {
		var err error
		issuer, err = NewSignedIssuer([]byte(faker.Password()), time.Hour)
		Expect(err).ToNot(HaveOccurred())
		seen = nil
		handler = RequireSession(issuer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen, _ = FromContext(r.Context())
		}))
	})

	AfterEach(func() {
		issuer.Stop()
	})

	serve := func(cookie *http.Cookie) int {
		req := httptest.NewRequest(http.MethodPost, "/goodbye", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	It("rejects requests without a cookie", func() {
		Expect(serve(nil)).To(Equal(http.StatusForbidden))
		Expect(seen).To(BeNil())
	})

	It("rejects requests with a bad cookie", func() {
		Expect(serve(&http.Cookie{Name: CookieName, Value: "garbage"})).To(Equal(http.StatusForbidden))
		Expect(seen).To(BeNil())
	})

	It("puts the session on the request context", func() {
		token, err := issuer.Issue(context.Background(), Data{Platform: platform.PSN, OnlineID: "sackboy"})
		Expect(err).ToNot(HaveOccurred())
		Expect(serve(&http.Cookie{Name: CookieName, Value: token})).To(Equal(http.StatusOK))
		Expect(seen).ToNot(BeNil())
		Expect(seen.OnlineID).To(Equal("sackboy"))
	})
})
