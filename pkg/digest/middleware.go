package digest

import (
	"bytes"
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/uhwot/sacklite/pkg/metrics"

	log "github.com/sirupsen/logrus"
)

// ExemptPaths are requested before the client starts sending digests
var ExemptPaths = map[string]struct{}{
	"/login":                {},
	"/eula":                 {},
	"/announce":             {},
	"/status":               {},
	"/farc_hashes":          {},
	"/t_conf":               {},
	"/network_settings.nws": {},
	"/ChallengeConfig.xml":  {},
}

const uploadPrefix = "/upload/"

// Options configures the digest middleware
type Options struct {
	// Key is the shared digest secret
	Key string
	// BasePath is stripped from the request path before hashing
	BasePath string
	// Enforce rejects requests whose digest is missing or wrong
	Enforce bool
}

func equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Middleware checks request digests and stamps response digests.
// Responses are fully buffered: the client expects one digest over the whole
// body, so there is no streaming form.
func Middleware(opts Options) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logEntry := log.WithContext(r.Context()).WithField("path", r.URL.Path)

			path := strings.TrimPrefix(r.URL.Path, opts.BasePath)
			if path == "" {
				path = "/"
			}
			upload := strings.HasPrefix(path, uploadPrefix)

			var body []byte
			if !upload && r.Body != nil {
				var err error
				body, err = io.ReadAll(r.Body)
				r.Body.Close()
				if err != nil {
					logEntry.WithField("error", err.Error()).Error("Error reading request body for digest")
					http.Error(w, "", http.StatusBadRequest)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(body))
			}

			cookie := ""
			if c, err := r.Cookie(CookieName); err == nil {
				cookie = c.Value
			}

			reqDigest := Compute(body, cookie, path, opts.Key)

			_, exempt := ExemptPaths[path]
			if opts.Enforce && !exempt {
				header := HeaderA
				if upload {
					header = HeaderB
				}
				if err := Check(reqDigest, r.Header.Get(header)); err != nil {
					metrics.DigestChecks.WithLabelValues(resultLabel(err)).Inc()
					logEntry.WithFields(log.Fields{
						"error":         err.Error(),
						"header":        header,
						"digest":        reqDigest,
						"client_digest": r.Header.Get(header),
					}).Info("Rejecting request with bad digest")
					w.Header().Set(HeaderB, reqDigest)
					w.WriteHeader(http.StatusForbidden)
					return
				}
				metrics.DigestChecks.WithLabelValues("ok").Inc()
			}

			bw := newBufferedWriter()
			next.ServeHTTP(bw, r)

			respBody := bw.buf.Bytes()
			if upload {
				respBody = nil
			}
			bw.header.Set(HeaderA, Compute(respBody, cookie, path, opts.Key))
			bw.header.Set(HeaderB, reqDigest)
			bw.flushTo(w, logEntry)
		})
	}
}

func resultLabel(err error) string {
	if errors.Is(err, ErrDigestMissing) {
		return "missing"
	}
	return "mismatch"
}

// bufferedWriter holds a whole response until its digest is known
type bufferedWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newBufferedWriter() *bufferedWriter {
	return &bufferedWriter{header: make(http.Header)}
}

func (b *bufferedWriter) Header() http.Header { return b.header }

func (b *bufferedWriter) WriteHeader(code int) {
	if b.status == 0 {
		b.status = code
	}
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	if b.status == 0 {
		b.status = http.StatusOK
	}
	return b.buf.Write(p)
}

func (b *bufferedWriter) flushTo(w http.ResponseWriter, logEntry *log.Entry) {
	dst := w.Header()
	for k, v := range b.header {
		dst[k] = v
	}
	if b.status == 0 {
		b.status = http.StatusOK
	}
	w.WriteHeader(b.status)
	if _, err := w.Write(b.buf.Bytes()); err != nil {
		logEntry.WithField("error", err.Error()).Error("Error writing buffered response")
	}
}
