// Package digest implements the SHA-1 integrity digest the game attaches to
// requests and expects on responses.
package digest

import (
	"crypto/sha1" // #nosec G505 -- the game client only speaks SHA-1
	"encoding/hex"
	"errors"
)

// Header names. The request digest arrives under HeaderA, or HeaderB for
// uploads; responses carry their own digest under HeaderA and echo the request
// digest under HeaderB.
const (
	HeaderA = "X-Digest-A"
	HeaderB = "X-Digest-B"
)

// CookieName is the session cookie folded into every digest
const CookieName = "MM_AUTH"

// Size is the length of a hex encoded digest
const Size = sha1.Size * 2

var (
	// ErrDigestMissing is returned when the expected digest header is absent
	ErrDigestMissing = errors.New("digest header is missing")
	// ErrDigestMismatch is returned when the digest header is unparsable or wrong
	ErrDigestMismatch = errors.New("digest does not match")
)

// Compute returns hex(SHA1(body ‖ cookie ‖ path ‖ key)). The order is fixed by the client.
func Compute(body []byte, cookie, path, key string) string {
	h := sha1.New() // #nosec G401
	h.Write(body)
	h.Write([]byte(cookie))
	h.Write([]byte(path))
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

// Check compares a client supplied digest against the expected one
func Check(expected, given string) error {
	if given == "" {
		return ErrDigestMissing
	}
	decoded, err := hex.DecodeString(given)
	if err != nil || len(decoded) != sha1.Size {
		return ErrDigestMismatch
	}
	want, _ := hex.DecodeString(expected)
	if !equal(want, decoded) {
		return ErrDigestMismatch
	}
	return nil
}
