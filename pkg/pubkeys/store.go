// Package pubkeys holds the public keys NpTicket signatures are checked against.
package pubkeys

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	_ "crypto/sha1" // PSN tickets are hashed with SHA-1
	_ "crypto/sha256"
	"errors"
	"fmt"
	"math/big"

	"github.com/uhwot/sacklite/pkg/platform"
)

// ErrKeyNotOnCurve is returned when a configured key is not a point of its curve
var ErrKeyNotOnCurve = errors.New("public key is not on curve")

// key coordinates published by the ProjectLighthouse project
var (
	psnKey = keyParams{
		x: "39c62d061d4ee35c5f3f7531de0af3cf918346526edac727",
		y: "a5d578b55113e612bf1878d4cc939d61a41318403b5bdf86",
	}
	rpcnKey = keyParams{
		x: "b07bc0f0addb97657e9f389039e8d2b9c97dc2a31d3042e7d0479b93",
		y: "d81c42b0abdf6c42191a31e31f93342f8f033bd529c2c57fdb5a0a7d",
	}
)

type keyParams struct {
	x, y string
}

// Entry is everything needed to check one provider's signatures
type Entry struct {
	Platform  platform.Platform
	Curve     elliptic.Curve
	Hash      crypto.Hash
	PublicKey *ecdsa.PublicKey
}

// Store is the process wide key registry. It is never written after construction,
// so concurrent lookups need no locking.
type Store struct {
	psn  *Entry
	rpcn *Entry
}

// Curve returns the curve registered under a platform curve name
func Curve(name string) (elliptic.Curve, error) {
	switch name {
	case platform.CurvePrime192v1:
		return prime192v1, nil
	case platform.CurveSecp224k1:
		return secp224k1, nil
	}
	return nil, fmt.Errorf("unknown curve %q", name)
}

// NewStore builds the registry from the built-in provider keys
func NewStore() (*Store, error) {
	psn, err := newPublicKey(platform.PSN, psnKey)
	if err != nil {
		return nil, err
	}
	rpcn, err := newPublicKey(platform.RPCN, rpcnKey)
	if err != nil {
		return nil, err
	}
	return NewStoreFromKeys(psn, rpcn)
}

// NewStoreFromKeys builds a registry around the given keys, which must lie on the
// curve of their provider.
func NewStoreFromKeys(psn, rpcn *ecdsa.PublicKey) (*Store, error) {
	psnEntry, err := newEntry(platform.PSN, psn)
	if err != nil {
		return nil, err
	}
	rpcnEntry, err := newEntry(platform.RPCN, rpcn)
	if err != nil {
		return nil, err
	}
	return &Store{psn: psnEntry, rpcn: rpcnEntry}, nil
}

// Lookup returns the entry of a platform
func (s *Store) Lookup(p platform.Platform) (*Entry, error) {
	switch p {
	case platform.PSN:
		return s.psn, nil
	case platform.RPCN:
		return s.rpcn, nil
	}
	return nil, fmt.Errorf("%w: %d", platform.ErrUnsupported, uint8(p))
}

func newPublicKey(p platform.Platform, params keyParams) (*ecdsa.PublicKey, error) {
	scheme, err := p.Scheme()
	if err != nil {
		return nil, err
	}
	curve, err := Curve(scheme.Curve)
	if err != nil {
		return nil, err
	}
	return &ecdsa.PublicKey{
		Curve: curve,
		X:     mustHex(params.x),
		Y:     mustHex(params.y),
	}, nil
}

func newEntry(p platform.Platform, key *ecdsa.PublicKey) (*Entry, error) {
	scheme, err := p.Scheme()
	if err != nil {
		return nil, err
	}
	curve, err := Curve(scheme.Curve)
	if err != nil {
		return nil, err
	}
	if key == nil || key.Curve == nil || key.X == nil || key.Y == nil {
		return nil, fmt.Errorf("%s: missing public key", p)
	}
	if key.Curve.Params().Name != curve.Params().Name || !curve.IsOnCurve(key.X, key.Y) {
		return nil, fmt.Errorf("%s: %w", p, ErrKeyNotOnCurve)
	}
	return &Entry{
		Platform: p,
		Curve:    curve,
		Hash:     scheme.Hash,
		PublicKey: &ecdsa.PublicKey{
			Curve: curve,
			X:     new(big.Int).Set(key.X),
			Y:     new(big.Int).Set(key.Y),
		},
	}, nil
}
