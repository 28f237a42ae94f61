// Package platform describes the identity providers that sign NpTickets.
package platform

import (
	"bytes"
	"crypto"
	"errors"
	"fmt"
)

// Platform is the identity provider a ticket was issued by
type Platform uint8

const (
	// PSN is the PlayStation Network
	PSN Platform = iota + 1
	// RPCN is the RPCS3 emulator network
	RPCN
)

// Curve names used by the key registry
const (
	CurvePrime192v1 = "prime192v1"
	CurveSecp224k1  = "secp224k1"
)

// ErrUnsupported is returned for a footer key id that matches no known provider
var ErrUnsupported = errors.New("unsupported platform")

var (
	psnKeyID  = []byte{0x71, 0x9f, 0x1d, 0x4a}
	rpcnKeyID = []byte("RPCN")
)

// SignedRange tells which bytes of a ticket a provider signs
type SignedRange int

const (
	// RangeTicketPrefix covers the ticket from its first byte up to the signature data start
	RangeTicketPrefix SignedRange = iota
	// RangeBodySection covers the body section, header included
	RangeBodySection
)

// Scheme groups everything that differs between providers when checking a signature
type Scheme struct {
	Curve string
	Hash  crypto.Hash
	Range SignedRange
	// DERPadded is set when the signature slot is fixed width and zero padded
	// after the DER encoded signature.
	DERPadded bool
}

// FromKeyID maps the 4 byte footer key id to a Platform
func FromKeyID(keyID []byte) (Platform, error) {
	switch {
	case bytes.Equal(keyID, psnKeyID):
		return PSN, nil
	case bytes.Equal(keyID, rpcnKeyID):
		return RPCN, nil
	}
	return 0, fmt.Errorf("%w: key id %x", ErrUnsupported, keyID)
}

// KeyID returns the footer key id of the platform
func (p Platform) KeyID() []byte {
	switch p {
	case PSN:
		return bytes.Clone(psnKeyID)
	case RPCN:
		return bytes.Clone(rpcnKeyID)
	}
	return nil
}

// Scheme returns the signature scheme of the platform
func (p Platform) Scheme() (Scheme, error) {
	switch p {
	case PSN:
		return Scheme{Curve: CurvePrime192v1, Hash: crypto.SHA1, Range: RangeTicketPrefix, DERPadded: true}, nil
	case RPCN:
		return Scheme{Curve: CurveSecp224k1, Hash: crypto.SHA224, Range: RangeBodySection}, nil
	}
	return Scheme{}, fmt.Errorf("%w: %d", ErrUnsupported, uint8(p))
}

func (p Platform) String() string {
	switch p {
	case PSN:
		return "psn"
	case RPCN:
		return "rpcn"
	}
	return fmt.Sprintf("unknown(%d)", uint8(p))
}

// Parse is the inverse of String
func Parse(s string) (Platform, error) {
	switch s {
	case "psn":
		return PSN, nil
	case "rpcn":
		return RPCN, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupported, s)
}

// MarshalText implements encoding.TextMarshaler
func (p Platform) MarshalText() ([]byte, error) {
	switch p {
	case PSN, RPCN:
		return []byte(p.String()), nil
	}
	return nil, fmt.Errorf("%w: %d", ErrUnsupported, uint8(p))
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Platform) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
