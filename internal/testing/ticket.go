// Package testing builds signed NpTickets with throwaway platform keys.
package testing

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"
	"time"

	"golang.org/x/crypto/cryptobyte"

	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/platform"
	"github.com/uhwot/sacklite/pkg/pubkeys"
)

// PSNSignatureSlot is the size of the zero padded signature field in PSN tickets
const PSNSignatureSlot = 56

// DefaultServiceID is an LBP2 service id
const DefaultServiceID = "UP9000-BCUS98245_00"

// Keys are signing keys for both platforms and the store holding their public halves
type Keys struct {
	PSN   *ecdsa.PrivateKey
	RPCN  *ecdsa.PrivateKey
	Store *pubkeys.Store
}

// NewKeys generates a fresh key pair per platform
func NewKeys() (*Keys, error) {
	psn, err := generate(platform.PSN)
	if err != nil {
		return nil, err
	}
	rpcn, err := generate(platform.RPCN)
	if err != nil {
		return nil, err
	}
	store, err := pubkeys.NewStoreFromKeys(&psn.PublicKey, &rpcn.PublicKey)
	if err != nil {
		return nil, err
	}
	return &Keys{PSN: psn, RPCN: rpcn, Store: store}, nil
}

func generate(p platform.Platform) (*ecdsa.PrivateKey, error) {
	scheme, err := p.Scheme()
	if err != nil {
		return nil, err
	}
	curve, err := pubkeys.Curve(scheme.Curve)
	if err != nil {
		return nil, err
	}
	return ecdsa.GenerateKey(curve, rand.Reader)
}

// TicketOverrides replace parts of the default body
type TicketOverrides struct {
	OnlineID  *string
	UserID    *uint64
	ServiceID *string
	ExpiresAt *uint64
}

// DefaultBody returns a body issued at now and valid for an hour
func DefaultBody(now time.Time, o TicketOverrides) npticket.Body {
	body := npticket.Body{
		Serial:    []byte("0123456789abcdef0123"),
		IssuerID:  0x100,
		IssuedAt:  uint64(now.UnixMilli()),
		ExpiresAt: uint64(now.Add(time.Hour).UnixMilli()),
		UserID:    0x1122334455667788,
		OnlineID:  "sackboy",
		Region:    "us",
		Domain:    "un",
		ServiceID: DefaultServiceID,
		Status:    0,
	}
	if o.OnlineID != nil {
		body.OnlineID = *o.OnlineID
	}
	if o.UserID != nil {
		body.UserID = *o.UserID
	}
	if o.ServiceID != nil {
		body.ServiceID = *o.ServiceID
	}
	if o.ExpiresAt != nil {
		body.ExpiresAt = *o.ExpiresAt
	}
	return body
}

// Sign builds a ticket for p signed with the matching key
func (k *Keys) Sign(p platform.Platform, body npticket.Body) ([]byte, error) {
	switch p {
	case platform.PSN:
		return k.signPSN(body)
	case platform.RPCN:
		return k.signRPCN(body)
	}
	return nil, fmt.Errorf("%s: %w", p, platform.ErrUnsupported)
}

func (k *Keys) signPSN(body npticket.Body) ([]byte, error) {
	ticket, err := Build(platform.PSN.KeyID(), body, make([]byte, PSNSignatureSlot))
	if err != nil {
		return nil, err
	}
	// everything up to and including the key id payload is signed
	sigStart := len(ticket) - PSNSignatureSlot
	signedEnd := sigStart - 4
	h := k.hashOf(platform.PSN, ticket[:signedEnd])
	sig, err := ecdsa.SignASN1(rand.Reader, k.PSN, h)
	if err != nil {
		return nil, err
	}
	if len(sig) > PSNSignatureSlot {
		return nil, fmt.Errorf("signature of %d bytes does not fit the slot", len(sig))
	}
	copy(ticket[sigStart:], sig)
	return ticket, nil
}

func (k *Keys) signRPCN(body npticket.Body) ([]byte, error) {
	section, err := BodySection(body)
	if err != nil {
		return nil, err
	}
	h := k.hashOf(platform.RPCN, section)
	sig, err := ecdsa.SignASN1(rand.Reader, k.RPCN, h)
	if err != nil {
		return nil, err
	}
	return Build(platform.RPCN.KeyID(), body, sig)
}

func (k *Keys) hashOf(p platform.Platform, data []byte) []byte {
	scheme, _ := p.Scheme()
	h := scheme.Hash.New()
	h.Write(data)
	return h.Sum(nil)
}

// BodySection encodes the body section, header included
func BodySection(body npticket.Body) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	npticket.MarshalSection(b, npticket.SectionBody, npticket.BodyFields(&body)...)
	return b.Bytes()
}

// Build assembles an unsigned ticket with the given key id and signature bytes
func Build(keyID []byte, body npticket.Body, sig []byte) ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	npticket.MarshalSection(b, npticket.SectionBody, npticket.BodyFields(&body)...)
	npticket.MarshalSection(b, npticket.SectionFooter,
		npticket.BinaryField(keyID),
		npticket.BinaryField(sig),
	)
	sections, err := b.Bytes()
	if err != nil {
		return nil, err
	}
	if len(sections) > 0xffff {
		return nil, fmt.Errorf("ticket of %d bytes is too long", len(sections))
	}
	out := cryptobyte.NewBuilder(make([]byte, 0, npticket.HeaderLength+len(sections)))
	npticket.MarshalHeader(out, uint16(len(sections)))
	out.AddBytes(sections)
	return out.Bytes()
}
