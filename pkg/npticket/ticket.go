// Package npticket decodes and verifies NpTickets, the signed binary login
// tickets PSN and RPCN hand to the game.
package npticket

import (
	"time"

	"github.com/uhwot/sacklite/pkg/platform"
)

// HeaderLength is the size of the ticket header, which the declared ticket length excludes
const HeaderLength = 8

// Supported ticket version
const (
	VersionMajor = 2
	VersionMinor = 1
)

// SectionType tags a ticket section
type SectionType uint8

// Section types
const (
	SectionBody   SectionType = 0x00
	SectionFooter SectionType = 0x02
)

// SectionHeader precedes the fields of a section
type SectionHeader struct {
	Type   SectionType
	Length uint16
}

// Body carries the identity claims of a ticket
type Body struct {
	Serial    []byte `json:"serial"`
	IssuerID  uint32 `json:"issuer_id"`
	IssuedAt  uint64 `json:"issued_at"`
	ExpiresAt uint64 `json:"expires_at"`
	UserID    uint64 `json:"user_id"`
	OnlineID  string `json:"online_id"`
	Region    string `json:"region"`
	Domain    string `json:"domain"`
	ServiceID string `json:"service_id"`
	Status    uint32 `json:"status"`
}

// IssuedTime returns IssuedAt as a time
func (b *Body) IssuedTime() time.Time { return time.UnixMilli(int64(b.IssuedAt)) }

// ExpiryTime returns ExpiresAt as a time
func (b *Body) ExpiryTime() time.Time { return time.UnixMilli(int64(b.ExpiresAt)) }

// Footer carries the signature of a ticket
type Footer struct {
	Platform platform.Platform `json:"platform"`
	KeyID    []byte            `json:"key_id"`
	// SignatureDataStart is the offset just past the key id payload
	SignatureDataStart int    `json:"signature_data_start"`
	Signature          []byte `json:"signature"`
}

// Ticket is a decoded NpTicket. It only lives for the duration of one login.
type Ticket struct {
	Body   Body   `json:"body"`
	Footer Footer `json:"footer"`

	raw       []byte
	bodyStart int
	bodyEnd   int
	signStart int
	signEnd   int
}

// BodyRange returns the offsets of the body section, header included
func (t *Ticket) BodyRange() (start, end int) { return t.bodyStart, t.bodyEnd }

// SignedRange returns the offsets of the bytes the platform signed
func (t *Ticket) SignedRange() (start, end int) { return t.signStart, t.signEnd }

// SignedData returns the bytes the platform signed
func (t *Ticket) SignedData() []byte { return t.raw[t.signStart:t.signEnd] }

// Expired reports whether the ticket expiry is at or before now
func (t *Ticket) Expired(now time.Time) bool {
	return int64(t.Body.ExpiresAt) <= now.UnixMilli()
}

// Decode parses a raw ticket. It never modifies buf, and the returned ticket
// keeps referencing it.
func Decode(buf []byte) (*Ticket, error) {
	if len(buf) < HeaderLength {
		return nil, decodeErr(KindTruncated, 0, "ticket is %d bytes, header needs %d", len(buf), HeaderLength)
	}
	c := NewCursor(buf)

	major, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	minor, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	if major>>4 != VersionMajor || minor != VersionMinor {
		return nil, decodeErr(KindVersionMismatch, 0, "version %d.%d", major>>4, minor)
	}
	// four reserved bytes
	if err := c.Skip(4); err != nil {
		return nil, err
	}
	length, err := c.ReadU16()
	if err != nil {
		return nil, err
	}
	if int(length) != len(buf)-HeaderLength {
		return nil, decodeErr(KindLengthMismatch, 6, "declared %d, actual %d", length, len(buf)-HeaderLength)
	}

	t := &Ticket{raw: buf}

	t.bodyStart = c.Position()
	if err := t.Body.decode(c); err != nil {
		return nil, err
	}
	t.bodyEnd = c.Position()

	if err := t.Footer.decode(c); err != nil {
		return nil, err
	}

	scheme, err := t.Footer.Platform.Scheme()
	if err != nil {
		return nil, err
	}
	switch scheme.Range {
	case platform.RangeTicketPrefix:
		t.signStart, t.signEnd = 0, t.Footer.SignatureDataStart
	case platform.RangeBodySection:
		t.signStart, t.signEnd = t.bodyStart, t.bodyEnd
	}
	return t, nil
}

func readSectionHeader(c *Cursor, want SectionType) (SectionHeader, error) {
	start := c.Position()
	// reserved
	if err := c.Skip(1); err != nil {
		return SectionHeader{}, err
	}
	typ, err := c.ReadU8()
	if err != nil {
		return SectionHeader{}, err
	}
	length, err := c.ReadU16()
	if err != nil {
		return SectionHeader{}, err
	}
	st := SectionType(typ)
	switch st {
	case SectionBody, SectionFooter:
	default:
		return SectionHeader{}, decodeErr(KindUnknownSection, start, "type 0x%02x", typ)
	}
	if st != want {
		return SectionHeader{}, decodeErr(KindUnexpectedSection, start, "expected 0x%02x, found 0x%02x", want, typ)
	}
	return SectionHeader{Type: st, Length: length}, nil
}

// fieldReader reads typed fields in sequence and keeps the first error
type fieldReader struct {
	c   *Cursor
	err error
}

func (r *fieldReader) next() Field {
	if r.err != nil {
		return Field{}
	}
	f, err := ReadField(r.c)
	r.err = err
	return f
}

func (r *fieldReader) check(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *fieldReader) u32() (v uint32) {
	if f := r.next(); r.err == nil {
		v, r.err = f.Uint32()
	}
	return v
}

func (r *fieldReader) u64() (v uint64) {
	if f := r.next(); r.err == nil {
		v, r.err = f.Uint64()
	}
	return v
}

func (r *fieldReader) timestamp() (v uint64) {
	if f := r.next(); r.err == nil {
		v, r.err = f.Timestamp()
	}
	return v
}

func (r *fieldReader) text() (v string) {
	if f := r.next(); r.err == nil {
		v, r.err = f.Text()
	}
	return v
}

func (r *fieldReader) binaryText() (v string) {
	if f := r.next(); r.err == nil {
		v, r.err = f.BinaryText()
	}
	return v
}

func (r *fieldReader) binary() (v []byte) {
	if f := r.next(); r.err == nil {
		v, r.err = f.Binary()
	}
	return v
}

func (r *fieldReader) empty() {
	if f := r.next(); r.err == nil {
		r.check(f.expect(TypeEmpty))
	}
}

func (b *Body) decode(c *Cursor) error {
	if _, err := readSectionHeader(c, SectionBody); err != nil {
		return err
	}
	r := &fieldReader{c: c}
	b.Serial = r.binary()
	b.IssuerID = r.u32()
	b.IssuedAt = r.timestamp()
	b.ExpiresAt = r.timestamp()
	b.UserID = r.u64()
	b.OnlineID = r.text()
	b.Region = r.binaryText()
	b.Domain = r.text()
	b.ServiceID = r.binaryText()
	b.Status = r.u32()
	// padding
	r.empty()
	r.empty()
	return r.err
}

func (f *Footer) decode(c *Cursor) error {
	if _, err := readSectionHeader(c, SectionFooter); err != nil {
		return err
	}
	keyField, err := ReadField(c)
	if err != nil {
		return err
	}
	if f.KeyID, err = keyField.Binary(); err != nil {
		return err
	}
	if f.Platform, err = platform.FromKeyID(f.KeyID); err != nil {
		return err
	}
	// the key id payload starts right after its type and length
	f.SignatureDataStart = keyField.Offset + 4

	sigField, err := ReadField(c)
	if err != nil {
		return err
	}
	f.Signature, err = sigField.Binary()
	return err
}
