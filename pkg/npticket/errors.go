package npticket

import (
	"errors"
	"fmt"

	"github.com/uhwot/sacklite/pkg/platform"
)

var (
	// ErrMalformedTicket is wrapped by every structural decoding failure
	ErrMalformedTicket = errors.New("malformed ticket")
	// ErrUnsupportedPlatform is returned for an unknown footer key id
	ErrUnsupportedPlatform = platform.ErrUnsupported
	// ErrSignatureMismatch is returned when a well formed ticket fails its signature check
	ErrSignatureMismatch = errors.New("ticket signature does not match")
	// ErrTicketExpired is returned when the ticket expiry date has passed
	ErrTicketExpired = errors.New("ticket is expired")
)

// DecodeErrorKind classifies a DecodeError
type DecodeErrorKind int

// Decode error kinds
const (
	KindTruncated DecodeErrorKind = iota
	KindVersionMismatch
	KindLengthMismatch
	KindUnknownSection
	KindUnexpectedSection
	KindUnknownFieldType
	KindUnexpectedFieldType
	KindFieldSizeMismatch
	KindInvalidUTF8
)

func (k DecodeErrorKind) String() string {
	switch k {
	case KindTruncated:
		return "truncated input"
	case KindVersionMismatch:
		return "unsupported version"
	case KindLengthMismatch:
		return "length mismatch"
	case KindUnknownSection:
		return "unknown section type"
	case KindUnexpectedSection:
		return "unexpected section"
	case KindUnknownFieldType:
		return "unknown field type"
	case KindUnexpectedFieldType:
		return "unexpected field type"
	case KindFieldSizeMismatch:
		return "field size mismatch"
	case KindInvalidUTF8:
		return "invalid utf-8"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// DecodeError describes where and why a ticket could not be decoded
type DecodeError struct {
	Kind   DecodeErrorKind
	Offset int
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s at offset %d", ErrMalformedTicket, e.Kind, e.Offset)
	}
	return fmt.Sprintf("%s: %s at offset %d: %s", ErrMalformedTicket, e.Kind, e.Offset, e.Detail)
}

// Unwrap lets errors.Is match ErrMalformedTicket
func (e *DecodeError) Unwrap() error { return ErrMalformedTicket }

func decodeErr(kind DecodeErrorKind, offset int, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Kind: kind, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

// VerifyError is returned when the signature bytes cannot be interpreted at all,
// as opposed to a signature that simply does not match.
type VerifyError struct {
	Reason string
}

func (e *VerifyError) Error() string { return "cannot verify ticket signature: " + e.Reason }
