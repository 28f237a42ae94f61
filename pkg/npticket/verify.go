package npticket

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/uhwot/sacklite/pkg/platform"
	"github.com/uhwot/sacklite/pkg/pubkeys"
)

// KeyLookup resolves the key a platform signs tickets with
type KeyLookup interface {
	Lookup(platform.Platform) (*pubkeys.Entry, error)
}

// Verify checks the ticket signature. A false result with a nil error is a
// clean mismatch; an error means the signature bytes could not be used at all.
func Verify(t *Ticket, keys KeyLookup) (bool, error) {
	entry, err := keys.Lookup(t.Footer.Platform)
	if err != nil {
		return false, err
	}
	scheme, err := t.Footer.Platform.Scheme()
	if err != nil {
		return false, err
	}

	sig := t.Footer.Signature
	if scheme.DERPadded {
		if sig, err = trimDERPadding(sig); err != nil {
			return false, err
		}
	}

	if !entry.Hash.Available() {
		return false, fmt.Errorf("hash %s is not linked into the binary", entry.Hash)
	}
	h := entry.Hash.New()
	h.Write(t.SignedData())

	return ecdsa.VerifyASN1(entry.PublicKey, h.Sum(nil), sig), nil
}

// trimDERPadding cuts a zero padded signature slot down to the DER sequence it
// holds, using the length byte after the sequence tag. Only short form lengths
// are handled; P-192 signatures never need the long form.
func trimDERPadding(sig []byte) ([]byte, error) {
	if len(sig) < 2 {
		return nil, &VerifyError{Reason: fmt.Sprintf("signature is %d bytes", len(sig))}
	}
	if sig[1]&0x80 != 0 {
		return nil, &VerifyError{Reason: "long form DER length is not supported"}
	}
	n := int(sig[1]) + 2
	if n > len(sig) {
		return nil, &VerifyError{Reason: fmt.Sprintf("DER length %d exceeds signature slot of %d bytes", n, len(sig))}
	}
	return sig[:n], nil
}
