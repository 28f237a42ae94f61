package npticket_test

import (
	"encoding/binary"
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"go.openly.dev/pointy"

	apitesting "github.com/uhwot/sacklite/internal/testing"
	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/platform"
)

// serialOffset is where the serial payload starts: ticket header, body section header, field header
const serialOffset = npticket.HeaderLength + 4 + 4

func decodeKind(err error) npticket.DecodeErrorKind {
	var decodeErr *npticket.DecodeError
	ExpectWithOffset(1, errors.As(err, &decodeErr)).To(BeTrue())
	return decodeErr.Kind
}

var _ = Describe("Decode", func() {
	var keys *apitesting.Keys
	var body npticket.Body
	now := time.UnixMilli(1700000000000)

	BeforeEach(func() {
		var err error
		keys, err = apitesting.NewKeys()
		Expect(err).ToNot(HaveOccurred())
		body = apitesting.DefaultBody(now, apitesting.TicketOverrides{
			OnlineID: pointy.String("littlebig"),
		})
	})

	Context("a well formed PSN ticket", func() {
		var raw []byte
		var ticket *npticket.Ticket

		BeforeEach(func() {
			var err error
			raw, err = keys.Sign(platform.PSN, body)
			Expect(err).ToNot(HaveOccurred())
			ticket, err = npticket.Decode(raw)
			Expect(err).ToNot(HaveOccurred())
		})

		It("reads every body field", func() {
			Expect(ticket.Body.Serial).To(Equal(body.Serial))
			Expect(ticket.Body.IssuerID).To(Equal(body.IssuerID))
			Expect(ticket.Body.IssuedAt).To(Equal(body.IssuedAt))
			Expect(ticket.Body.ExpiresAt).To(Equal(body.ExpiresAt))
			Expect(ticket.Body.UserID).To(Equal(body.UserID))
			Expect(ticket.Body.OnlineID).To(Equal("littlebig"))
			Expect(ticket.Body.Region).To(Equal(body.Region))
			Expect(ticket.Body.Domain).To(Equal(body.Domain))
			Expect(ticket.Body.ServiceID).To(Equal(apitesting.DefaultServiceID))
			Expect(ticket.Body.Status).To(Equal(body.Status))
		})

		It("identifies the platform from the key id", func() {
			Expect(ticket.Footer.Platform).To(Equal(platform.PSN))
			Expect(ticket.Footer.KeyID).To(Equal(platform.PSN.KeyID()))
			Expect(ticket.Footer.Signature).To(HaveLen(apitesting.PSNSignatureSlot))
		})

		It("signs everything up to the end of the key id", func() {
			start, end := ticket.SignedRange()
			Expect(start).To(Equal(0))
			Expect(end).To(Equal(ticket.Footer.SignatureDataStart))
			Expect(end).To(Equal(len(raw) - apitesting.PSNSignatureSlot - 4))
		})

		It("records the body section", func() {
			start, end := ticket.BodyRange()
			Expect(start).To(Equal(npticket.HeaderLength))
			section, err := apitesting.BodySection(body)
			Expect(err).ToNot(HaveOccurred())
			Expect(raw[start:end]).To(Equal(section))
		})

		It("does not modify the input", func() {
			before := append([]byte(nil), raw...)
			_, err := npticket.Decode(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(raw).To(Equal(before))
		})

		It("reports expiry against the given clock", func() {
			Expect(ticket.Expired(now)).To(BeFalse())
			Expect(ticket.Expired(ticket.Body.ExpiryTime())).To(BeTrue())
			Expect(ticket.Expired(ticket.Body.ExpiryTime().Add(-time.Millisecond))).To(BeFalse())
		})
	})

	Context("a well formed RPCN ticket", func() {
		It("signs the body section", func() {
			raw, err := keys.Sign(platform.RPCN, body)
			Expect(err).ToNot(HaveOccurred())
			ticket, err := npticket.Decode(raw)
			Expect(err).ToNot(HaveOccurred())
			Expect(ticket.Footer.Platform).To(Equal(platform.RPCN))

			signStart, signEnd := ticket.SignedRange()
			bodyStart, bodyEnd := ticket.BodyRange()
			Expect(signStart).To(Equal(bodyStart))
			Expect(signEnd).To(Equal(bodyEnd))
		})
	})

	Context("malformed input", func() {
		var raw []byte

		BeforeEach(func() {
			var err error
			raw, err = keys.Sign(platform.PSN, body)
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a declared length that does not match", func() {
			short := make([]byte, 58)
			copy(short, raw)
			binary.BigEndian.PutUint16(short[6:], 100)

			_, err := npticket.Decode(short)
			Expect(err).To(MatchError(npticket.ErrMalformedTicket))
			Expect(decodeKind(err)).To(Equal(npticket.KindLengthMismatch))
		})

		It("rejects a buffer shorter than the header", func() {
			_, err := npticket.Decode(raw[:5])
			Expect(err).To(MatchError(npticket.ErrMalformedTicket))
			Expect(decodeKind(err)).To(Equal(npticket.KindTruncated))
		})

		It("rejects other versions", func() {
			raw[0] = 0x30
			_, err := npticket.Decode(raw)
			Expect(decodeKind(err)).To(Equal(npticket.KindVersionMismatch))
		})

		It("accepts any low nibble in the version byte", func() {
			raw[0] = 0x21
			_, err := npticket.Decode(raw)
			Expect(err).ToNot(HaveOccurred())
		})

		It("rejects a footer where the body should be", func() {
			raw[npticket.HeaderLength+1] = byte(npticket.SectionFooter)
			_, err := npticket.Decode(raw)
			Expect(decodeKind(err)).To(Equal(npticket.KindUnexpectedSection))
		})

		It("rejects unknown section types", func() {
			raw[npticket.HeaderLength+1] = 0x05
			_, err := npticket.Decode(raw)
			Expect(decodeKind(err)).To(Equal(npticket.KindUnknownSection))
		})

		It("rejects unknown field types", func() {
			// serial tag
			binary.BigEndian.PutUint16(raw[serialOffset-4:], 0x0003)
			_, err := npticket.Decode(raw)
			Expect(decodeKind(err)).To(Equal(npticket.KindUnknownFieldType))
		})

		It("rejects fields of the wrong type", func() {
			binary.BigEndian.PutUint16(raw[serialOffset-4:], uint16(npticket.TypeString))
			_, err := npticket.Decode(raw)
			Expect(decodeKind(err)).To(Equal(npticket.KindUnexpectedFieldType))
		})

		It("rejects invalid utf-8 in text fields", func() {
			bad := apitesting.DefaultBody(now, apitesting.TicketOverrides{OnlineID: pointy.String("\xff\xfe")})
			raw, err := apitesting.Build(platform.PSN.KeyID(), bad, make([]byte, apitesting.PSNSignatureSlot))
			Expect(err).ToNot(HaveOccurred())
			_, err = npticket.Decode(raw)
			Expect(decodeKind(err)).To(Equal(npticket.KindInvalidUTF8))
		})

		It("fails every truncation without panicking", func() {
			for i := 0; i < len(raw); i++ {
				cut := append([]byte(nil), raw[:i]...)
				if i >= npticket.HeaderLength {
					binary.BigEndian.PutUint16(cut[6:], uint16(i-npticket.HeaderLength))
				}
				var err error
				Expect(func() { _, err = npticket.Decode(cut) }).ToNot(Panic())
				Expect(err).To(MatchError(npticket.ErrMalformedTicket), "truncated to %d bytes", i)
			}
		})
	})

	It("rejects unknown key ids", func() {
		raw, err := apitesting.Build([]byte{0xde, 0xad, 0xbe, 0xef}, body, make([]byte, 8))
		Expect(err).ToNot(HaveOccurred())
		_, err = npticket.Decode(raw)
		Expect(err).To(MatchError(npticket.ErrUnsupportedPlatform))
		Expect(errors.Is(err, npticket.ErrMalformedTicket)).To(BeFalse())
	})
})
