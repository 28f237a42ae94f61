package npticket_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	apitesting "github.com/uhwot/sacklite/internal/testing"
	"github.com/uhwot/sacklite/pkg/npticket"
	"github.com/uhwot/sacklite/pkg/platform"
	"github.com/uhwot/sacklite/pkg/pubkeys"
)

var _ = Describe("Verify", func() {
	var keys *apitesting.Keys
	var body npticket.Body

	BeforeEach(func() {
		var err error
		keys, err = apitesting.NewKeys()
		Expect(err).ToNot(HaveOccurred())
		body = apitesting.DefaultBody(time.Now(), apitesting.TicketOverrides{})
	})

	sign := func(p platform.Platform) []byte {
		raw, err := keys.Sign(p, body)
		ExpectWithOffset(1, err).ToNot(HaveOccurred())
		return raw
	}

	verify := func(raw []byte, store npticket.KeyLookup) (bool, error) {
		ticket, err := npticket.Decode(raw)
		ExpectWithOffset(1, err).ToNot(HaveOccurred())
		return npticket.Verify(ticket, store)
	}

	for _, p := range []platform.Platform{platform.PSN, platform.RPCN} {
		p := p

		Context(p.String(), func() {
			It("accepts a ticket signed with the platform key", func() {
				ok, err := verify(sign(p), keys.Store)
				Expect(err).ToNot(HaveOccurred())
				Expect(ok).To(BeTrue())
			})

			It("rejects a ticket whose body changed after signing", func() {
				raw := sign(p)
				raw[serialOffset] ^= 0xff
				ok, err := verify(raw, keys.Store)
				Expect(err).ToNot(HaveOccurred())
				Expect(ok).To(BeFalse())
			})

			It("rejects a ticket signed by someone else", func() {
				other, err := pubkeys.NewStore()
				Expect(err).ToNot(HaveOccurred())
				ok, err := verify(sign(p), other)
				Expect(err).ToNot(HaveOccurred())
				Expect(ok).To(BeFalse())
			})
		})
	}

	Context("PSN signature padding", func() {
		It("ignores whatever follows the DER sequence", func() {
			raw := sign(platform.PSN)
			sigStart := len(raw) - apitesting.PSNSignatureSlot
			derLen := int(raw[sigStart+1]) + 2
			for i := sigStart + derLen; i < len(raw); i++ {
				raw[i] = 0xaa
			}
			ok, err := verify(raw, keys.Store)
			Expect(err).ToNot(HaveOccurred())
			Expect(ok).To(BeTrue())
		})

		It("refuses long form DER lengths", func() {
			raw := sign(platform.PSN)
			raw[len(raw)-apitesting.PSNSignatureSlot+1] = 0x81
			_, err := verify(raw, keys.Store)
			var verifyErr *npticket.VerifyError
			Expect(errors.As(err, &verifyErr)).To(BeTrue())
		})

		It("refuses a DER length past the end of the slot", func() {
			raw := sign(platform.PSN)
			raw[len(raw)-apitesting.PSNSignatureSlot+1] = 0x7f
			_, err := verify(raw, keys.Store)
			var verifyErr *npticket.VerifyError
			Expect(errors.As(err, &verifyErr)).To(BeTrue())
		})
	})

	It("rejects a corrupted RPCN signature without error", func() {
		raw := sign(platform.RPCN)
		raw[len(raw)-1] ^= 0x01
		ok, err := verify(raw, keys.Store)
		Expect(err).ToNot(HaveOccurred())
		Expect(ok).To(BeFalse())
	})
})
