package npticket

import "golang.org/x/crypto/cryptobyte"

// sectionReserved is the byte real tickets carry in front of the section type
const sectionReserved = 0x30

// MarshalSection appends a section header followed by its fields
func MarshalSection(b *cryptobyte.Builder, typ SectionType, fields ...Field) {
	b.AddUint8(sectionReserved)
	b.AddUint8(uint8(typ))
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		for _, f := range fields {
			f.Marshal(b)
		}
	})
}

// MarshalHeader appends a version 2.1 ticket header declaring length bytes after it
func MarshalHeader(b *cryptobyte.Builder, length uint16) {
	b.AddUint8(VersionMajor << 4)
	b.AddUint8(VersionMinor)
	b.AddBytes(make([]byte, 4))
	b.AddUint16(length)
}

// BodyFields returns the fields of a body in wire order. Text fields are
// written at their natural length.
func BodyFields(body *Body) []Field {
	return []Field{
		BinaryField(body.Serial),
		U32Field(body.IssuerID),
		TimestampField(body.IssuedAt),
		TimestampField(body.ExpiresAt),
		U64Field(body.UserID),
		StringField(body.OnlineID, 0),
		BinaryStringField(body.Region, 0),
		StringField(body.Domain, 0),
		BinaryStringField(body.ServiceID, 0),
		U32Field(body.Status),
		EmptyField(),
		EmptyField(),
	}
}
