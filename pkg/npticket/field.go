package npticket

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/cryptobyte"
)

// FieldType is the 16-bit tag in front of every typed field
type FieldType uint16

// Field types
const (
	TypeEmpty     FieldType = 0x00
	TypeU32       FieldType = 0x01
	TypeU64       FieldType = 0x02
	TypeString    FieldType = 0x04
	TypeTimestamp FieldType = 0x07
	TypeBinary    FieldType = 0x08
)

func (t FieldType) String() string {
	switch t {
	case TypeEmpty:
		return "empty"
	case TypeU32:
		return "u32"
	case TypeU64:
		return "u64"
	case TypeString:
		return "string"
	case TypeTimestamp:
		return "timestamp"
	case TypeBinary:
		return "binary"
	}
	return fmt.Sprintf("type(0x%04x)", uint16(t))
}

// fixedSize is the payload size a type requires, or -1 when any size is allowed
func (t FieldType) fixedSize() int {
	switch t {
	case TypeEmpty:
		return 0
	case TypeU32:
		return 4
	case TypeU64, TypeTimestamp:
		return 8
	}
	return -1
}

func (t FieldType) known() bool {
	switch t {
	case TypeEmpty, TypeU32, TypeU64, TypeString, TypeTimestamp, TypeBinary:
		return true
	}
	return false
}

// Field is one type-length-value unit. Value holds the payload exactly as it
// appeared on the wire; Offset is the position of the payload in the ticket.
type Field struct {
	Type   FieldType
	Value  []byte
	Offset int
}

// EmptyField returns an empty padding field
func EmptyField() Field { return Field{Type: TypeEmpty, Value: []byte{}} }

// U32Field returns a u32 field
func U32Field(v uint32) Field {
	return Field{Type: TypeU32, Value: binary.BigEndian.AppendUint32(nil, v)}
}

// U64Field returns a u64 field
func U64Field(v uint64) Field {
	return Field{Type: TypeU64, Value: binary.BigEndian.AppendUint64(nil, v)}
}

// TimestampField returns a timestamp field holding milliseconds since the epoch
func TimestampField(ms uint64) Field {
	return Field{Type: TypeTimestamp, Value: binary.BigEndian.AppendUint64(nil, ms)}
}

// StringField returns a string field NUL padded to width bytes. A width smaller
// than the string leaves it unpadded.
func StringField(s string, width int) Field {
	return Field{Type: TypeString, Value: padded(s, width)}
}

// BinaryField returns a binary field
func BinaryField(b []byte) Field {
	return Field{Type: TypeBinary, Value: bytes.Clone(b)}
}

// BinaryStringField returns a binary field carrying NUL padded text
func BinaryStringField(s string, width int) Field {
	return Field{Type: TypeBinary, Value: padded(s, width)}
}

func padded(s string, width int) []byte {
	b := []byte(s)
	if len(b) < width {
		b = append(b, make([]byte, width-len(b))...)
	}
	return b
}

// ReadField reads one typed field, rejecting unknown tags and bad fixed sizes
func ReadField(c *Cursor) (Field, error) {
	start := c.Position()
	tag, err := c.ReadU16()
	if err != nil {
		return Field{}, err
	}
	length, err := c.ReadU16()
	if err != nil {
		return Field{}, err
	}
	t := FieldType(tag)
	if !t.known() {
		return Field{}, decodeErr(KindUnknownFieldType, start, "tag 0x%04x", tag)
	}
	if size := t.fixedSize(); size >= 0 && int(length) != size {
		return Field{}, decodeErr(KindFieldSizeMismatch, start, "%s field declares %d bytes, want %d", t, length, size)
	}
	offset := c.Position()
	value, err := c.ReadBytes(int(length))
	if err != nil {
		return Field{}, err
	}
	return Field{Type: t, Value: value, Offset: offset}, nil
}

func (f Field) expect(t FieldType) error {
	if f.Type != t {
		return decodeErr(KindUnexpectedFieldType, f.Offset-4, "expected %s, found %s", t, f.Type)
	}
	return nil
}

// Uint32 returns the value of a u32 field
func (f Field) Uint32() (uint32, error) {
	if err := f.expect(TypeU32); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(f.Value), nil
}

// Uint64 returns the value of a u64 field
func (f Field) Uint64() (uint64, error) {
	if err := f.expect(TypeU64); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(f.Value), nil
}

// Timestamp returns the milliseconds held by a timestamp field
func (f Field) Timestamp() (uint64, error) {
	if err := f.expect(TypeTimestamp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(f.Value), nil
}

// Text returns a string field with its NUL padding trimmed
func (f Field) Text() (string, error) {
	if err := f.expect(TypeString); err != nil {
		return "", err
	}
	return f.trimmedText()
}

// BinaryText returns a binary field read as NUL padded text
func (f Field) BinaryText() (string, error) {
	if err := f.expect(TypeBinary); err != nil {
		return "", err
	}
	return f.trimmedText()
}

// Binary returns a copy of a binary field's payload
func (f Field) Binary() ([]byte, error) {
	if err := f.expect(TypeBinary); err != nil {
		return nil, err
	}
	return bytes.Clone(f.Value), nil
}

func (f Field) trimmedText() (string, error) {
	if !utf8.Valid(f.Value) {
		return "", decodeErr(KindInvalidUTF8, f.Offset, "%s field", f.Type)
	}
	return string(bytes.TrimRight(f.Value, "\x00")), nil
}

// Marshal appends the field's wire encoding to b
func (f Field) Marshal(b *cryptobyte.Builder) {
	b.AddUint16(uint16(f.Type))
	b.AddUint16LengthPrefixed(func(b *cryptobyte.Builder) {
		b.AddBytes(f.Value)
	})
}

// Encode returns the field's wire encoding
func (f Field) Encode() ([]byte, error) {
	b := cryptobyte.NewBuilder(nil)
	f.Marshal(b)
	return b.Bytes()
}
