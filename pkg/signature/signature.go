// Package signature seals small JSON payloads with an HMAC so they can travel
// in cookies and come back untampered.
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

const joinSeparator = "::"

// ErrInvalidDataAndSignatureString returned when a sealed value is not "data::signature"
var ErrInvalidDataAndSignatureString = errors.New("invalid data and signature string")

// ErrSignatureValidationFailure returned when the signature does not match the data
var ErrSignatureValidationFailure = errors.New("signature validation failure")

// ErrSignatureKeyCannotBeEmpty returned when creating a signer without a key
var ErrSignatureKeyCannotBeEmpty = errors.New("signature key cannot be empty")

// Signer seals and opens payloads with one key
type Signer struct {
	key []byte
}

// NewSigner returns a signer for key
func NewSigner(key []byte) (*Signer, error) {
	if len(key) == 0 {
		return nil, ErrSignatureKeyCannotBeEmpty
	}
	return &Signer{key: append([]byte(nil), key...)}, nil
}

func (s *Signer) sign(data []byte) []byte {
	h := hmac.New(sha256.New, s.key)
	h.Write(data)
	return h.Sum(nil)
}

// Sign returns the url-safe signature of data
func (s *Signer) Sign(data []byte) string {
	return base64.URLEncoding.EncodeToString(s.sign(data))
}

// Valid checks that signature was produced for data with this signer's key
func (s *Signer) Valid(data []byte, signature string) bool {
	given, err := base64.URLEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(s.sign(data), given)
}

// Seal marshals v to JSON and returns "base64(data)::signature"
func (s *Signer) Seal(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return Pack(data, s.Sign(data)), nil
}

// Open validates a sealed value and unmarshals its payload into v
func (s *Signer) Open(value string, v interface{}) error {
	data, sig, err := Unpack(value)
	if err != nil {
		return err
	}
	if !s.Valid(data, sig) {
		return ErrSignatureValidationFailure
	}
	return json.Unmarshal(data, v)
}

// Pack joins a payload and its signature
func Pack(data []byte, signature string) string {
	return base64.URLEncoding.EncodeToString(data) + joinSeparator + signature
}

// Unpack splits a sealed value into payload and signature
func Unpack(value string) ([]byte, string, error) {
	// eyJwbGF0Zm9ybSI6InBzbiJ9::RRlcLYl_oeD6dyV0or59iud1150I227Q5u4s3eBrti8=
	encoded, sig, found := strings.Cut(value, joinSeparator)
	if !found || encoded == "" || sig == "" || strings.Contains(sig, joinSeparator) {
		return nil, "", ErrInvalidDataAndSignatureString
	}
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, "", err
	}
	return data, sig, nil
}
