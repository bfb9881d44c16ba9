package uuid

import (
	gofrs "github.com/gofrs/uuid"

	"github.com/wippyai/lua-runtime/errors"
)

// Size is the length of an identifier in bytes.
const Size = 16

// UUID is a 128-bit identifier held in big-endian wire order, the layout
// gofrs/uuid uses. The defined type carries the codec and bridge behavior;
// convert with a plain conversion when the generator library is needed
// directly.
type UUID gofrs.UUID

// Nil is the all-zero identifier from RFC 4122 section 4.1.7.
var Nil UUID

// New returns a random (version 4) identifier. It panics when the entropy
// source fails, matching the generator library's Must convention.
func New() UUID {
	return UUID(gofrs.Must(gofrs.NewV4()))
}

// Parse reads the hexadecimal string forms accepted by gofrs/uuid:
// hyphenated, simple, and URN.
func Parse(s string) (UUID, error) {
	u, err := gofrs.FromString(s)
	if err != nil {
		return Nil, err
	}
	return UUID(u), nil
}

// FromBytes builds an identifier from exactly Size big-endian bytes.
func FromBytes(b []byte) (UUID, error) {
	if len(b) != Size {
		return Nil, errors.BadLength("UUID", Size, len(b))
	}
	var u UUID
	copy(u[:], b)
	return u, nil
}

// String renders the canonical hyphenated form.
func (u UUID) String() string {
	return gofrs.UUID(u).String()
}

// Bytes returns the Size wire bytes in big-endian order.
func (u UUID) Bytes() []byte {
	return gofrs.UUID(u).Bytes()
}

// IsNil reports whether u is the all-zero identifier.
func (u UUID) IsNil() bool {
	return u == Nil
}
