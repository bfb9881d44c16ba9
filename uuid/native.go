package uuid

import (
	"encoding/binary"

	"github.com/wippyai/lua-runtime/errors"
)

// Native is the identifier in the embedded runtime's in-memory layout: the
// RFC 4122 field split with TimeLow, TimeMid, and TimeHiAndVersion held as
// machine integers. Converting to or from the wire form byte-swaps exactly
// those three fields; the clock sequence and node bytes have no byte order.
type Native struct {
	TimeLow               uint32
	TimeMid               uint16
	TimeHiAndVersion      uint16
	ClockSeqHiAndReserved uint8
	ClockSeqLow           uint8
	Node                  [6]byte
}

// Wire encodes n into the big-endian wire form.
func (n Native) Wire() [Size]byte {
	var b [Size]byte
	binary.BigEndian.PutUint32(b[0:4], n.TimeLow)
	binary.BigEndian.PutUint16(b[4:6], n.TimeMid)
	binary.BigEndian.PutUint16(b[6:8], n.TimeHiAndVersion)
	b[8] = n.ClockSeqHiAndReserved
	b[9] = n.ClockSeqLow
	copy(b[10:], n.Node[:])
	return b
}

// FromWire decodes big-endian wire bytes into the native field split.
func FromWire(b []byte) (Native, error) {
	if len(b) != Size {
		return Native{}, errors.BadLength("UUID", Size, len(b))
	}
	var n Native
	n.TimeLow = binary.BigEndian.Uint32(b[0:4])
	n.TimeMid = binary.BigEndian.Uint16(b[4:6])
	n.TimeHiAndVersion = binary.BigEndian.Uint16(b[6:8])
	n.ClockSeqHiAndReserved = b[8]
	n.ClockSeqLow = b[9]
	copy(n.Node[:], b[10:])
	return n, nil
}

// Native returns u in the native field split.
func (u UUID) Native() Native {
	n, _ := FromWire(u[:]) // length is fixed
	return n
}

// UUID reassembles the wire-order identifier.
func (n Native) UUID() UUID {
	return UUID(n.Wire())
}
