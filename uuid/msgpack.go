package uuid

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/lua-runtime/errors"
)

// ExtTag is the msgpack extension type code identifiers travel under.
const ExtTag int8 = 2

func init() {
	msgpack.RegisterExt(ExtTag, (*UUID)(nil))
}

// MarshalMsgpack emits the Size-byte big-endian payload; the codec writes
// the extension header carrying ExtTag around it.
func (u UUID) MarshalMsgpack() ([]byte, error) {
	return u.Bytes(), nil
}

// UnmarshalMsgpack reads an extension payload, rejecting any length but
// Size.
func (u *UUID) UnmarshalMsgpack(b []byte) error {
	v, err := FromBytes(b)
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// Marshal encodes u as a tagged msgpack extension value.
func Marshal(u UUID) ([]byte, error) {
	return msgpack.Marshal(&u)
}

// Unmarshal decodes a tagged msgpack extension value, rejecting a wrong
// tag and a wrong payload length with distinct errors.
func Unmarshal(data []byte) (UUID, error) {
	tag, n, err := msgpack.NewDecoder(bytes.NewReader(data)).DecodeExtHeader()
	if err != nil {
		return Nil, errors.New(errors.PhaseDecode, errors.KindBadTag).
			Detail("not a msgpack extension value").
			Cause(err).
			Build()
	}
	if tag != ExtTag {
		return Nil, errors.BadTag("UUID", ExtTag, tag)
	}
	if n != Size {
		return Nil, errors.BadLength("UUID", Size, n)
	}
	var u UUID
	if err := msgpack.Unmarshal(data, &u); err != nil {
		return Nil, err
	}
	return u, nil
}
