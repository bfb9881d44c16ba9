package uuid

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/wippyai/lua-runtime/errors"
)

var vectorNative = Native{
	TimeLow:               0x6ba7b810,
	TimeMid:               0x9dad,
	TimeHiAndVersion:      0x11d1,
	ClockSeqHiAndReserved: 0x80,
	ClockSeqLow:           0xb4,
	Node:                  [6]byte{0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8},
}

func TestFromWire_FixedVector(t *testing.T) {
	n, err := FromWire(vectorWire)
	if err != nil {
		t.Fatalf("FromWire: %v", err)
	}
	if n != vectorNative {
		t.Errorf("native = %+v, want %+v", n, vectorNative)
	}
}

func TestWire_FixedVector(t *testing.T) {
	got := vectorNative.Wire()
	if !bytes.Equal(got[:], vectorWire) {
		t.Errorf("wire = % x, want % x", got, vectorWire)
	}
}

func TestFromWire_WrongLength(t *testing.T) {
	_, err := FromWire(vectorWire[:15])
	var bridgeErr *errors.Error
	if !stderrors.As(err, &bridgeErr) || bridgeErr.Kind != errors.KindBadLength {
		t.Fatalf("err = %v, want bad length", err)
	}
	if !strings.Contains(err.Error(), "expected 16, got 15") {
		t.Errorf("err = %q, want both sizes named", err)
	}
}

func TestNative_UUIDRoundTrip(t *testing.T) {
	u := mustParse(t, vector)
	n := u.Native()
	if n != vectorNative {
		t.Fatalf("Native = %+v, want %+v", n, vectorNative)
	}
	if back := n.UUID(); back != u {
		t.Errorf("UUID = %s after round trip, want %s", back, u)
	}
}
