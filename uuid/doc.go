// Package uuid adapts 128-bit identifiers to the interpreter bridge and
// the msgpack wire format.
//
// Identifiers hold their bytes in big-endian wire order, built on
// gofrs/uuid for generation and parsing:
//
//	u := uuid.New()                 // random v4
//	u, err := uuid.Parse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
//
// # Wire Format
//
// On the wire an identifier is a msgpack extension value: tag ExtTag with
// exactly 16 payload bytes. Marshal and Unmarshal handle the standalone
// form; the package also registers the extension with the codec, so UUID
// fields inside larger msgpack structures encode transparently. Decoding
// rejects a foreign tag and a wrong payload size with distinct errors.
//
// # Native Layout
//
// Native is the RFC 4122 field split the embedded runtime keeps in memory,
// with TimeLow, TimeMid, and TimeHiAndVersion as machine integers.
// Wire and FromWire convert between the two forms, byte-swapping exactly
// those three fields on little-endian hosts.
//
// # Scripts
//
// Install defines the uuid library and the userdata type on a runtime:
//
//	if err := uuid.Install(rt); err != nil {
//	    log.Fatal(err)
//	}
//	ok, err := runtime.Execute[bool](rt, `
//	    local id = uuid.fromstr("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
//	    return uuid.is_uuid(id) and not id:isnil()
//	`)
//
// After Install, UUID values pass through Set, Get, and callback
// arguments like any bridge type, crossing as typed userdata.
package uuid
