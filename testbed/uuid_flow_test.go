package testbed

import (
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/lua-runtime/runtime"
	"github.com/wippyai/lua-runtime/uuid"
)

// An identifier minted by a script keeps its identity through the host,
// the msgpack wire form, and back into another script.
func TestScenario_UUIDAcrossBoundaries(t *testing.T) {
	rt := runtime.New()
	defer rt.Close()
	if err := uuid.Install(rt); err != nil {
		t.Fatalf("install uuid: %v", err)
	}

	id, err := runtime.Execute[uuid.UUID](rt, `return uuid.new()`)
	if err != nil {
		t.Fatalf("uuid.new: %v", err)
	}
	if id.IsNil() {
		t.Fatal("script produced the nil uuid")
	}

	blob, err := uuid.Marshal(id)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := uuid.Unmarshal(blob)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != id {
		t.Errorf("wire round trip changed the value: %s != %s", back, id)
	}

	rt.Set("id", back)
	rt.Set("want", id.String())
	same, err := runtime.Execute[bool](rt, `return uuid.str(id) == want`)
	if err != nil {
		t.Fatalf("compare in script: %v", err)
	}
	if !same {
		t.Error("script does not see the round-tripped identifier")
	}
}

// A record with an identifier field moves through msgpack the way a
// storage layer would carry it, the ext codec engaging transparently.
func TestScenario_UUIDInRecord(t *testing.T) {
	rt := runtime.New()
	defer rt.Close()
	if err := uuid.Install(rt); err != nil {
		t.Fatalf("install uuid: %v", err)
	}

	type session struct {
		ID   uuid.UUID `msgpack:"id"`
		User string    `msgpack:"user"`
	}

	in := session{ID: uuid.New(), User: "ada"}
	blob, err := msgpack.Marshal(&in)
	if err != nil {
		t.Fatalf("marshal record: %v", err)
	}
	var out session
	if err := msgpack.Unmarshal(blob, &out); err != nil {
		t.Fatalf("unmarshal record: %v", err)
	}
	if out.ID != in.ID || out.User != in.User {
		t.Errorf("record round trip: %+v != %+v", out, in)
	}

	// The script sees the same identifier the record carries.
	rt.Set("id", out.ID)
	ok, err := runtime.Execute[bool](rt, `return uuid.is_uuid(id) and not id:isnil()`)
	if err != nil {
		t.Fatalf("inspect in script: %v", err)
	}
	if !ok {
		t.Error("record identifier did not cross into the script")
	}

	// The native in-memory form agrees after its byte swaps.
	if got := out.ID.Native().UUID(); got != out.ID {
		t.Errorf("native round trip changed the value: %s != %s", got, out.ID)
	}
}
