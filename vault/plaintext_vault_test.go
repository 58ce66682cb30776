package vault

import (
	"reflect"
	"testing"
)

func TestAddAssignsMonotonicIDs(t *testing.T) {
	v := New()
	first := v.Add("github", "alice", "pw1")
	second := v.Add("gitlab", "alice", "pw2")
	third := v.Add("bitbucket", "alice", "pw3")

	if first.ID != 0 || second.ID != 1 || third.ID != 2 {
		t.Fatalf("expected ids 0,1,2; got %d,%d,%d", first.ID, second.ID, third.ID)
	}
}

func TestUpdateExistingMovesToTail(t *testing.T) {
	v := New()
	v.Add("a", "u", "p1")
	v.Add("b", "u", "p2")

	v.Update(Entry{ID: 0, Title: "a", Username: "u", Password: "p1-changed"})

	entries := v.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[len(entries)-1].ID != 0 || entries[len(entries)-1].Password != "p1-changed" {
		t.Fatalf("expected updated entry at tail, got %+v", entries[len(entries)-1])
	}
}

func TestUpdateUnknownIDUpserts(t *testing.T) {
	v := New()
	v.Add("a", "u", "p1")

	v.Update(Entry{ID: 99, Title: "new", Username: "u", Password: "p"})

	if len(v.Entries()) != 2 {
		t.Fatalf("expected upsert to add a new entry, got %d entries", len(v.Entries()))
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	v := New()
	v.Add("github", "alice", "s3cret")
	v.Add("", "bob", "")
	v.Add("unicode ☃", "ünïcödé", "pw")

	encoded := v.Encode()
	decoded, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(v.Entries(), decoded.Entries()) {
		t.Fatalf("round trip mismatch: %+v != %+v", v.Entries(), decoded.Entries())
	}

	reencoded := decoded.Encode()
	if string(reencoded) != string(encoded) {
		t.Fatal("re-encoding a decoded vault should be byte-identical")
	}
}

func TestDecodeEmptyVault(t *testing.T) {
	v := New()
	decoded, err := Decode(v.Encode())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(decoded.Entries()) != 0 {
		t.Fatalf("expected empty vault, got %d entries", len(decoded.Entries()))
	}
}

func TestDecodeTruncatedFails(t *testing.T) {
	v := New()
	v.Add("a", "b", "c")
	encoded := v.Encode()

	if _, err := Decode(encoded[:len(encoded)-1]); err != ErrBinaryDecoding {
		t.Fatalf("expected ErrBinaryDecoding, got %v", err)
	}
}
