package vault

import "bytes"

// PlaintextVault is the decrypted, in-memory form of a vault: an ordered
// set of entries keyed by a monotonically assigned id. It is the only
// representation corevault.VaultCore mutates directly; aead.Cipher only
// ever sees its encoded bytes.
type PlaintextVault struct {
	entries []Entry
}

// New returns an empty vault, as produced by a fresh account with nothing
// saved yet.
func New() *PlaintextVault {
	return &PlaintextVault{}
}

// Entries returns a read-only view of the vault's entries in their current
// order. Callers must not mutate the returned slice.
func (v *PlaintextVault) Entries() []Entry {
	return v.entries
}

// Add appends a new entry, assigning it id = max(existing ids)+1, or 0 if
// the vault is empty.
func (v *PlaintextVault) Add(title, username, password string) Entry {
	var nextID uint64
	if len(v.entries) > 0 {
		max := v.entries[0].ID
		for _, e := range v.entries[1:] {
			if e.ID > max {
				max = e.ID
			}
		}
		nextID = max + 1
	}
	entry := Entry{ID: nextID, Title: title, Username: username, Password: password}
	v.entries = append(v.entries, entry)
	return entry
}

// Update removes any existing entry sharing entry.ID, then appends entry.
// This moves the updated record to the tail; callers must rely on id
// identity, not position, to find an entry afterward. An id with no prior
// match is simply appended, so Update also serves as an upsert.
func (v *PlaintextVault) Update(entry Entry) {
	for i, e := range v.entries {
		if e.ID == entry.ID {
			v.entries = append(v.entries[:i], v.entries[i+1:]...)
			break
		}
	}
	v.entries = append(v.entries, entry)
}

// Encode serializes the vault to its canonical binary form: an entry count
// followed by each entry's fields, all length-prefixed varints and
// UTF-8 byte strings.
func (v *PlaintextVault) Encode() []byte {
	var buf bytes.Buffer
	putUvarint(&buf, uint64(len(v.entries)))
	for _, e := range v.entries {
		encodeEntry(&buf, e)
	}
	return buf.Bytes()
}

// Decode parses bytes produced by Encode back into a PlaintextVault. It
// fails with ErrBinaryDecoding on truncated or malformed input.
func Decode(data []byte) (*PlaintextVault, error) {
	r := bytes.NewReader(data)
	count, err := readUvarint(r)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, count)
	for i := uint64(0); i < count; i++ {
		entry, err := decodeEntry(r)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if r.Len() != 0 {
		return nil, ErrBinaryDecoding
	}
	return &PlaintextVault{entries: entries}, nil
}
