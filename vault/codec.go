package vault

import (
	"bytes"
	"encoding/binary"
	"errors"
)

// ErrBinaryDecoding is returned when the codec encounters truncated or
// otherwise malformed input. The caller (aead.Cipher.Decrypt) reports this
// upward as a corrupted-vault condition.
var ErrBinaryDecoding = errors.New("vault: malformed binary encoding")

// putUvarint appends x to buf using the same unsigned LEB128 scheme Go's own
// encoding/binary already uses for varints, which keeps small ids and short
// strings cheap while still handling arbitrary lengths.
func putUvarint(buf *bytes.Buffer, x uint64) {
	var tmp [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(tmp[:], x)
	buf.Write(tmp[:n])
}

func readUvarint(r *bytes.Reader) (uint64, error) {
	x, err := binary.ReadUvarint(r)
	if err != nil {
		return 0, ErrBinaryDecoding
	}
	return x, nil
}

func putString(buf *bytes.Buffer, s string) {
	putUvarint(buf, uint64(len(s)))
	buf.WriteString(s)
}

func readString(r *bytes.Reader) (string, error) {
	length, err := readUvarint(r)
	if err != nil {
		return "", err
	}
	b := make([]byte, length)
	if _, err := readFull(r, b); err != nil {
		return "", ErrBinaryDecoding
	}
	return string(b), nil
}

func readFull(r *bytes.Reader, b []byte) (int, error) {
	n := 0
	for n < len(b) {
		m, err := r.Read(b[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func encodeEntry(buf *bytes.Buffer, e Entry) {
	putUvarint(buf, e.ID)
	putString(buf, e.Title)
	putString(buf, e.Username)
	putString(buf, e.Password)
}

func decodeEntry(r *bytes.Reader) (Entry, error) {
	id, err := readUvarint(r)
	if err != nil {
		return Entry{}, err
	}
	title, err := readString(r)
	if err != nil {
		return Entry{}, err
	}
	username, err := readString(r)
	if err != nil {
		return Entry{}, err
	}
	password, err := readString(r)
	if err != nil {
		return Entry{}, err
	}
	return Entry{ID: id, Title: title, Username: username, Password: password}, nil
}
