// Package aead encrypts and decrypts the serialized vault body with
// XChaCha20-Poly1305, keyed from the OPAQUE export key.
package aead

import (
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"

	"github.com/ferrisvault/core/vault"
)

const (
	// NonceLen is the width of the random XChaCha20-Poly1305 nonce
	// prefixed to every ciphertext.
	NonceLen = 24
	// KeyLen is the cipher's key width; any input key not already this
	// length is stretched to it via HKDF.
	KeyLen = 32
)

var hkdfInfo = []byte("xchacha20-poly1305-key")

// Cipher wraps a single XChaCha20-Poly1305 key, valid for the lifetime of
// one logged-in session.
type Cipher struct {
	key []byte
}

// FromKey derives a Cipher from arbitrary input key material. A 32-byte key
// is used directly; anything else is stretched to 32 bytes with
// HKDF-SHA256 (empty salt, info "xchacha20-poly1305-key").
func FromKey(k []byte) (*Cipher, error) {
	if len(k) == KeyLen {
		key := make([]byte, KeyLen)
		copy(key, k)
		return &Cipher{key: key}, nil
	}

	kdf := hkdf.New(sha256.New, k, nil, hkdfInfo)
	key := make([]byte, KeyLen)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, ErrDerivation
	}
	return &Cipher{key: key}, nil
}

// Encrypt encodes v to its canonical binary form and seals it under a fresh
// random nonce, returning nonce || ciphertext (ciphertext includes the
// trailing 16-byte Poly1305 tag).
func (c *Cipher) Encrypt(v *vault.PlaintextVault) ([]byte, error) {
	if c == nil || c.key == nil {
		return nil, ErrMissingKey
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, NonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	plaintext := v.Encode()
	ciphertext := aead.Seal(nil, nonce, plaintext, nil)

	out := make([]byte, 0, NonceLen+len(ciphertext))
	out = append(out, nonce...)
	out = append(out, ciphertext...)
	return out, nil
}

// Decrypt verifies and opens a blob produced by Encrypt, then decodes the
// recovered plaintext back into a PlaintextVault.
func (c *Cipher) Decrypt(blob []byte) (*vault.PlaintextVault, error) {
	if c == nil || c.key == nil {
		return nil, ErrMissingKey
	}

	aead, err := chacha20poly1305.NewX(c.key)
	if err != nil {
		return nil, err
	}

	if len(blob) < NonceLen+aead.Overhead() {
		return nil, ErrDecryption
	}

	nonce, ciphertext := blob[:NonceLen], blob[NonceLen:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryption
	}

	decoded, err := vault.Decode(plaintext)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
