package aead

import "errors"

var (
	// ErrMissingKey is returned by Encrypt/Decrypt on a Cipher that was
	// never initialized through FromKey.
	ErrMissingKey = errors.New("aead: cipher has no key")

	// ErrDerivation is returned when key derivation itself fails, which
	// only happens if more output is requested than HKDF-SHA256 can produce.
	ErrDerivation = errors.New("aead: key derivation failed")

	// ErrDecryption is returned on any authenticated-decryption failure:
	// a short blob, a bad Poly1305 tag, or a tampered nonce.
	ErrDecryption = errors.New("aead: decryption failed")
)
