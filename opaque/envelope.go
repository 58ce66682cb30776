package opaque

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"

	"golang.org/x/crypto/sha3"

	ristretto "github.com/gtank/ristretto255"
)

// envelopeSecrets is the plaintext wrapped inside an envelope: the client's
// static keypair plus the server's static public key, so a logged-in client
// can always recompute the TripleDH shared secret without asking the server.
type envelopeSecrets struct {
	pu *ristretto.Scalar
	Pu *ristretto.Element
	Ps *ristretto.Element
}

// encode serializes the secrets as a flat concatenation of fixed-width
// Ristretto255 encodings, mirroring the wire messages in messages.go
// rather than a self-describing format — the envelope plaintext never
// needs to be read by anything but this package.
func (c *envelopeSecrets) encode() []byte {
	out := make([]byte, 0, 3*elementLen)
	out = append(out, c.pu.Encode(nil)...)
	out = append(out, c.Pu.Encode(nil)...)
	out = append(out, c.Ps.Encode(nil)...)
	return out
}

func decodeEnvelopeSecrets(data []byte) (*envelopeSecrets, error) {
	if len(data) != 3*elementLen {
		return nil, errShortMessage
	}
	pu := new(ristretto.Scalar)
	if err := pu.Decode(data[:elementLen]); err != nil {
		return nil, err
	}
	Pu := new(ristretto.Element)
	if err := Pu.Decode(data[elementLen : 2*elementLen]); err != nil {
		return nil, err
	}
	Ps := new(ristretto.Element)
	if err := Ps.Decode(data[2*elementLen:]); err != nil {
		return nil, err
	}
	return &envelopeSecrets{pu: pu, Pu: Pu, Ps: Ps}, nil
}

// sealEnvelope wraps secrets under a key derived from the OPRF output rw,
// using AES-CTR for confidentiality and a separate HMAC-SHA3-256 key for
// integrity (a key-committing construction, since OPAQUE envelopes need a
// stronger guarantee than a generic AEAD mode provides).
func sealEnvelope(rw []byte, secrets *envelopeSecrets) (*envelope, error) {
	authKey, cipherKey := deriveEnvelopeKeys(rw)

	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, err
	}

	plaintext := secrets.encode()

	iv := make([]byte, block.BlockSize())
	stream := cipher.NewCTR(block, iv)
	ciphertext := make([]byte, len(plaintext))
	stream.XORKeyStream(ciphertext, plaintext)

	mac := hmac.New(sha3.New256, authKey)
	mac.Write(ciphertext)
	tag := mac.Sum(nil)

	return &envelope{tag: tag, ciphertext: ciphertext}, nil
}

// openEnvelope verifies and decrypts an envelope sealed by sealEnvelope,
// using the same rw-derived keys.
func openEnvelope(rw []byte, env *envelope) (*envelopeSecrets, error) {
	authKey, cipherKey := deriveEnvelopeKeys(rw)

	mac := hmac.New(sha3.New256, authKey)
	mac.Write(env.ciphertext)
	expected := mac.Sum(nil)
	if !constantTimeEqual(expected, env.tag) {
		return nil, ErrEnvelopeAuth
	}

	block, err := aes.NewCipher(cipherKey)
	if err != nil {
		return nil, err
	}
	iv := make([]byte, block.BlockSize())
	stream := cipher.NewCTR(block, iv)
	plaintext := make([]byte, len(env.ciphertext))
	stream.XORKeyStream(plaintext, env.ciphertext)

	return decodeEnvelopeSecrets(plaintext)
}
