package opaque

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha512"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"

	ristretto "github.com/gtank/ristretto255"
)

const (
	argonTime    = 3
	argonMemory  = 1e5
	argonThreads = 4
	argonKeyLen  = 32
)

// randomScalar returns a random ristretto scalar (<-R Zq) drawn from the OS CSPRNG.
func randomScalar() *ristretto.Scalar {
	b := make([]byte, 64)
	if _, err := rand.Read(b); err != nil {
		panic("opaque: could not get entropy")
	}
	return new(ristretto.Scalar).FromUniformBytes(b)
}

// oprfUnblind computes the OPRF output H(x, (H'(x))^k) given the blinded
// server response beta = (H'(x))^(r*k), the blinding scalar r, and the
// password hash x. The result is stretched with Argon2id so that a
// compromised password file costs an attacker a memory-hard KDF per guess,
// not a single hash evaluation.
func oprfUnblind(beta *ristretto.Element, r *ristretto.Scalar, x [64]byte) []byte {
	rInv := new(ristretto.Scalar).Invert(r)
	unblinded := new(ristretto.Element).ScalarMult(rInv, beta) // beta^(1/r) = H'(x)^k
	hash := sha3.Sum512(append(x[:], unblinded.Encode(nil)...))
	return argon2.IDKey(hash[:], nil, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// deriveEnvelopeKeys derives a separate authentication and cipher key from
// the OPRF output rw, used only to wrap/unwrap the registration envelope
// (the client's static keypair). Kept independent from the session key and
// export key derived in client.go/server.go.
func deriveEnvelopeKeys(rw []byte) (authKey []byte, cipherKey []byte) {
	kdf := hkdf.New(sha3.New512, rw, nil, nil)
	cipherKey = make([]byte, 32)
	authKey = make([]byte, 32)
	if _, err := io.ReadFull(kdf, cipherKey); err != nil {
		panic("opaque: could not derive envelope cipher key")
	}
	if _, err := io.ReadFull(kdf, authKey); err != nil {
		panic("opaque: could not derive envelope auth key")
	}
	return
}

// tripleDHServer computes the TripleDH(Ristretto255, SHA-512) shared secret
// for the server side of the AKE: K = H(xs*Pu || ps*Xu || xs*Xu).
func tripleDHServer(ps, xs *ristretto.Scalar, Pu, Xu *ristretto.Element) [64]byte {
	xsPu := new(ristretto.Element).ScalarMult(xs, Pu)
	psXu := new(ristretto.Element).ScalarMult(ps, Xu)
	xsXu := new(ristretto.Element).ScalarMult(xs, Xu)
	shared := append(xsPu.Encode(nil), psXu.Encode(nil)...)
	shared = append(shared, xsXu.Encode(nil)...)
	return sha3.Sum512(shared)
}

// tripleDHClient computes the TripleDH(Ristretto255, SHA-512) shared secret
// for the client side of the AKE: K = H(pu*Xs || xu*Ps || xu*Xs).
func tripleDHClient(pu, xu *ristretto.Scalar, Ps, Xs *ristretto.Element) [64]byte {
	puXs := new(ristretto.Element).ScalarMult(pu, Xs)
	xuPs := new(ristretto.Element).ScalarMult(xu, Ps)
	xuXs := new(ristretto.Element).ScalarMult(xu, Xs)
	shared := append(puXs.Encode(nil), xuPs.Encode(nil)...)
	shared = append(shared, xuXs.Encode(nil)...)
	return sha3.Sum512(shared)
}

// expandAKE expands the TripleDH shared secret K into a labelled sub-key of
// the requested length, used to split K into session key / server MAC /
// client MAC material.
func expandAKE(k [64]byte, label string, length int) []byte {
	kdf := hkdf.New(sha512.New, k[:], nil, []byte(label))
	out := make([]byte, length)
	if _, err := io.ReadFull(kdf, out); err != nil {
		panic("opaque: could not expand AKE secret")
	}
	return out
}

// exportKeyFromRW derives the OPAQUE export key from the OPRF output rw.
// Unlike the session key, this is stable across every successful
// registration/login for the same password, since the vault cipher keyed by
// it must decrypt what a previous login encrypted.
func exportKeyFromRW(rw []byte) []byte {
	kdf := hkdf.New(sha512.New, rw, nil, []byte("opaque-export-key"))
	out := make([]byte, 64)
	if _, err := io.ReadFull(kdf, out); err != nil {
		panic("opaque: could not derive export key")
	}
	return out
}

func constantTimeEqual(a, b []byte) bool {
	return hmac.Equal(a, b)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
