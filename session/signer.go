// Package session turns a finished OPAQUE login into a signed request
// authority: a bearer token derived from the session key, and an
// HMAC-SHA512 signature over every outgoing request.
package session

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrDerivation is returned when the token's HKDF expansion fails, which
// only happens if more output is requested than HKDF-SHA512 can produce.
var ErrDerivation = errors.New("session: token derivation failed")

var tokenInfo = []byte("opaque-session-token")

// Signer holds the session key produced by a successful OPAQUE login and
// signs outgoing vault requests with it. Its lifetime is the login session:
// it is discarded on logout.
type Signer struct {
	sessionKey []byte
	token      string
}

// NewSigner derives a Signer from the session key minted by opaque.Client's
// LoginFinish. The bearer token is a 64-byte HKDF-SHA512 expansion of the
// session key (info "opaque-session-token"), hex-encoded.
func NewSigner(sessionKey []byte) (*Signer, error) {
	kdf := hkdf.Expand(sha512.New, sessionKey, tokenInfo)
	token := make([]byte, 64)
	if _, err := io.ReadFull(kdf, token); err != nil {
		return nil, ErrDerivation
	}

	key := make([]byte, len(sessionKey))
	copy(key, sessionKey)

	return &Signer{sessionKey: key, token: hex.EncodeToString(token)}, nil
}

// Token returns the hex-encoded bearer token sent as the Authorization
// header's credential.
func (s *Signer) Token() string {
	return s.token
}

// Sign computes the HMAC-SHA512 signature over "method|uri|timestamp",
// returning the hex-encoded signature. timestamp must be the decimal
// seconds-since-epoch string sent in the X-Timestamp header, so signer and
// verifier sign byte-identical input.
func (s *Signer) Sign(method, uri, timestamp string) string {
	mac := hmac.New(sha512.New, s.sessionKey)
	mac.Write([]byte(method))
	mac.Write([]byte("|"))
	mac.Write([]byte(uri))
	mac.Write([]byte("|"))
	mac.Write([]byte(timestamp))
	return hex.EncodeToString(mac.Sum(nil))
}
