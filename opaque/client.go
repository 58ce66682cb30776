// Package opaque implements the OPAQUE asymmetric password-authenticated
// key exchange (aPAKE), using the Ristretto255 group for the OPRF and the
// AKE, TripleDH for the key exchange, SHA-512 as the exchange hash, and
// Argon2id as the OPRF's key-stretching function.
//
// Every group operation (scalar multiplication, inversion) goes through
// gtank/ristretto255, which is constant-time by construction. Registration
// and login are each split into two message-passing phases (start/finish)
// so a caller can drive them over separate HTTP round trips.
package opaque

import (
	"golang.org/x/crypto/sha3"

	ristretto "github.com/gtank/ristretto255"
)

// Client is a stateful OPAQUE client. A Client instance is single-use for
// one registration or one login; start a new Client for each exchange.
type Client struct {
	// registration state
	regR  *ristretto.Scalar
	regPu *ristretto.Scalar

	// login state
	loginR  *ristretto.Scalar
	loginXu *ristretto.Scalar
	pwHash  [64]byte
}

// NewClient creates a fresh OPAQUE client.
func NewClient() *Client {
	return &Client{}
}

// RegisterStart begins registration for the given password, returning the
// first message to send to POST /opaque/registration/start.
func (c *Client) RegisterStart(password []byte) *RegistrationRequest {
	r := randomScalar()
	pu := randomScalar()

	h := sha3.Sum512(password)
	alpha := new(ristretto.Element).FromUniformBytes(h[:])
	alpha.ScalarMult(r, alpha)

	c.regR = r
	c.regPu = pu

	Pu := new(ristretto.Element).ScalarBaseMult(pu)

	return &RegistrationRequest{Alpha: alpha, Pu: Pu}
}

// RegisterFinish consumes the server's RegistrationResponse and the
// original password, returning the RegistrationRecord to POST to
// /opaque/registration/finish and the export key (spec.md §4.D step 4/6).
func (c *Client) RegisterFinish(resp *RegistrationResponse, password []byte) (*RegistrationRecord, []byte, error) {
	h := sha3.Sum512(password)
	rw := oprfUnblind(resp.Beta, c.regR, h)

	Pu := new(ristretto.Element).ScalarBaseMult(c.regPu)

	env, err := sealEnvelope(rw, &envelopeSecrets{pu: c.regPu, Pu: Pu, Ps: resp.Ps})
	if err != nil {
		return nil, nil, err
	}

	exportKey := exportKeyFromRW(rw)
	zero(rw)

	return &RegistrationRecord{Pu: Pu, Envelope: env}, exportKey, nil
}

// LoginStart begins login for the given password, returning the first
// message to send to POST /opaque/login/start.
func (c *Client) LoginStart(password []byte) *CredentialRequest {
	r := randomScalar()
	xu := randomScalar()

	h := sha3.Sum512(password)
	alpha := new(ristretto.Element).FromUniformBytes(h[:])
	alpha.ScalarMult(r, alpha)

	c.loginR = r
	c.loginXu = xu
	c.pwHash = h

	Xu := new(ristretto.Element).ScalarBaseMult(xu)

	return &CredentialRequest{Alpha: alpha, Xu: Xu}
}

// LoginFinish consumes the server's CredentialResponse, verifying server
// authentication and deriving the session key and export key. It returns
// the CredentialFinalization to POST to /opaque/login/finish along with the
// session key and export key (spec.md §4.D step 4, §3 SessionKey/ExportKey).
func (c *Client) LoginFinish(resp *CredentialResponse, password []byte) (*CredentialFinalization, sessionKey []byte, exportKey []byte, err error) {
	rw := oprfUnblind(resp.Beta, c.loginR, c.pwHash)

	secrets, err := openEnvelope(rw, resp.Envelope)
	if err != nil {
		zero(rw)
		return nil, nil, nil, err
	}

	k := tripleDHClient(secrets.pu, c.loginXu, secrets.Ps, resp.Xs)

	serverMAC := expandAKE(k, "server-mac", 32)
	if !constantTimeEqual(serverMAC, resp.ServerMAC) {
		zero(rw)
		return nil, nil, nil, ErrServerAuth
	}

	clientMAC := expandAKE(k, "client-mac", 32)
	sessionKey = expandAKE(k, "session-key", 64)
	exportKey = exportKeyFromRW(rw)
	zero(rw)

	return &CredentialFinalization{ClientMAC: clientMAC}, sessionKey, exportKey, nil
}
