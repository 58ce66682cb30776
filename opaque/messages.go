package opaque

import (
	"encoding/binary"
	"errors"

	ristretto "github.com/gtank/ristretto255"
)

// elementLen is the fixed wire width of a Ristretto255 element or scalar
// encoding (spec: "fixed-width Ristretto255 group element/scalar encodings").
const elementLen = 32

var errShortMessage = errors.New("opaque: message too short to decode")

// envelope is the authenticated ciphertext wrapping a client's static
// keypair during registration, verified and opened during login.
type envelope struct {
	tag        []byte // 32 bytes, keyed HMAC-SHA3-256 over ciphertext
	ciphertext []byte // AES-CTR(rw-derived key, pu || Pu || Ps)
}

func (e *envelope) serialize() []byte {
	out := make([]byte, 0, elementLen+4+len(e.ciphertext))
	out = append(out, e.tag...)
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(e.ciphertext)))
	out = append(out, length[:]...)
	out = append(out, e.ciphertext...)
	return out
}

func deserializeEnvelope(data []byte) (*envelope, int, error) {
	if len(data) < elementLen+4 {
		return nil, 0, errShortMessage
	}
	tag := append([]byte(nil), data[:elementLen]...)
	length := binary.BigEndian.Uint32(data[elementLen : elementLen+4])
	start := elementLen + 4
	if len(data) < start+int(length) {
		return nil, 0, errShortMessage
	}
	ciphertext := append([]byte(nil), data[start:start+int(length)]...)
	return &envelope{tag: tag, ciphertext: ciphertext}, start + int(length), nil
}

// RegistrationRequest is the client's first registration message: a blinded
// OPRF evaluation point and the client's fresh static public key.
type RegistrationRequest struct {
	Alpha *ristretto.Element
	Pu    *ristretto.Element
}

// Serialize encodes the message as a flat concatenation of fixed-width
// group element encodings, per SPEC_FULL.md's wire format.
func (m *RegistrationRequest) Serialize() []byte {
	return append(m.Alpha.Encode(nil), m.Pu.Encode(nil)...)
}

// DeserializeRegistrationRequest decodes a RegistrationRequest from bytes.
func DeserializeRegistrationRequest(data []byte) (*RegistrationRequest, error) {
	if len(data) != 2*elementLen {
		return nil, errShortMessage
	}
	alpha := new(ristretto.Element)
	if err := alpha.Decode(data[:elementLen]); err != nil {
		return nil, err
	}
	pu := new(ristretto.Element)
	if err := pu.Decode(data[elementLen:]); err != nil {
		return nil, err
	}
	return &RegistrationRequest{Alpha: alpha, Pu: pu}, nil
}

// RegistrationResponse is the server's reply to a RegistrationRequest: the
// blinded OPRF evaluation and the server's static public key.
type RegistrationResponse struct {
	Beta *ristretto.Element
	Ps   *ristretto.Element
}

// Serialize encodes the message per SPEC_FULL.md's wire format.
func (m *RegistrationResponse) Serialize() []byte {
	return append(m.Beta.Encode(nil), m.Ps.Encode(nil)...)
}

// DeserializeRegistrationResponse decodes a RegistrationResponse from bytes.
func DeserializeRegistrationResponse(data []byte) (*RegistrationResponse, error) {
	if len(data) != 2*elementLen {
		return nil, errShortMessage
	}
	beta := new(ristretto.Element)
	if err := beta.Decode(data[:elementLen]); err != nil {
		return nil, err
	}
	ps := new(ristretto.Element)
	if err := ps.Decode(data[elementLen:]); err != nil {
		return nil, err
	}
	return &RegistrationResponse{Beta: beta, Ps: ps}, nil
}

// RegistrationRecord is the client's final registration message: the
// client's static public key plus the sealed envelope the server stores.
type RegistrationRecord struct {
	Pu       *ristretto.Element
	Envelope *envelope
}

// Serialize encodes the message per SPEC_FULL.md's wire format.
func (m *RegistrationRecord) Serialize() []byte {
	return append(m.Pu.Encode(nil), m.Envelope.serialize()...)
}

// DeserializeRegistrationRecord decodes a RegistrationRecord from bytes.
func DeserializeRegistrationRecord(data []byte) (*RegistrationRecord, error) {
	if len(data) < elementLen {
		return nil, errShortMessage
	}
	pu := new(ristretto.Element)
	if err := pu.Decode(data[:elementLen]); err != nil {
		return nil, err
	}
	env, _, err := deserializeEnvelope(data[elementLen:])
	if err != nil {
		return nil, err
	}
	return &RegistrationRecord{Pu: pu, Envelope: env}, nil
}

// CredentialRequest is the client's first login message: a blinded OPRF
// evaluation point and the client's ephemeral AKE public key.
type CredentialRequest struct {
	Alpha *ristretto.Element
	Xu    *ristretto.Element
}

// Serialize encodes the message per SPEC_FULL.md's wire format.
func (m *CredentialRequest) Serialize() []byte {
	return append(m.Alpha.Encode(nil), m.Xu.Encode(nil)...)
}

// DeserializeCredentialRequest decodes a CredentialRequest from bytes.
func DeserializeCredentialRequest(data []byte) (*CredentialRequest, error) {
	if len(data) != 2*elementLen {
		return nil, errShortMessage
	}
	alpha := new(ristretto.Element)
	if err := alpha.Decode(data[:elementLen]); err != nil {
		return nil, err
	}
	xu := new(ristretto.Element)
	if err := xu.Decode(data[elementLen:]); err != nil {
		return nil, err
	}
	return &CredentialRequest{Alpha: alpha, Xu: xu}, nil
}

// CredentialResponse is the server's reply to a CredentialRequest: the
// blinded OPRF evaluation, the server's ephemeral AKE public key, the
// stored envelope, and a server authentication MAC over the AKE transcript.
type CredentialResponse struct {
	Beta     *ristretto.Element
	Xs       *ristretto.Element
	Envelope *envelope
	ServerMAC []byte
}

// Serialize encodes the message per SPEC_FULL.md's wire format.
func (m *CredentialResponse) Serialize() []byte {
	out := append(m.Beta.Encode(nil), m.Xs.Encode(nil)...)
	out = append(out, m.Envelope.serialize()...)
	var macLen [4]byte
	binary.BigEndian.PutUint32(macLen[:], uint32(len(m.ServerMAC)))
	out = append(out, macLen[:]...)
	out = append(out, m.ServerMAC...)
	return out
}

// DeserializeCredentialResponse decodes a CredentialResponse from bytes.
func DeserializeCredentialResponse(data []byte) (*CredentialResponse, error) {
	if len(data) < 2*elementLen {
		return nil, errShortMessage
	}
	beta := new(ristretto.Element)
	if err := beta.Decode(data[:elementLen]); err != nil {
		return nil, err
	}
	xs := new(ristretto.Element)
	if err := xs.Decode(data[elementLen : 2*elementLen]); err != nil {
		return nil, err
	}
	rest := data[2*elementLen:]
	env, consumed, err := deserializeEnvelope(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[consumed:]
	if len(rest) < 4 {
		return nil, errShortMessage
	}
	macLen := binary.BigEndian.Uint32(rest[:4])
	rest = rest[4:]
	if uint32(len(rest)) < macLen {
		return nil, errShortMessage
	}
	mac := append([]byte(nil), rest[:macLen]...)
	return &CredentialResponse{Beta: beta, Xs: xs, Envelope: env, ServerMAC: mac}, nil
}

// CredentialFinalization is the client's final login message: a client
// authentication MAC proving it derived the same AKE secret.
type CredentialFinalization struct {
	ClientMAC []byte
}

// Serialize encodes the message per SPEC_FULL.md's wire format.
func (m *CredentialFinalization) Serialize() []byte {
	return append([]byte(nil), m.ClientMAC...)
}

// DeserializeCredentialFinalization decodes a CredentialFinalization.
func DeserializeCredentialFinalization(data []byte) (*CredentialFinalization, error) {
	if len(data) == 0 {
		return nil, errShortMessage
	}
	return &CredentialFinalization{ClientMAC: append([]byte(nil), data...)}, nil
}
