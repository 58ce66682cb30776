package opaque

import "errors"

var (
	// ErrEnvelopeAuth is returned when an envelope's integrity tag does not
	// match, meaning the password used to open it was wrong or the server's
	// stored record was tampered with.
	ErrEnvelopeAuth = errors.New("opaque: envelope authentication failed")

	// ErrServerAuth is returned when the server's AKE confirmation MAC does
	// not match what the client independently derived. Server.LoginFinish
	// also returns it when the client's confirmation MAC does not match.
	ErrServerAuth = errors.New("opaque: server authentication failed")

	// ErrUnknownUser is returned by the server when a login or registration
	// finish references a username with no matching pending state, or when
	// a login start names a username with no stored password file.
	ErrUnknownUser = errors.New("opaque: no pending exchange for this user")

	// ErrAlreadyRegistered is returned by the server when a registration
	// finish targets a username that already has a stored password file.
	ErrAlreadyRegistered = errors.New("opaque: user already registered")
)
