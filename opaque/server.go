package opaque

import (
	"sync"

	ristretto "github.com/gtank/ristretto255"
)

// pendingRegistration is the server-side state kept between
// RegisterInit and RegisterFinish for one username.
type pendingRegistration struct {
	ks *ristretto.Scalar
	ps *ristretto.Scalar
	Ps *ristretto.Element
}

// passwordFile is the durable record the server keeps for a registered
// user. Like a password hash, this must never be exposed outside the
// server: anyone holding it can run an offline dictionary attack, mitigated
// only by Argon2id's memory-hardness.
type passwordFile struct {
	ks  *ristretto.Scalar
	ps  *ristretto.Scalar
	Ps  *ristretto.Element
	Pu  *ristretto.Element
	env *envelope
}

// pendingLogin is the server-side state kept between LoginInit and the
// (unauthenticated, response-less) LoginFinish confirmation.
type pendingLogin struct {
	sessionKey []byte
	serverMAC  []byte
}

// Server is the server side of the OPAQUE exchange. It is not used by
// corevault.VaultCore (which only ever talks to an opaque.Client through
// vaultapi.Api), but it lets this package stand up a real OPAQUE peer for
// tests and for anyone implementing the server half of the protocol.
type Server struct {
	mu sync.Mutex

	pendingRegistrations map[string]*pendingRegistration
	passwordFiles        map[string]*passwordFile
	pendingLogins        map[string]*pendingLogin
}

// NewServer creates an empty OPAQUE server.
func NewServer() *Server {
	return &Server{
		pendingRegistrations: make(map[string]*pendingRegistration),
		passwordFiles:        make(map[string]*passwordFile),
		pendingLogins:        make(map[string]*pendingLogin),
	}
}

// RegisterInit handles POST /opaque/registration/start.
func (s *Server) RegisterInit(username string, req *RegistrationRequest) *RegistrationResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	ks := randomScalar()
	ps := randomScalar()
	Ps := new(ristretto.Element).ScalarBaseMult(ps)

	s.pendingRegistrations[username] = &pendingRegistration{ks: ks, ps: ps, Ps: Ps}

	beta := new(ristretto.Element).ScalarMult(ks, req.Alpha)

	return &RegistrationResponse{Beta: beta, Ps: Ps}
}

// RegisterFinish handles POST /opaque/registration/finish.
func (s *Server) RegisterFinish(username string, rec *RegistrationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.pendingRegistrations[username]
	if !ok {
		return ErrUnknownUser
	}
	delete(s.pendingRegistrations, username)

	if _, exists := s.passwordFiles[username]; exists {
		return ErrAlreadyRegistered
	}

	s.passwordFiles[username] = &passwordFile{
		ks:  pending.ks,
		ps:  pending.ps,
		Ps:  pending.Ps,
		Pu:  rec.Pu,
		env: rec.Envelope,
	}
	return nil
}

// LoginInit handles POST /opaque/login/start.
func (s *Server) LoginInit(username string, req *CredentialRequest) (*CredentialResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pf, ok := s.passwordFiles[username]
	if !ok {
		return nil, ErrUnknownUser
	}

	xs := randomScalar()
	Xs := new(ristretto.Element).ScalarBaseMult(xs)
	beta := new(ristretto.Element).ScalarMult(pf.ks, req.Alpha)

	k := tripleDHServer(pf.ps, xs, pf.Pu, req.Xu)
	sessionKey := expandAKE(k, "session-key", 64)
	serverMAC := expandAKE(k, "server-mac", 32)
	clientMAC := expandAKE(k, "client-mac", 32)

	s.pendingLogins[username] = &pendingLogin{sessionKey: sessionKey, serverMAC: clientMAC}

	return &CredentialResponse{Beta: beta, Xs: Xs, Envelope: pf.env, ServerMAC: serverMAC}, nil
}

// LoginFinish handles POST /opaque/login/finish, verifying the client's
// confirmation MAC. It returns the session key on success so a server
// implementation can start signing responses; the vault client itself
// already derived this value locally in Client.LoginFinish.
func (s *Server) LoginFinish(username string, fin *CredentialFinalization) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, ok := s.pendingLogins[username]
	if !ok {
		return nil, ErrUnknownUser
	}
	delete(s.pendingLogins, username)

	if !constantTimeEqual(pending.serverMAC, fin.ClientMAC) {
		return nil, ErrServerAuth
	}
	return pending.sessionKey, nil
}
