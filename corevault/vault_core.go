package corevault

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/ferrisvault/core/aead"
	"github.com/ferrisvault/core/clipboard"
	"github.com/ferrisvault/core/opaque"
	"github.com/ferrisvault/core/passwordgen"
	"github.com/ferrisvault/core/vault"
	"github.com/ferrisvault/core/vaultapi"
)

// loggedState holds everything that only exists once a session is
// established: the decrypted vault and the cipher keyed from the export
// key. A VaultCore with a nil loggedState is Anonymous; a non-nil one is
// LoggedIn. This mirrors the original core's Anonymous/LoggedIn sum type
// without requiring Go's type system to enforce the transition linearly.
type loggedState struct {
	username string
	vault    *vault.PlaintextVault
	cipher   *aead.Cipher
}

// VaultCore orchestrates the OPAQUE handshake, the AEAD cipher, and the
// plaintext vault into the account lifecycle a CLI drives. It owns the
// only live decrypted vault and cipher for a session; nothing else is
// permitted to alias them.
type VaultCore struct {
	api vaultapi.Api
	log *logrus.Logger

	logged *loggedState
}

// New returns an Anonymous VaultCore talking to api. A nil logger defaults
// to discarding output.
func New(api vaultapi.Api, log *logrus.Logger) *VaultCore {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &VaultCore{api: api, log: log}
}

// IsLoggedIn reports whether the core currently holds a session.
func (c *VaultCore) IsLoggedIn() bool {
	return c.logged != nil
}

// register runs the OPAQUE registration handshake (spec.md §4.D), but
// grants no session: a subsequent login is always required.
func (c *VaultCore) register(username, password string) error {
	client := opaque.NewClient()
	pw := []byte(password)

	regReq := client.RegisterStart(pw)
	regResp, err := c.api.StartRegistration(username, regReq)
	if err != nil {
		return wrapVaultManager(err)
	}

	regRec, _, err := client.RegisterFinish(regResp, pw)
	if err != nil {
		return wrapVaultManager(err)
	}

	if err := c.api.FinishRegistration(username, regRec); err != nil {
		return wrapVaultManager(err)
	}
	return nil
}

// login runs the OPAQUE login handshake, returning the export key used to
// derive the session's AEAD cipher.
func (c *VaultCore) login(username, password string) ([]byte, error) {
	client := opaque.NewClient()
	pw := []byte(password)

	credReq := client.LoginStart(pw)
	credResp, err := c.api.StartLogin(username, credReq)
	if err != nil {
		return nil, wrapVaultManager(err)
	}

	fin, sessionKey, exportKey, err := client.LoginFinish(credResp, pw)
	if err != nil {
		return nil, wrapVaultManager(err)
	}

	if err := c.api.FinishLogin(username, fin, sessionKey); err != nil {
		return nil, wrapVaultManager(err)
	}
	return exportKey, nil
}

// fetchVault loads and decrypts the remote vault, treating both a missing
// vault (404) and an empty body as a fresh, empty PlaintextVault — a
// freshly created account has no stored vault yet (spec.md §4.G step 5).
func (c *VaultCore) fetchVault(cipher *aead.Cipher) (*vault.PlaintextVault, error) {
	blob, err := c.api.GetVault()
	if err == vaultapi.ErrNotFound {
		return vault.New(), nil
	}
	if err != nil {
		return nil, wrapVaultManager(err)
	}
	if len(blob) == 0 {
		return vault.New(), nil
	}

	v, err := cipher.Decrypt(blob)
	if err != nil {
		return nil, wrapCryptography(err)
	}
	return v, nil
}

// CreateAccount registers username/password with the server, then
// immediately logs in (registration alone grants no session), and
// transitions the core to LoggedIn.
func (c *VaultCore) CreateAccount(username, password string) error {
	if c.IsLoggedIn() {
		return ErrAlreadyLoggedIn
	}
	c.log.WithField("username", username).Info("creating account")

	if err := c.register(username, password); err != nil {
		return err
	}

	exportKey, err := c.login(username, password)
	if err != nil {
		return err
	}

	cipher, err := aead.FromKey(exportKey)
	if err != nil {
		return wrapCryptography(err)
	}

	v, err := c.fetchVault(cipher)
	if err != nil {
		return err
	}

	c.logged = &loggedState{username: username, vault: v, cipher: cipher}
	return nil
}

// Login authenticates username/password against the server and
// transitions the core to LoggedIn. If a session already exists it is
// reused and no handshake is performed.
func (c *VaultCore) Login(username, password string) error {
	if c.IsLoggedIn() {
		return nil
	}
	c.log.WithField("username", username).Info("logging in")

	exportKey, err := c.login(username, password)
	if err != nil {
		return err
	}

	cipher, err := aead.FromKey(exportKey)
	if err != nil {
		return wrapCryptography(err)
	}

	v, err := c.fetchVault(cipher)
	if err != nil {
		return err
	}

	c.logged = &loggedState{username: username, vault: v, cipher: cipher}
	return nil
}

// Entries returns the current vault's entries. LoggedIn only.
func (c *VaultCore) Entries() ([]vault.Entry, error) {
	if !c.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	return c.logged.vault.Entries(), nil
}

// AddEntry appends a new entry to the in-memory vault. No server call is
// made until Save. LoggedIn only.
func (c *VaultCore) AddEntry(title, username, password string) (vault.Entry, error) {
	if !c.IsLoggedIn() {
		return vault.Entry{}, ErrNotLoggedIn
	}
	return c.logged.vault.Add(title, username, password), nil
}

// UpdateEntry replaces any existing entry sharing entry.ID. No server call
// is made until Save. LoggedIn only.
func (c *VaultCore) UpdateEntry(entry vault.Entry) error {
	if !c.IsLoggedIn() {
		return ErrNotLoggedIn
	}
	c.logged.vault.Update(entry)
	return nil
}

// GeneratePassword synthesizes a password matching restrictions. It does
// not touch the vault or the session, but is exposed only through a
// LoggedIn core per spec.md §4.G.
func (c *VaultCore) GeneratePassword(restrictions passwordgen.Restriction) ([]byte, error) {
	if !c.IsLoggedIn() {
		return nil, ErrNotLoggedIn
	}
	pw, err := passwordgen.Generate(restrictions)
	if err != nil {
		return nil, wrapPasswordGenerator(err)
	}
	return pw, nil
}

// Save encrypts the in-memory vault and uploads it. The in-memory vault is
// unchanged on failure; on success it is the authoritative post-image.
// LoggedIn only.
func (c *VaultCore) Save() error {
	if !c.IsLoggedIn() {
		return ErrNotLoggedIn
	}

	blob, err := c.logged.cipher.Encrypt(c.logged.vault)
	if err != nil {
		return wrapCryptography(err)
	}

	if err := c.api.SaveVault(blob); err != nil {
		return wrapVaultManager(err)
	}
	c.log.WithField("username", c.logged.username).Debug("vault saved")
	return nil
}

// CopyToClipboard copies content to the system clipboard. This is a
// side-effect only operation, considered out of the cryptographic core
// but specified for completeness since callers invoke it through the same
// surface (spec.md §4.G).
func (c *VaultCore) CopyToClipboard(content string) error {
	if err := clipboard.Copy(content); err != nil {
		return wrapInternal(err)
	}
	return nil
}
