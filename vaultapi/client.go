// Package vaultapi wraps the OPAQUE handshake messages and the encrypted
// vault body into the server round-trips corevault.VaultCore needs:
// registration/login start-finish pairs, and authenticated vault
// GET/POST.
package vaultapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ferrisvault/core/opaque"
	"github.com/ferrisvault/core/session"
)

const (
	pathRegistrationStart  = "/opaque/registration/start"
	pathRegistrationFinish = "/opaque/registration/finish"
	pathLoginStart         = "/opaque/login/start"
	pathLoginFinish        = "/opaque/login/finish"
	pathVault              = "/vault"

	headerContentType = "Content-Type"
	octetStream       = "application/octet-stream"
	headerUsername    = "X-Username"
	headerTimestamp   = "X-Timestamp"
	headerSignature   = "X-Signature"
	headerAuthz       = "Authorization"
)

// Api is the narrow server surface corevault.VaultCore consumes. It exists
// as an interface so tests can substitute a mock server without standing
// up real HTTP.
type Api interface {
	StartRegistration(username string, req *opaque.RegistrationRequest) (*opaque.RegistrationResponse, error)
	FinishRegistration(username string, rec *opaque.RegistrationRecord) error
	StartLogin(username string, req *opaque.CredentialRequest) (*opaque.CredentialResponse, error)
	FinishLogin(username string, fin *opaque.CredentialFinalization, sessionKey []byte) error
	GetVault() ([]byte, error)
	SaveVault(blob []byte) error
	IsLoggedIn() bool
}

// HTTPApi is the net/http-backed Api implementation. One HTTPApi instance
// holds at most one live session; logging in again replaces it.
type HTTPApi struct {
	client    *http.Client
	serverURL string
	log       *logrus.Logger

	signer *session.Signer
}

// NewHTTPApi returns an HTTPApi talking to serverURL (e.g. "http://host:port").
// A nil logger defaults to discarding output, so embedding this module in
// another program doesn't spam stderr unless the caller asks for logs.
func NewHTTPApi(serverURL string, log *logrus.Logger) *HTTPApi {
	if log == nil {
		log = discardLogger()
	}
	return &HTTPApi{
		client:    &http.Client{},
		serverURL: serverURL,
		log:       log,
	}
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func (a *HTTPApi) opaqueRequest(path, username string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(http.MethodPost, a.serverURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set(headerContentType, octetStream)
	req.Header.Set(headerUsername, username)

	a.log.WithFields(logrus.Fields{"method": http.MethodPost, "path": path}).Debug("opaque request")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}
	return respBody, nil
}

// StartRegistration posts the client's first registration message.
func (a *HTTPApi) StartRegistration(username string, req *opaque.RegistrationRequest) (*opaque.RegistrationResponse, error) {
	respBody, err := a.opaqueRequest(pathRegistrationStart, username, req.Serialize())
	if err != nil {
		return nil, err
	}
	resp, err := opaque.DeserializeRegistrationResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	return resp, nil
}

// FinishRegistration posts the client's final registration message. No
// response body is used.
func (a *HTTPApi) FinishRegistration(username string, rec *opaque.RegistrationRecord) error {
	_, err := a.opaqueRequest(pathRegistrationFinish, username, rec.Serialize())
	return err
}

// StartLogin posts the client's first login message.
func (a *HTTPApi) StartLogin(username string, req *opaque.CredentialRequest) (*opaque.CredentialResponse, error) {
	respBody, err := a.opaqueRequest(pathLoginStart, username, req.Serialize())
	if err != nil {
		return nil, err
	}
	resp, err := opaque.DeserializeCredentialResponse(respBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	return resp, nil
}

// FinishLogin posts the client's final login message and, on success,
// establishes the signed-request session from sessionKey.
func (a *HTTPApi) FinishLogin(username string, fin *opaque.CredentialFinalization, sessionKey []byte) error {
	if _, err := a.opaqueRequest(pathLoginFinish, username, fin.Serialize()); err != nil {
		return err
	}

	signer, err := session.NewSigner(sessionKey)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	a.signer = signer
	return nil
}

// IsLoggedIn reports whether a session has been established and not
// cleared.
func (a *HTTPApi) IsLoggedIn() bool {
	return a.signer != nil
}

// ClearSession drops the current session, if any, as on logout.
func (a *HTTPApi) ClearSession() {
	a.signer = nil
}

func (a *HTTPApi) signedRequest(method, path string, body []byte) (*http.Response, error) {
	if a.signer == nil {
		return nil, ErrNotLoggedIn
	}

	uri := a.serverURL + path
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signature := a.signer.Sign(method, uri, timestamp)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, uri, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	req.Header.Set(headerContentType, octetStream)
	req.Header.Set(headerTimestamp, timestamp)
	req.Header.Set(headerSignature, signature)
	req.Header.Set(headerAuthz, "Bearer "+a.signer.Token())

	a.log.WithFields(logrus.Fields{"method": method, "path": path}).Debug("vault request")

	return a.client.Do(req)
}

// GetVault fetches the raw encrypted vault blob. It requires IsLoggedIn.
func (a *HTTPApi) GetVault() ([]byte, error) {
	resp, err := a.signedRequest(http.MethodGet, pathVault, nil)
	if err != nil {
		if err == ErrNotLoggedIn {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}

	blob, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	return blob, nil
}

// SaveVault uploads the encrypted vault blob. It requires IsLoggedIn.
func (a *HTTPApi) SaveVault(blob []byte) error {
	resp, err := a.signedRequest(http.MethodPost, pathVault, blob)
	if err != nil {
		if err == ErrNotLoggedIn {
			return err
		}
		return fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrExchangeFailed, resp.StatusCode)
	}
	return nil
}
