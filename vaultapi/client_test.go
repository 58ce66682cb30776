package vaultapi

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/ferrisvault/core/opaque"
)

// mockServer is a minimal HTTP front end over opaque.Server plus an
// in-memory vault blob, just enough to exercise HTTPApi's wire behavior
// without a real backend.
type mockServer struct {
	mu    sync.Mutex
	opq   *opaque.Server
	vault []byte
	have  bool
}

func newMockServer() *httptest.Server {
	m := &mockServer{opq: opaque.NewServer()}
	mux := http.NewServeMux()

	mux.HandleFunc(pathRegistrationStart, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req, err := opaque.DeserializeRegistrationRequest(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp := m.opq.RegisterInit(r.Header.Get(headerUsername), req)
		w.Write(resp.Serialize())
	})

	mux.HandleFunc(pathRegistrationFinish, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec, err := opaque.DeserializeRegistrationRecord(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := m.opq.RegisterFinish(r.Header.Get(headerUsername), rec); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
	})

	mux.HandleFunc(pathLoginStart, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		req, err := opaque.DeserializeCredentialRequest(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := m.opq.LoginInit(r.Header.Get(headerUsername), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		w.Write(resp.Serialize())
	})

	mux.HandleFunc(pathLoginFinish, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fin, err := opaque.DeserializeCredentialFinalization(body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, err := m.opq.LoginFinish(r.Header.Get(headerUsername), fin); err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	})

	mux.HandleFunc(pathVault, func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		defer m.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			if !m.have {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Write(m.vault)
		case http.MethodPost:
			body, _ := io.ReadAll(r.Body)
			m.vault = body
			m.have = true
		}
	})

	return httptest.NewServer(mux)
}

func TestRegistrationAndLoginRoundTrip(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	api := NewHTTPApi(srv.URL, nil)
	client := opaque.NewClient()
	password := []byte("pw")

	regReq := client.RegisterStart(password)
	regResp, err := api.StartRegistration("alice", regReq)
	if err != nil {
		t.Fatalf("StartRegistration: %v", err)
	}
	regRec, _, err := client.RegisterFinish(regResp, password)
	if err != nil {
		t.Fatalf("RegisterFinish: %v", err)
	}
	if err := api.FinishRegistration("alice", regRec); err != nil {
		t.Fatalf("FinishRegistration: %v", err)
	}

	if api.IsLoggedIn() {
		t.Fatal("should not be logged in after registration alone")
	}

	loginClient := opaque.NewClient()
	credReq := loginClient.LoginStart(password)
	credResp, err := api.StartLogin("alice", credReq)
	if err != nil {
		t.Fatalf("StartLogin: %v", err)
	}
	fin, sessionKey, _, err := loginClient.LoginFinish(credResp, password)
	if err != nil {
		t.Fatalf("LoginFinish: %v", err)
	}
	if err := api.FinishLogin("alice", fin, sessionKey); err != nil {
		t.Fatalf("FinishLogin: %v", err)
	}
	if !api.IsLoggedIn() {
		t.Fatal("expected IsLoggedIn after FinishLogin")
	}

	if _, err := api.GetVault(); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound for a fresh account, got %v", err)
	}

	blob := []byte("encrypted vault bytes")
	if err := api.SaveVault(blob); err != nil {
		t.Fatalf("SaveVault: %v", err)
	}
	got, err := api.GetVault()
	if err != nil {
		t.Fatalf("GetVault: %v", err)
	}
	if string(got) != string(blob) {
		t.Fatalf("got %q, want %q", got, blob)
	}
}

func TestGetVaultWithoutSessionFails(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	api := NewHTTPApi(srv.URL, nil)
	if _, err := api.GetVault(); err != ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestSaveVaultWithoutSessionFails(t *testing.T) {
	srv := newMockServer()
	defer srv.Close()

	api := NewHTTPApi(srv.URL, nil)
	if err := api.SaveVault([]byte("x")); err != ErrNotLoggedIn {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
}
