package vaultapi

import "errors"

var (
	// ErrExchangeFailed wraps any HTTP transport error, non-2xx response,
	// or message serialization failure encountered talking to the server.
	ErrExchangeFailed = errors.New("vaultapi: server exchange failed")

	// ErrNotLoggedIn is returned by GetVault/SaveVault when no session has
	// been established yet.
	ErrNotLoggedIn = errors.New("vaultapi: not logged in")

	// ErrNotFound is returned by GetVault when the server has no stored
	// vault yet (HTTP 404), as it does right after registration.
	ErrNotFound = errors.New("vaultapi: vault not found")
)
