// Package vaultstore maintains the on-disk list of known vault names, one
// per line, that the CLI offers a user to choose from. It is a sibling
// collaborator to corevault.VaultCore, not used by it.
package vaultstore

import (
	"bufio"
	"os"
	"strings"
)

// Store reads and appends to a single flat file of vault names.
type Store struct {
	path string
}

// New returns a Store backed by path. The file need not exist yet; it is
// created on first Add.
func New(path string) *Store {
	return &Store{path: path}
}

// Names returns every known vault name, in file order. A missing file is
// treated as an empty list.
func (s *Store) Names() ([]string, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	return names, scanner.Err()
}

// Add appends name to the list if it is not already present.
func (s *Store) Add(name string) error {
	names, err := s.Names()
	if err != nil {
		return err
	}
	for _, existing := range names {
		if existing == name {
			return nil
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteString(name + "\n")
	return err
}
