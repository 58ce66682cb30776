package vaultstore

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestAddAndNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vaults.txt")
	s := New(path)

	if err := s.Add("alice"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("bob"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add("alice"); err != nil {
		t.Fatalf("Add duplicate: %v", err)
	}

	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if !reflect.DeepEqual(names, []string{"alice", "bob"}) {
		t.Fatalf("got %v", names)
	}
}

func TestNamesOnMissingFile(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "missing.txt"))
	names, err := s.Names()
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected no names, got %v", names)
	}
}
