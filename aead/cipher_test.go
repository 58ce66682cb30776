package aead

import (
	"crypto/rand"
	"reflect"
	"testing"

	"github.com/ferrisvault/core/vault"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := make([]byte, KeyLen)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	cipher, err := FromKey(key)
	if err != nil {
		t.Fatalf("FromKey: %v", err)
	}

	v := vault.New()
	v.Add("github", "alice", "s3cret")

	blob, err := cipher.Encrypt(v)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	decrypted, err := cipher.Decrypt(blob)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !reflect.DeepEqual(v.Entries(), decrypted.Entries()) {
		t.Fatalf("round trip mismatch: %+v != %+v", v.Entries(), decrypted.Entries())
	}
}

func TestFromKeyDerivesNonStandardLengths(t *testing.T) {
	exportKey := make([]byte, 64)
	if _, err := rand.Read(exportKey); err != nil {
		t.Fatal(err)
	}

	c1, err := FromKey(exportKey)
	if err != nil {
		t.Fatalf("FromKey: %v", err)
	}
	c2, err := FromKey(exportKey)
	if err != nil {
		t.Fatalf("FromKey: %v", err)
	}

	v := vault.New()
	v.Add("a", "b", "c")
	blob, err := c1.Encrypt(v)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := c2.Decrypt(blob); err != nil {
		t.Fatalf("derivation is not a deterministic function of the input key: %v", err)
	}
}

func TestDecryptTamperedBlobFails(t *testing.T) {
	key := make([]byte, KeyLen)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	cipher, err := FromKey(key)
	if err != nil {
		t.Fatalf("FromKey: %v", err)
	}

	v := vault.New()
	v.Add("a", "b", "c")
	blob, err := cipher.Encrypt(v)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	for i := range blob {
		tampered := make([]byte, len(blob))
		copy(tampered, blob)
		tampered[i] ^= 0x01
		if _, err := cipher.Decrypt(tampered); err != ErrDecryption {
			t.Fatalf("byte %d: expected ErrDecryption, got %v", i, err)
		}
	}
}

func TestDecryptShortBlobFails(t *testing.T) {
	cipher, err := FromKey(make([]byte, KeyLen))
	if err != nil {
		t.Fatalf("FromKey: %v", err)
	}
	if _, err := cipher.Decrypt(make([]byte, NonceLen)); err != ErrDecryption {
		t.Fatalf("expected ErrDecryption, got %v", err)
	}
}

func TestEncryptWithoutKeyFails(t *testing.T) {
	var cipher Cipher
	if _, err := cipher.Encrypt(vault.New()); err != ErrMissingKey {
		t.Fatalf("expected ErrMissingKey, got %v", err)
	}
}
