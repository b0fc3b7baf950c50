package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestDefaultParamsRoundTrip(t *testing.T) {
	h, err := NewHasher(DefaultParams())
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	stored, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.Contains(stored, "m=65536,t=1,p=4") {
		t.Fatalf("default parameters not encoded: %q", stored)
	}

	ok, upgrade, err := h.Verify("s3cret", stored)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok || upgrade {
		t.Fatalf("expected clean match, got ok=%v upgrade=%v", ok, upgrade)
	}
}

func TestHashAndVerify(t *testing.T) {
	h, err := NewHasher(Params{})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	stored, err := h.Hash("s3cret")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if !strings.HasPrefix(stored, "$argon2id$") {
		t.Fatalf("expected argon2id hash, got %q", stored)
	}
	if stored == "s3cret" {
		t.Fatalf("hash equals plaintext")
	}

	ok, upgrade, err := h.Verify("s3cret", stored)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected match")
	}
	if upgrade {
		t.Fatalf("fresh hash should not need upgrade")
	}

	ok, _, err = h.Verify("wrong", stored)
	if err != nil {
		t.Fatalf("Verify wrong password: %v", err)
	}
	if ok {
		t.Fatalf("wrong password matched")
	}
}

func TestVerifyLegacyBcrypt(t *testing.T) {
	h, err := NewHasher(Params{})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}

	legacy, err := bcrypt.GenerateFromPassword([]byte("oldpass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}

	ok, upgrade, err := h.Verify("oldpass", string(legacy))
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected bcrypt hash to verify")
	}
	if !upgrade {
		t.Fatalf("bcrypt hash should be flagged for upgrade")
	}

	ok, _, err = h.Verify("badpass", string(legacy))
	if err != nil || ok {
		t.Fatalf("expected clean mismatch, got ok=%v err=%v", ok, err)
	}
}

func TestVerifyOutdatedParams(t *testing.T) {
	weak, err := NewHasher(Params{Memory: 8 * 1024, Time: 1, Threads: 1})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	stored, err := weak.Hash("pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}

	current, err := NewHasher(Params{})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	ok, upgrade, err := current.Verify("pass", stored)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok || !upgrade {
		t.Fatalf("expected match with upgrade, got ok=%v upgrade=%v", ok, upgrade)
	}
}

func TestVerifyMalformedHash(t *testing.T) {
	h, err := NewHasher(Params{})
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	if _, _, err := h.Verify("pass", "plaintext-not-a-hash"); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}
