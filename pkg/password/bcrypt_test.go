package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	if hash == "secret123" {
		t.Fatal("hash must not equal the plaintext")
	}
	if !h.Verify("secret123", hash) {
		t.Fatal("expected matching password to verify")
	}
	if h.Verify("secret124", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	if NewHasher(0).Verify("secret123", "not-a-hash") {
		t.Fatal("expected malformed hash to fail verification")
	}
}
