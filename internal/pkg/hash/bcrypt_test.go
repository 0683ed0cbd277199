package hash

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Roundtrip(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hashed, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hashed == "pw123" {
		t.Fatalf("hash must not equal plaintext")
	}
	if !h.Verify("pw123", hashed) {
		t.Fatalf("expected verification to succeed")
	}
	if h.Verify("other", hashed) {
		t.Fatalf("expected verification to fail for wrong password")
	}
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	if h.Verify("pw123", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash must verify false")
	}
}

func TestBcryptHasher_CostOutOfRangeFallsBack(t *testing.T) {
	h := NewBcryptHasher(99)
	hashed, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("hash with fallback cost: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hashed))
	if err != nil {
		t.Fatalf("read cost: %v", err)
	}
	if cost != DefaultCost {
		t.Fatalf("expected fallback cost %d, got %d", DefaultCost, cost)
	}
}
