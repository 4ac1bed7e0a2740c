package auth

import (
	"testing"
)

func TestHashAndComparePassword(t *testing.T) {
	plain := "correct horse battery staple"

	hash, err := HashPassword(plain)
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}

	if hash == plain {
		t.Error("Hash should not equal plain text")
	}

	if err := ComparePassword(hash, plain); err != nil {
		t.Errorf("ComparePassword() failed for correct password: %v", err)
	}

	if err := ComparePassword(hash, "wrong password"); err == nil {
		t.Error("Expected error for wrong password")
	}
}
