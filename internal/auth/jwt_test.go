package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	InitJWT("test-secret-key")

	uid := 1
	email := "trainee@example.com"
	displayName := "Test Trainee"
	role := "member"
	expireAt := time.Now().Add(24 * time.Hour)
	issuer := "certhub"

	token, err := GenerateToken(uid, email, displayName, role, expireAt, issuer)
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	if token == "" {
		t.Error("Expected non-empty token")
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() failed: %v", err)
	}

	if claims.UID != uid {
		t.Errorf("Expected UID %d, got %d", uid, claims.UID)
	}

	if claims.Email != email {
		t.Errorf("Expected email %s, got %s", email, claims.Email)
	}

	if claims.DisplayName != displayName {
		t.Errorf("Expected display name %s, got %s", displayName, claims.DisplayName)
	}

	if claims.Role != role {
		t.Errorf("Expected role %s, got %s", role, claims.Role)
	}

	if claims.Issuer != issuer {
		t.Errorf("Expected issuer %s, got %s", issuer, claims.Issuer)
	}
}

func TestParseToken_Expired(t *testing.T) {
	InitJWT("test-secret-key")

	expireAt := time.Now().Add(-1 * time.Hour)
	token, err := GenerateToken(1, "trainee@example.com", "Test", "member", expireAt, "certhub")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	if _, err := ParseToken(token); err == nil {
		t.Error("Expected error for expired token")
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	InitJWT("secret-one")
	token, err := GenerateToken(1, "trainee@example.com", "Test", "member", time.Now().Add(time.Hour), "certhub")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	InitJWT("secret-two")
	if _, err := ParseToken(token); err == nil {
		t.Error("Expected error for token signed with different secret")
	}
}
