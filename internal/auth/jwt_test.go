package auth

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	InitJWT("test-secret")

	expireAt := time.Now().Add(time.Hour)
	token, err := GenerateToken(1, "operator", "admin", expireAt, "agent_console")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken() error: %v", err)
	}

	if claims.UID != 1 {
		t.Errorf("UID = %d, want 1", claims.UID)
	}
	if claims.Username != "operator" {
		t.Errorf("Username = %q, want operator", claims.Username)
	}
	if claims.Role != "admin" {
		t.Errorf("Role = %q, want admin", claims.Role)
	}
}

func TestParseExpiredToken(t *testing.T) {
	InitJWT("test-secret")

	token, err := GenerateToken(1, "operator", "admin", time.Now().Add(-time.Minute), "agent_console")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	if _, err := ParseToken(token); err == nil {
		t.Error("expected error for expired token")
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	InitJWT("secret-a")
	token, err := GenerateToken(1, "operator", "admin", time.Now().Add(time.Hour), "agent_console")
	if err != nil {
		t.Fatalf("GenerateToken() error: %v", err)
	}

	InitJWT("secret-b")
	if _, err := ParseToken(token); err == nil {
		t.Error("expected error for token signed with a different secret")
	}
}
