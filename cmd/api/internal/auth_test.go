package internal

import (
	"testing"
)

func TestJWTManager_TokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	jm := NewJWTManager()

	token, err := jm.GenerateToken("user-1", "trader@example.com", 1)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	claims, err := jm.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken rejected a fresh token: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "trader@example.com" {
		t.Errorf("Claims = %s/%s, want user-1/trader@example.com", claims.UserID, claims.Email)
	}
}

func TestJWTManager_RejectsTamperedToken(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	jm := NewJWTManager()

	token, err := jm.GenerateToken("user-1", "", 1)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}

	if _, err := jm.ValidateToken(token + "x"); err == nil {
		t.Errorf("Expected a tampered token to be rejected")
	}
}

func TestNewJWTManager_GeneratesSecretWhenEnvUnset(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	first := NewJWTManager()
	if first.secretKey == "" {
		t.Fatalf("Expected a generated secret when JWT_SECRET_KEY is unset")
	}
	if first.secretKey == "your-secret-key-change-this-in-production" {
		t.Fatalf("Generated secret must not be a fixed string")
	}

	// Separate processes must not share a secret; two managers model that.
	second := NewJWTManager()
	if first.secretKey == second.secretKey {
		t.Errorf("Expected independent random secrets, both were %q", first.secretKey)
	}

	token, err := first.GenerateToken("user-1", "", 1)
	if err != nil {
		t.Fatalf("GenerateToken returned error: %v", err)
	}
	if _, err := second.ValidateToken(token); err == nil {
		t.Errorf("A token signed under one secret must not validate under another")
	}
}
