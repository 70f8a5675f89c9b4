package auth

import (
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-chars-minimum"

func TestJWTManager_GenerateAndValidate(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)

	token, err := manager.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}

	claims, err := manager.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Sub != "admin" {
		t.Errorf("claims.Sub = %q, want %q", claims.Sub, "admin")
	}
}

func TestJWTManager_ExpiredTokenRejected(t *testing.T) {
	manager := NewJWTManager(testSecret, -time.Hour)

	token, err := manager.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := manager.ValidateToken(token); err == nil {
		t.Error("ValidateToken() expected error for expired token")
	}
}

func TestJWTManager_WrongSecretRejected(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)
	other := NewJWTManager("a-different-secret-entirely-here", time.Hour)

	token, err := manager.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken() expected error for token signed with another secret")
	}
}

func TestJWTManager_GarbageTokenRejected(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)

	if _, err := manager.ValidateToken("not.a.token"); err == nil {
		t.Error("ValidateToken() expected error for malformed token")
	}
}
