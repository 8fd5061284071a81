package auth

import (
	"testing"
	"time"
)

var testConfig = Config{
	Secret: []byte("test-secret-at-least-32-bytes-long"),
	TTL:    time.Hour,
}

func TestIssueAndVerify(t *testing.T) {
	token, err := Issue(42, "whiskers", testConfig)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := Verify(token, testConfig)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user_id = %d, want 42", claims.UserID)
	}
	if claims.Username != "whiskers" {
		t.Errorf("username = %q, want whiskers", claims.Username)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Issue(1, "p", testConfig)
	if err != nil {
		t.Fatal(err)
	}

	other := testConfig
	other.Secret = []byte("a-different-secret-32-bytes-long!")
	if _, err := Verify(token, other); err == nil {
		t.Error("expected verification failure with wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	cfg := testConfig
	cfg.Now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := Issue(1, "p", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Verify(token, testConfig); err == nil {
		t.Error("expected verification failure for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := Verify("not.a.token", testConfig); err == nil {
		t.Error("expected verification failure for malformed token")
	}
}

func TestIssueRequiresSecret(t *testing.T) {
	if _, err := Issue(1, "p", Config{}); err == nil {
		t.Error("expected error without a secret")
	}
}
