package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer(t *testing.T, password string) (*Issuer, *time.Time) {
	t.Helper()
	iss, err := NewIssuer(Config{Secret: "s3cret", Password: password, TTL: time.Hour})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	iss.Now = func() time.Time { return now }
	return iss, &now
}

func TestLoginAndVerifyUntilExpiry(t *testing.T) {
	iss, now := newTestIssuer(t, "curtain")
	tok, err := iss.Login("curtain")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := iss.Verify(tok.Token); err != nil {
		t.Fatalf("verify fresh token: %v", err)
	}
	*now = now.Add(59 * time.Minute)
	if err := iss.Verify(tok.Token); err != nil {
		t.Fatalf("verify before expiry: %v", err)
	}
	*now = now.Add(2 * time.Minute)
	if err := iss.Verify(tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	iss, _ := newTestIssuer(t, "curtain")
	if _, err := iss.Login("nope"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	empty, _ := newTestIssuer(t, "")
	if _, err := empty.Login(""); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("empty configured password must never match")
	}
}

func TestBcryptPassword(t *testing.T) {
	hash, err := HashPassword("curtain")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	iss, _ := newTestIssuer(t, hash)
	if _, err := iss.Login("curtain"); err != nil {
		t.Fatalf("login with hash: %v", err)
	}
}

func TestVerifyRejectsOtherSecret(t *testing.T) {
	iss, _ := newTestIssuer(t, "curtain")
	tok, _ := iss.Login("curtain")
	other, err := NewIssuer(Config{Secret: "different", Password: "curtain"})
	if err != nil {
		t.Fatalf("new issuer: %v", err)
	}
	other.Now = iss.Now
	if err := other.Verify(tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected signature failure, got %v", err)
	}
	if err := iss.Verify("garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected garbage to fail, got %v", err)
	}
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	if _, err := NewIssuer(Config{}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected not configured, got %v", err)
	}
}
