package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestHMACService_RoundTrip(t *testing.T) {
	svc := NewHMACService("secret", 5*24*time.Hour)

	id := uuid.New()
	token, err := svc.GenerateSessionToken(id, "recruiter")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if claims.UserID != id {
		t.Fatalf("expected user id %s, got %s", id, claims.UserID)
	}
	if claims.Role != "recruiter" {
		t.Fatalf("expected role recruiter, got %q", claims.Role)
	}
}

func TestHMACService_Expiry(t *testing.T) {
	svc := NewHMACService("secret", 5*24*time.Hour)
	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.GenerateSessionToken(uuid.New(), "student")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(5*24*time.Hour + time.Minute) }
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestHMACService_WrongSecret(t *testing.T) {
	token, err := NewHMACService("secret-a", time.Hour).GenerateSessionToken(uuid.New(), "student")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if _, err := NewHMACService("secret-b", time.Hour).ValidateToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestHMACService_Garbage(t *testing.T) {
	svc := NewHMACService("secret", time.Hour)
	if _, err := svc.ValidateToken("not-a-token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}
