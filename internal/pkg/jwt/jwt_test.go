package jwt

import (
	"errors"
	"testing"
	"time"
)

func TestTicketRoundTrip(t *testing.T) {
	svc := NewService("secret", 15*time.Minute, "vipadmin")
	token, expiresAt, err := svc.GenerateTicket("a@b.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if time.Until(expiresAt) <= 14*time.Minute {
		t.Fatalf("unexpected expiry %s", expiresAt)
	}

	claims, err := svc.ValidateTicket(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Email != "a@b.com" || claims.Type != TokenTypeEmailVerified {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestTicketExpired(t *testing.T) {
	svc := NewService("secret", time.Minute, "vipadmin")
	issued := time.Now()
	svc.now = func() time.Time { return issued }
	token, _, err := svc.GenerateTicket("a@b.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := svc.ValidateTicket(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTicketWrongSecret(t *testing.T) {
	token, _, _ := NewService("secret", time.Minute, "vipadmin").GenerateTicket("a@b.com")
	if _, err := NewService("other", time.Minute, "vipadmin").ValidateTicket(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTicketEmpty(t *testing.T) {
	if _, err := NewService("secret", time.Minute, "vipadmin").ValidateTicket("  "); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
