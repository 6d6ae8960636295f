package random

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDigits(t *testing.T) {
	g := NewCryptoGenerator()
	for i := 0; i < 100; i++ {
		code, err := g.Digits(6)
		if err != nil {
			t.Fatal(err)
		}
		if len(code) != 6 {
			t.Fatalf("expected 6 digits, got %q", code)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("non-digit in %q", code)
			}
		}
	}
}

func TestStringUsesOnlyAlphabet(t *testing.T) {
	g := NewCryptoGenerator()
	const alphabet = "abc"
	s, err := g.String(500, alphabet)
	if err != nil {
		t.Fatal(err)
	}
	for _, c := range s {
		if !strings.ContainsRune(alphabet, c) {
			t.Fatalf("unexpected rune %q", c)
		}
	}
	for _, c := range alphabet {
		if !strings.ContainsRune(s, c) {
			t.Fatalf("expected %q to appear in 500 draws", c)
		}
	}
}

func TestStringRejectsBiasedBytes(t *testing.T) {
	// 255 is >= limit for a 10-symbol alphabet (limit 250) and must be skipped.
	g := &CryptoGenerator{r: bytes.NewReader([]byte{255, 3, 255, 7})}
	s, err := g.String(2, Digits)
	if err != nil {
		t.Fatal(err)
	}
	if s != "37" {
		t.Fatalf("expected 37, got %q", s)
	}
}

func TestStringErrors(t *testing.T) {
	g := NewCryptoGenerator()
	if _, err := g.String(4, ""); !errors.Is(err, ErrEmptyAlphabet) {
		t.Fatalf("expected ErrEmptyAlphabet, got %v", err)
	}

	short := &CryptoGenerator{r: bytes.NewReader(nil)}
	if _, err := short.String(4, Digits); err == nil {
		t.Fatal("expected read error")
	}
}

func TestUUID(t *testing.T) {
	g := NewCryptoGenerator()
	a, b := g.UUID(), g.UUID()
	if a == b {
		t.Fatal("expected distinct ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Fatalf("invalid uuid %q: %v", a, err)
	}
}
