// Package random produces cryptographically strong codes and identifiers.
package random

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

const Digits = "0123456789"

var ErrEmptyAlphabet = errors.New("random: empty alphabet")

// Generator is the source of every secret the verification flow hands out.
type Generator interface {
	// Digits returns n independent uniform decimal digits. Leading zeros are allowed.
	Digits(n int) (string, error)
	// String returns n characters drawn uniformly from alphabet.
	String(n int, alphabet string) (string, error)
	// UUID returns a random (v4) UUID string.
	UUID() string
}

// CryptoGenerator reads from crypto/rand.
type CryptoGenerator struct {
	r io.Reader
}

// NewCryptoGenerator returns a generator backed by crypto/rand.Reader.
func NewCryptoGenerator() *CryptoGenerator {
	return &CryptoGenerator{r: rand.Reader}
}

func (g *CryptoGenerator) Digits(n int) (string, error) {
	return g.String(n, Digits)
}

// String uses rejection sampling so every symbol is equally likely.
func (g *CryptoGenerator) String(n int, alphabet string) (string, error) {
	if alphabet == "" {
		return "", ErrEmptyAlphabet
	}
	if len(alphabet) > 256 {
		return "", fmt.Errorf("random: alphabet too long (%d)", len(alphabet))
	}
	if n <= 0 {
		return "", nil
	}

	size := len(alphabet)
	limit := 256 - 256%size // bytes >= limit would bias the result

	out := make([]byte, 0, n)
	buf := make([]byte, n)
	for len(out) < n {
		if _, err := io.ReadFull(g.r, buf); err != nil {
			return "", fmt.Errorf("random: read: %w", err)
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%size])
			if len(out) == n {
				break
			}
		}
	}
	return string(out), nil
}

func (g *CryptoGenerator) UUID() string {
	return uuid.New().String()
}
