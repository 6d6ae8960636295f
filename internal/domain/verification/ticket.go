package verification

import (
	"time"

	"github.com/vipadmin/vipadmin-api/internal/pkg/jwt"
)

// JWTTicketSigner signs verification tickets as HS256 JWTs
type JWTTicketSigner struct {
	jwt *jwt.Service
}

// NewTicketSigner wraps a JWT service
func NewTicketSigner(svc *jwt.Service) *JWTTicketSigner {
	return &JWTTicketSigner{jwt: svc}
}

func (t *JWTTicketSigner) GenerateTicket(email string) (string, time.Time, error) {
	return t.jwt.GenerateTicket(email)
}

func (t *JWTTicketSigner) ValidateTicket(token string) (string, error) {
	claims, err := t.jwt.ValidateTicket(token)
	if err != nil {
		return "", err
	}
	return claims.Email, nil
}
