package verification

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrValidation  = errors.New("invalid verification request")
	ErrRateLimited = errors.New("verification code requested too often")
	ErrDelivery    = errors.New("verification code delivery failed")
	ErrStore       = errors.New("verification store unavailable")
)

// RateLimitedError is returned when an email code is requested inside the resend cooldown.
// It matches ErrRateLimited with errors.Is.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("please wait %d seconds before requesting a new code", e.Seconds())
}

func (e *RateLimitedError) Is(target error) bool {
	return target == ErrRateLimited
}

// Seconds is RetryAfter rounded up, never below one
func (e *RateLimitedError) Seconds() int {
	s := int(math.Ceil(e.RetryAfter.Seconds()))
	if s < 1 {
		return 1
	}
	return s
}

func storeError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStore, op, err)
}
