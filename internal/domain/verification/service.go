package verification

import (
	"context"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vipadmin/vipadmin-api/internal/pkg/captcha"
	"github.com/vipadmin/vipadmin-api/internal/pkg/kvstore"
	"github.com/vipadmin/vipadmin-api/internal/pkg/logger"
	"github.com/vipadmin/vipadmin-api/internal/pkg/random"
)

// Config holds verification settings
type Config struct {
	CaptchaLength   int
	CaptchaAlphabet string
	CaptchaExpire   time.Duration
	Image           captcha.Options

	EmailCodeLength int
	EmailCodeExpire time.Duration
	EmailResendWait time.Duration

	// IssueLockTTL bounds how long a crashed issuance can block a recipient
	IssueLockTTL time.Duration
}

// DefaultConfig returns the stock verification settings
func DefaultConfig() Config {
	return Config{
		CaptchaLength:   4,
		CaptchaAlphabet: captcha.Alphabet,
		CaptchaExpire:   300 * time.Second,
		Image:           captcha.DefaultOptions(),
		EmailCodeLength: 6,
		EmailCodeExpire: 600 * time.Second,
		EmailResendWait: 60 * time.Second,
		IssueLockTTL:    15 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CaptchaLength <= 0 {
		c.CaptchaLength = d.CaptchaLength
	}
	if c.CaptchaAlphabet == "" {
		c.CaptchaAlphabet = d.CaptchaAlphabet
	}
	if c.CaptchaExpire <= 0 {
		c.CaptchaExpire = d.CaptchaExpire
	}
	if c.EmailCodeLength <= 0 {
		c.EmailCodeLength = d.EmailCodeLength
	}
	if c.EmailCodeExpire <= 0 {
		c.EmailCodeExpire = d.EmailCodeExpire
	}
	if c.EmailResendWait < 0 {
		c.EmailResendWait = d.EmailResendWait
	}
	// A cooldown longer than the code's lifetime would outlive the record it is derived from.
	if c.EmailResendWait > c.EmailCodeExpire {
		c.EmailResendWait = c.EmailCodeExpire
	}
	if c.IssueLockTTL <= 0 {
		c.IssueLockTTL = d.IssueLockTTL
	}
	return c
}

// AppContext describes who asked for a code and on behalf of which app
type AppContext struct {
	AppName  string
	ClientIP string
}

// CodeMessage is handed to a Notifier for delivery
type CodeMessage struct {
	Recipient  string
	Code       string
	ExpiresIn  time.Duration
	ResendWait time.Duration
	App        AppContext
}

// Notifier delivers an email code. Send returns once the transport has accepted the message.
type Notifier interface {
	SendCode(ctx context.Context, msg CodeMessage) error
}

// TicketSigner issues and checks proof-of-verification tickets
type TicketSigner interface {
	GenerateTicket(email string) (string, time.Time, error)
	ValidateTicket(token string) (email string, err error)
}

// Challenge is a freshly issued image captcha
type Challenge struct {
	ID          string
	Image       []byte
	ContentType string
	ExpiresIn   time.Duration
}

// DataURI returns the image as an inline data URI for JSON responses
func (c *Challenge) DataURI() string {
	return "data:" + c.ContentType + ";base64," + base64.StdEncoding.EncodeToString(c.Image)
}

// Service issues and validates image captchas and email codes
type Service struct {
	store    kvstore.Store
	random   random.Generator
	renderer captcha.Renderer
	notifier Notifier
	tickets  TicketSigner
	cfg      Config
}

// NewService creates verification service
func NewService(store kvstore.Store, gen random.Generator, renderer captcha.Renderer, notifier Notifier, tickets TicketSigner, cfg Config) *Service {
	return &Service{
		store:    store,
		random:   gen,
		renderer: renderer,
		notifier: notifier,
		tickets:  tickets,
		cfg:      cfg.withDefaults(),
	}
}

// Config returns the effective settings
func (s *Service) Config() Config {
	return s.cfg
}

// IssueImageChallenge renders a new captcha and stores its lower-cased solution.
// The solution itself is never returned.
func (s *Service) IssueImageChallenge(ctx context.Context) (*Challenge, error) {
	text, err := s.random.String(s.cfg.CaptchaLength, s.cfg.CaptchaAlphabet)
	if err != nil {
		return nil, fmt.Errorf("generate captcha text: %w", err)
	}

	img, err := s.renderer.Render(text, s.cfg.Image)
	if err != nil {
		return nil, fmt.Errorf("render captcha: %w", err)
	}

	id := s.random.UUID()
	if err := s.store.Set(ctx, KindCaptcha.Key(id), strings.ToLower(img.Text), s.cfg.CaptchaExpire); err != nil {
		return nil, storeError("save captcha", err)
	}

	return &Challenge{
		ID:          id,
		Image:       img.Data,
		ContentType: img.ContentType,
		ExpiresIn:   s.cfg.CaptchaExpire,
	}, nil
}

// ValidateImageChallenge checks input against the stored solution, ignoring case.
// The challenge is consumed by the first attempt whatever its outcome.
func (s *Service) ValidateImageChallenge(ctx context.Context, challengeID, input string) (bool, error) {
	if challengeID == "" || input == "" {
		return false, nil
	}

	solution, err := s.store.GetDel(ctx, KindCaptcha.Key(challengeID))
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("load captcha", err)
	}

	return solution == strings.ToLower(input), nil
}

// IssueEmailCode generates a numeric code for recipient, stores it and waits for delivery.
// A request inside the resend cooldown fails with *RateLimitedError.
func (s *Service) IssueEmailCode(ctx context.Context, recipient string, app AppContext) error {
	recipient = NormalizeRecipient(recipient)
	if recipient == "" {
		return fmt.Errorf("%w: recipient is required", ErrValidation)
	}

	lockKey := KindEmailCodeLock.Key(recipient)
	acquired, err := s.store.SetNX(ctx, lockKey, "1", s.cfg.IssueLockTTL)
	if err != nil {
		return storeError("lock email code", err)
	}
	if !acquired {
		return &RateLimitedError{RetryAfter: s.cfg.EmailResendWait}
	}
	defer func() {
		if err := s.store.Delete(context.WithoutCancel(ctx), lockKey); err != nil {
			logger.LogWarn(ctx, "Failed to release email code lock", "recipient", maskRecipient(recipient), "error", err.Error())
		}
	}()

	codeKey := KindEmailCode.Key(recipient)
	wait, err := s.cooldownRemaining(ctx, codeKey)
	if err != nil {
		return err
	}
	if wait > 0 {
		logger.LogDebug(ctx, "Email code requested during cooldown", "recipient", maskRecipient(recipient), "retry_after", wait.String())
		return &RateLimitedError{RetryAfter: wait}
	}

	code, err := s.random.Digits(s.cfg.EmailCodeLength)
	if err != nil {
		return fmt.Errorf("generate email code: %w", err)
	}
	if err := s.store.Set(ctx, codeKey, code, s.cfg.EmailCodeExpire); err != nil {
		return storeError("save email code", err)
	}

	err = s.notifier.SendCode(ctx, CodeMessage{
		Recipient:  recipient,
		Code:       code,
		ExpiresIn:  s.cfg.EmailCodeExpire,
		ResendWait: s.cfg.EmailResendWait,
		App:        app,
	})
	if err != nil {
		// An undelivered code must not start a cooldown.
		if delErr := s.store.Delete(context.WithoutCancel(ctx), codeKey); delErr != nil {
			logger.LogWarn(ctx, "Failed to drop undelivered email code", "recipient", maskRecipient(recipient), "error", delErr.Error())
		}
		return fmt.Errorf("%w: %w", ErrDelivery, err)
	}

	logger.LogInfo(ctx, "Email code issued", "recipient", maskRecipient(recipient), "client_ip", app.ClientIP)
	return nil
}

// cooldownRemaining derives the resend wait from the live record's TTL.
// The cooldown is over once the remaining TTL drops to EmailCodeExpire - EmailResendWait.
func (s *Service) cooldownRemaining(ctx context.Context, codeKey string) (time.Duration, error) {
	remaining, err := s.store.TTL(ctx, codeKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, storeError("read email code ttl", err)
	}
	if remaining == kvstore.NoExpiry {
		return 0, nil
	}

	threshold := s.cfg.EmailCodeExpire - s.cfg.EmailResendWait
	if remaining > threshold {
		return remaining - threshold, nil
	}
	return 0, nil
}

// ValidateEmailCode compares code with the stored one. A wrong code leaves the record
// in place so the user may retry until it expires; a correct one consumes it.
func (s *Service) ValidateEmailCode(ctx context.Context, recipient, code string) (bool, error) {
	recipient = NormalizeRecipient(recipient)
	if recipient == "" || code == "" {
		return false, nil
	}

	key := KindEmailCode.Key(recipient)
	stored, err := s.store.Get(ctx, key)
	if errors.Is(err, kvstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, storeError("load email code", err)
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return false, nil
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return false, storeError("consume email code", err)
	}
	return true, nil
}

// IssueVerificationTicket signs a ticket proving recipient passed ValidateEmailCode
func (s *Service) IssueVerificationTicket(recipient string) (string, time.Time, error) {
	recipient = NormalizeRecipient(recipient)
	if recipient == "" {
		return "", time.Time{}, fmt.Errorf("%w: recipient is required", ErrValidation)
	}
	if s.tickets == nil {
		return "", time.Time{}, errors.New("verification tickets are not configured")
	}
	return s.tickets.GenerateTicket(recipient)
}

// ParseVerificationTicket returns the verified address carried by token
func (s *Service) ParseVerificationTicket(token string) (string, error) {
	if s.tickets == nil {
		return "", errors.New("verification tickets are not configured")
	}
	return s.tickets.ValidateTicket(token)
}
