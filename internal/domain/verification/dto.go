package verification

import "time"

// CaptchaResponse is returned by GET /captcha
type CaptchaResponse struct {
	CaptchaID string `json:"captcha_id"`
	Image     string `json:"image"`
	ExpiresIn int    `json:"expires_in"`
}

// VerifyCaptchaRequest for POST /captcha/verify
type VerifyCaptchaRequest struct {
	CaptchaID string `json:"captcha_id" validate:"required,max=64"`
	Code      string `json:"code" validate:"required,max=16"`
}

// SendEmailCodeRequest for POST /email-code
type SendEmailCodeRequest struct {
	Email       string `json:"email" validate:"required,email,max=254"`
	CaptchaID   string `json:"captcha_id" validate:"required,max=64"`
	CaptchaCode string `json:"captcha_code" validate:"required,max=16"`
}

// SendEmailCodeResponse reports a dispatched code
type SendEmailCodeResponse struct {
	Sent        bool `json:"sent"`
	ExpiresIn   int  `json:"expires_in"`
	ResendAfter int  `json:"resend_after"`
}

// VerifyEmailCodeRequest for POST /email-code/verify
type VerifyEmailCodeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Code  string `json:"code" validate:"required,digits,max=12"`
}

// ValidResponse carries a validation outcome and, for email codes, a ticket
type ValidResponse struct {
	Valid           bool       `json:"valid"`
	Ticket          string     `json:"ticket,omitempty"`
	TicketExpiresAt *time.Time `json:"ticket_expires_at,omitempty"`
}

// VerifyTicketRequest for POST /ticket/verify
type VerifyTicketRequest struct {
	Ticket string `json:"ticket" validate:"required"`
}

// TicketResponse names the address a ticket was issued for
type TicketResponse struct {
	Email string `json:"email"`
}
