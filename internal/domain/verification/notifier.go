package verification

import (
	"context"

	"github.com/vipadmin/vipadmin-api/internal/pkg/email"
)

// EmailNotifier delivers codes through the email service
type EmailNotifier struct {
	emails *email.Service
}

// NewEmailNotifier creates an email-backed Notifier
func NewEmailNotifier(emails *email.Service) *EmailNotifier {
	return &EmailNotifier{emails: emails}
}

func (n *EmailNotifier) SendCode(ctx context.Context, msg CodeMessage) error {
	return n.emails.SendVerificationCode(ctx, msg.Recipient, email.VerificationCode{
		AppName:    msg.App.AppName,
		Code:       msg.Code,
		ExpiresIn:  msg.ExpiresIn,
		ResendWait: msg.ResendWait,
	})
}
