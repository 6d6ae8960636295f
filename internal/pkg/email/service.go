package email

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	texttemplate "text/template"
	"time"

	"github.com/rs/zerolog/log"
)

const templateVerificationCode = "verification_code"

var ErrTemplateNotFound = errors.New("email: template not found")

// Sender delivers a rendered message
type Sender interface {
	Send(ctx context.Context, msg *EmailMessage) error
}

// Service renders templates and hands them to a Sender
type Service struct {
	sender       Sender
	appName      string
	baseTemplate *template.Template
	templates    map[string]*template.Template
	textBodies   map[string]*texttemplate.Template
}

// NewService creates email service
func NewService(sender Sender, appName string) (*Service, error) {
	s := &Service{
		sender:     sender,
		appName:    appName,
		templates:  make(map[string]*template.Template),
		textBodies: make(map[string]*texttemplate.Template),
	}

	var err error
	if s.baseTemplate, err = template.New("base").Parse(BaseTemplate); err != nil {
		return nil, fmt.Errorf("parse base template: %w", err)
	}
	if s.templates[templateVerificationCode], err = template.New(templateVerificationCode).Parse(VerificationCodeTemplate); err != nil {
		return nil, fmt.Errorf("parse %s template: %w", templateVerificationCode, err)
	}
	if s.textBodies[templateVerificationCode], err = texttemplate.New(templateVerificationCode).Parse(VerificationCodeText); err != nil {
		return nil, fmt.Errorf("parse %s text: %w", templateVerificationCode, err)
	}

	return s, nil
}

// SendSync renders templateName with data and sends it, blocking until the sender returns.
func (s *Service) SendSync(ctx context.Context, to, toName, templateName, subject string, data map[string]interface{}) error {
	tmpl, ok := s.templates[templateName]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTemplateNotFound, templateName)
	}

	if data == nil {
		data = map[string]interface{}{}
	}
	if _, ok := data["AppName"]; !ok {
		data["AppName"] = s.appName
	}

	var contentBuf bytes.Buffer
	if err := tmpl.Execute(&contentBuf, data); err != nil {
		return fmt.Errorf("render %s: %w", templateName, err)
	}

	var htmlBuf bytes.Buffer
	if err := s.baseTemplate.Execute(&htmlBuf, map[string]interface{}{
		"AppName": data["AppName"],
		"Content": template.HTML(contentBuf.String()),
	}); err != nil {
		return fmt.Errorf("render base: %w", err)
	}

	msg := &EmailMessage{
		To:          to,
		ToName:      toName,
		Subject:     subject,
		HTMLContent: htmlBuf.String(),
	}
	if textTmpl, ok := s.textBodies[templateName]; ok {
		var textBuf bytes.Buffer
		if err := textTmpl.Execute(&textBuf, data); err != nil {
			return fmt.Errorf("render %s text: %w", templateName, err)
		}
		msg.TextContent = textBuf.String()
	}

	return s.sender.Send(ctx, msg)
}

// VerificationCode is the payload of the verification code email
type VerificationCode struct {
	AppName    string
	Code       string
	ExpiresIn  time.Duration
	ResendWait time.Duration
}

// SendVerificationCode sends a one-time code and waits for the provider to accept it.
func (s *Service) SendVerificationCode(ctx context.Context, to string, vc VerificationCode) error {
	appName := vc.AppName
	if appName == "" {
		appName = s.appName
	}
	return s.SendSync(ctx, to, "", templateVerificationCode, appName+" verification code", map[string]interface{}{
		"AppName":           appName,
		"Code":              vc.Code,
		"ExpiresInMinutes":  int(vc.ExpiresIn / time.Minute),
		"ResendWaitSeconds": int(vc.ResendWait / time.Second),
	})
}

// LogSender writes messages to the log instead of delivering them.
// Used in development when no provider key is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, msg *EmailMessage) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("text", msg.TextContent).
		Msg("Email not delivered (log sender)")
	return nil
}
