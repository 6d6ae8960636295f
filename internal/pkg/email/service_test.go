package email

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type recordingSender struct {
	msgs []*EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg *EmailMessage) error {
	r.msgs = append(r.msgs, msg)
	return r.err
}

func TestSendVerificationCodeRendersTemplates(t *testing.T) {
	sender := &recordingSender{}
	svc, err := NewService(sender, "VIP Admin")
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	err = svc.SendVerificationCode(context.Background(), "a@b.com", VerificationCode{
		Code:       "042817",
		ExpiresIn:  10 * time.Minute,
		ResendWait: time.Minute,
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if len(sender.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(sender.msgs))
	}
	msg := sender.msgs[0]
	if msg.To != "a@b.com" || msg.Subject != "VIP Admin verification code" {
		t.Fatalf("unexpected envelope: %+v", msg)
	}
	if !strings.Contains(msg.HTMLContent, "042817") || !strings.Contains(msg.HTMLContent, "10 minutes") {
		t.Fatalf("html body missing code or expiry: %s", msg.HTMLContent)
	}
	if !strings.Contains(msg.TextContent, "042817") {
		t.Fatalf("text body missing code: %s", msg.TextContent)
	}
}

func TestSendSyncPropagatesSenderError(t *testing.T) {
	sender := &recordingSender{err: errors.New("provider down")}
	svc, _ := NewService(sender, "VIP Admin")

	err := svc.SendVerificationCode(context.Background(), "a@b.com", VerificationCode{Code: "1"})
	if err == nil || err.Error() != "provider down" {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestSendSyncUnknownTemplate(t *testing.T) {
	svc, _ := NewService(&recordingSender{}, "VIP Admin")
	err := svc.SendSync(context.Background(), "a@b.com", "", "missing", "s", nil)
	if !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestSendGridClientSend(t *testing.T) {
	var got sendGridRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := NewSendGridClient(SendGridConfig{APIKey: "key", FromEmail: "from@x.com", FromName: "X", Endpoint: srv.URL})
	err := c.Send(context.Background(), &EmailMessage{To: "a@b.com", Subject: "hi", HTMLContent: "<p>x</p>", TextContent: "x"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if auth != "Bearer key" {
		t.Fatalf("unexpected auth header %q", auth)
	}
	if len(got.Content) != 2 || got.Content[0].Type != "text/plain" {
		t.Fatalf("unexpected content order: %+v", got.Content)
	}
	if got.Personalizations[0].To[0].Email != "a@b.com" {
		t.Fatalf("unexpected recipient: %+v", got.Personalizations)
	}
}

func TestSendGridClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewSendGridClient(SendGridConfig{APIKey: "nope", Endpoint: srv.URL})
	err := c.Send(context.Background(), &EmailMessage{To: "a@b.com", TextContent: "x"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected 401 error, got %v", err)
	}
}
