package verification

import "strings"

// KeyKind namespaces store keys so captcha IDs and email addresses never collide
type KeyKind string

const (
	KindCaptcha       KeyKind = "captcha"
	KindEmailCode     KeyKind = "emailcode"
	KindEmailCodeLock KeyKind = "emailcode-lock"
)

// Key returns the store key for id under this kind
func (k KeyKind) Key(id string) string {
	return string(k) + ":" + id
}

// NormalizeRecipient trims and lower-cases an email address
func NormalizeRecipient(recipient string) string {
	return strings.ToLower(strings.TrimSpace(recipient))
}

// maskRecipient hides the local part of an address for logs: "alice@x.io" -> "a***@x.io"
func maskRecipient(recipient string) string {
	local, domain, ok := strings.Cut(recipient, "@")
	if !ok || local == "" {
		return "***"
	}
	return local[:1] + "***@" + domain
}
