package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EMAIL_CODE_EXPIRE", "600")
	t.Setenv("EMAIL_RESEND_WAIT", "60")
	t.Setenv("CAPTCHA_EXPIRE", "5m")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()

	if cfg.EmailCodeExpire != 600*time.Second {
		t.Fatalf("expected 600s, got %s", cfg.EmailCodeExpire)
	}
	if cfg.EmailResendWait != time.Minute {
		t.Fatalf("expected 60s, got %s", cfg.EmailResendWait)
	}
	if cfg.CaptchaExpire != 5*time.Minute {
		t.Fatalf("expected 5m, got %s", cfg.CaptchaExpire)
	}
	if len(cfg.TrustedProxies) != 0 {
		t.Fatalf("expected no trusted proxies by default, got %#v", cfg.TrustedProxies)
	}
}

func TestParseSecondsFallsBack(t *testing.T) {
	if got := parseSeconds("abc", time.Second); got != time.Second {
		t.Fatalf("expected fallback, got %s", got)
	}
	if got := parseSeconds("-5", time.Second); got != time.Second {
		t.Fatalf("expected fallback for negative, got %s", got)
	}
}

func TestParseStringSlice(t *testing.T) {
	got := parseStringSlice("http://a, http://b,,")
	if len(got) != 2 || got[0] != "http://a" || got[1] != "http://b" {
		t.Fatalf("unexpected origins: %#v", got)
	}
}
