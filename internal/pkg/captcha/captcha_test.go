package captcha

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
)

func TestRenderProducesPNGOfRequestedSize(t *testing.T) {
	r := NewRenderer(0.4)
	img, err := r.Render("ab2c", Options{Width: 150, Height: 50, FontSize: 30, NoiseLevel: 3})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Text != "ab2c" {
		t.Fatalf("expected text to be echoed, got %q", img.Text)
	}
	if img.ContentType != "image/png" {
		t.Fatalf("unexpected content type %q", img.ContentType)
	}

	decoded, err := png.Decode(bytes.NewReader(img.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 150 || b.Dy() != 50 {
		t.Fatalf("expected 150x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderEmptyText(t *testing.T) {
	if _, err := NewRenderer(0).Render("", DefaultOptions()); !errors.Is(err, ErrEmptyText) {
		t.Fatalf("expected ErrEmptyText, got %v", err)
	}
}

func TestNormalizeClampsFontSize(t *testing.T) {
	got := normalize(Options{Width: 0, Height: 30, FontSize: 90, NoiseLevel: -1})
	if got.Width != DefaultOptions().Width || got.FontSize != 30 || got.NoiseLevel != 0 {
		t.Fatalf("unexpected normalized options: %+v", got)
	}
}

func TestAlphabetExcludesAmbiguous(t *testing.T) {
	for _, c := range "0o1il" {
		if strings.ContainsRune(Alphabet, c) {
			t.Fatalf("alphabet must not contain %q", c)
		}
	}
}
