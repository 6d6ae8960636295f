package captcha

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/mojocn/base64Captcha"
)

// Alphabet is the default solution alphabet; it leaves out 0 o 1 i l.
const Alphabet = "abcdefghjkmnpqrstuvwxyz23456789"

var ErrEmptyText = errors.New("captcha: empty text")

// Options controls the rendered image.
type Options struct {
	Width      int
	Height     int
	FontSize   int // glyph band height in pixels; clamped to Height
	NoiseLevel int // number of decoy characters scattered behind the text
}

// DefaultOptions returns the dimensions used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		Width:      120,
		Height:     40,
		FontSize:   40,
		NoiseLevel: 2,
	}
}

// Image is a rendered challenge.
type Image struct {
	Text        string
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Renderer turns a solution text into a human-solvable image.
type Renderer interface {
	Render(text string, opts Options) (*Image, error)
}

// Base64Renderer draws glyphs with base64Captcha and finishes the image with imaging.
type Base64Renderer struct {
	background color.RGBA
	blur       float64
}

// NewRenderer creates a renderer. blur is the gaussian sigma applied after drawing; 0 disables it.
func NewRenderer(blur float64) *Base64Renderer {
	return &Base64Renderer{
		background: color.RGBA{R: 244, G: 244, B: 248, A: 255},
		blur:       blur,
	}
}

func (r *Base64Renderer) Render(text string, opts Options) (*Image, error) {
	if text == "" {
		return nil, ErrEmptyText
	}
	opts = normalize(opts)

	driver := base64Captcha.NewDriverString(
		opts.FontSize,
		opts.Width,
		opts.NoiseLevel,
		base64Captcha.OptionShowHollowLine|base64Captcha.OptionShowSineLine,
		len(text),
		Alphabet,
		&r.background,
		nil,
		nil,
	)
	item, err := driver.DrawCaptcha(text)
	if err != nil {
		return nil, fmt.Errorf("captcha: draw: %w", err)
	}

	var band bytes.Buffer
	if _, err := item.WriteTo(&band); err != nil {
		return nil, fmt.Errorf("captcha: encode band: %w", err)
	}
	bandImg, err := imaging.Decode(&band)
	if err != nil {
		return nil, fmt.Errorf("captcha: decode band: %w", err)
	}

	canvas := imaging.New(opts.Width, opts.Height, r.background)
	canvas = imaging.PasteCenter(canvas, bandImg)
	if r.blur > 0 {
		canvas = imaging.Blur(canvas, r.blur)
	}

	var out bytes.Buffer
	if err := imaging.Encode(&out, canvas, imaging.PNG); err != nil {
		return nil, fmt.Errorf("captcha: encode: %w", err)
	}

	return &Image{
		Text:        text,
		Data:        out.Bytes(),
		ContentType: "image/png",
		Width:       opts.Width,
		Height:      opts.Height,
	}, nil
}

func normalize(opts Options) Options {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.FontSize <= 0 || opts.FontSize > opts.Height {
		opts.FontSize = opts.Height
	}
	if opts.NoiseLevel < 0 {
		opts.NoiseLevel = 0
	}
	return opts
}
