package verification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/vipadmin/vipadmin-api/internal/pkg/captcha"
	"github.com/vipadmin/vipadmin-api/internal/pkg/kvstore"
)

type fakeGenerator struct {
	text  string
	code  string
	mu    sync.Mutex
	calls int
}

func (g *fakeGenerator) Digits(n int) (string, error) {
	if g.code == "" {
		return "", errors.New("no code configured")
	}
	return g.code, nil
}

func (g *fakeGenerator) String(n int, alphabet string) (string, error) {
	return g.text, nil
}

func (g *fakeGenerator) UUID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	return fmt.Sprintf("00000000-0000-0000-0000-%012d", g.calls)
}

type fakeRenderer struct{}

func (fakeRenderer) Render(text string, opts captcha.Options) (*captcha.Image, error) {
	return &captcha.Image{Text: text, Data: []byte("png:" + text), ContentType: "image/png", Width: opts.Width, Height: opts.Height}, nil
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []CodeMessage
	err  error
}

func (n *fakeNotifier) SendCode(ctx context.Context, msg CodeMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return n.err
}

func (n *fakeNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// countingStore records every call that reaches the underlying store
type countingStore struct {
	kvstore.Store
	mu    sync.Mutex
	calls int
}

func (s *countingStore) hit() {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
}

func (s *countingStore) Get(ctx context.Context, key string) (string, error) {
	s.hit()
	return s.Store.Get(ctx, key)
}

func (s *countingStore) GetDel(ctx context.Context, key string) (string, error) {
	s.hit()
	return s.Store.GetDel(ctx, key)
}

func (s *countingStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	s.hit()
	return s.Store.Set(ctx, key, value, ttl)
}

func (s *countingStore) SetNX(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	s.hit()
	return s.Store.SetNX(ctx, key, value, ttl)
}

func (s *countingStore) Delete(ctx context.Context, key string) error {
	s.hit()
	return s.Store.Delete(ctx, key)
}

func (s *countingStore) TTL(ctx context.Context, key string) (time.Duration, error) {
	s.hit()
	return s.Store.TTL(ctx, key)
}

// brokenStore fails every operation
type brokenStore struct{}

var errBroken = errors.New("connection refused")

func (brokenStore) Get(context.Context, string) (string, error)    { return "", errBroken }
func (brokenStore) GetDel(context.Context, string) (string, error) { return "", errBroken }
func (brokenStore) Set(context.Context, string, string, time.Duration) error {
	return errBroken
}
func (brokenStore) SetNX(context.Context, string, string, time.Duration) (bool, error) {
	return false, errBroken
}
func (brokenStore) Delete(context.Context, string) error { return errBroken }
func (brokenStore) TTL(context.Context, string) (time.Duration, error) {
	return 0, errBroken
}

type fixture struct {
	svc      *Service
	store    *kvstore.MemoryStore
	clock    *fakeClock
	gen      *fakeGenerator
	notifier *fakeNotifier
}

func newFixture() *fixture {
	clock := newFakeClock()
	store := kvstore.NewMemoryStore(kvstore.WithClock(clock.Now))
	gen := &fakeGenerator{text: "a1b2", code: "123456"}
	notifier := &fakeNotifier{}
	return &fixture{
		svc:      NewService(store, gen, fakeRenderer{}, notifier, nil, DefaultConfig()),
		store:    store,
		clock:    clock,
		gen:      gen,
		notifier: notifier,
	}
}
