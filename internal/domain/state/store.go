package state

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/GriffinCanCode/procintf/internal/shared/fault"
)

var errReleased = errors.New("context released")

// Store owns the shared context and the debug level
type Store struct {
	sem     *semaphore.Weighted
	data    *record
	level   int
	observe func(time.Duration)
}

// Option configures a Store
type Option func(*Store)

// WithWaitObserver reports how long each successful acquisition waited
func WithWaitObserver(fn func(time.Duration)) Option {
	return func(s *Store) {
		s.observe = fn
	}
}

// WithSecret replaces the default secret
func WithSecret(secret string) Option {
	return func(s *Store) {
		s.data.setSecret(secret)
	}
}

// New allocates a zeroed context, applies its defaults and returns the store
func New(opts ...Option) *Store {
	s := &Store{
		sem:   semaphore.NewWeighted(1),
		data:  newRecord(DefaultSecret),
		level: DebugLevelDefault,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Acquire blocks until the lock is free or ctx is done.
// The returned Guard must be released exactly once.
func (s *Store) Acquire(ctx context.Context) (*Guard, error) {
	start := time.Now()
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fault.New(fault.KindInterrupted, "acquire", err)
	}
	if s.data == nil {
		s.sem.Release(1)
		return nil, fault.New(fault.KindResource, "acquire", errReleased)
	}
	if s.observe != nil {
		s.observe(time.Since(start))
	}
	return &Guard{s: s}, nil
}

// Do runs fn with the lock held and releases it on every return path
func (s *Store) Do(ctx context.Context, fn func(g *Guard) error) error {
	g, err := s.Acquire(ctx)
	if err != nil {
		return err
	}
	defer g.Release()
	return fn(g)
}

// Close releases the context. It waits for the current holder, so no
// guard can observe the record after Close returns. Closing twice is a
// no-op.
func (s *Store) Close() {
	// Background never cancels, so Acquire on the semaphore cannot fail.
	_ = s.sem.Acquire(context.Background(), 1)
	s.data = nil
	s.sem.Release(1)
}

// Closed reports whether Close has run
func (s *Store) Closed() bool {
	_ = s.sem.Acquire(context.Background(), 1)
	defer s.sem.Release(1)
	return s.data == nil
}
