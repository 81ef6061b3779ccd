package ratelimit

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	attempts  int
	resetTime time.Time
}

// MemoryLimiter keeps attempt windows in a process-local map. Windows are
// purged lazily on access and in bulk by Cleanup; state is lost on restart.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	max     int
	window  time.Duration
	now     func() time.Time
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*entry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

func (l *MemoryLimiter) IsLimited(ctx context.Context, identifier string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok {
		return false, nil
	}
	if l.now().After(e.resetTime) {
		delete(l.entries, identifier)
		return false, nil
	}
	return e.attempts >= l.max, nil
}

func (l *MemoryLimiter) RecordAttempt(ctx context.Context, identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok || l.now().After(e.resetTime) {
		l.entries[identifier] = &entry{
			attempts:  1,
			resetTime: l.now().Add(l.window),
		}
		return nil
	}
	e.attempts++
	return nil
}

func (l *MemoryLimiter) RemainingTime(ctx context.Context, identifier string) (time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[identifier]
	if !ok {
		return 0, nil
	}
	remaining := e.resetTime.Sub(l.now())
	if remaining < 0 {
		return 0, nil
	}
	return remaining, nil
}

func (l *MemoryLimiter) Reset(ctx context.Context, identifier string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, identifier)
	return nil
}

// Cleanup purges expired windows to bound memory.
func (l *MemoryLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, e := range l.entries {
		if now.After(e.resetTime) {
			delete(l.entries, id)
		}
	}
}

// StartJanitor runs Cleanup on the given interval until the returned stop
// function is called.
func (l *MemoryLimiter) StartJanitor(interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				l.Cleanup()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
