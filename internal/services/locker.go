package services

import (
	"context"
	"sync"
)

// KeyLocker serializes work on a key such as "room:<id>". The Redis
// implementation spans instances; LocalLocker covers a single process.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func roomLockKey(roomID string) string       { return "room:" + roomID }
func paymentLockKey(bookingID string) string { return "payment:" + bookingID }

type localEntry struct {
	ch   chan struct{}
	refs int
}

type LocalLocker struct {
	mu      sync.Mutex
	entries map[string]*localEntry
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{entries: make(map[string]*localEntry)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &localEntry{ch: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e, false)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() { once.Do(func() { l.release(key, e, true) }) }, nil
}

func (l *LocalLocker) release(key string, e *localEntry, held bool) {
	if held {
		<-e.ch
	}
	l.mu.Lock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
	l.mu.Unlock()
}
