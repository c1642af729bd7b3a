// Package lock provides keyed locking for scan attempts. Two concurrent
// attempts by the same user against the same game must be serialized;
// attempts on different keys proceed in parallel.
package lock

import (
	"context"
	"sync"
	"time"
)

// Key identifies one serialization domain: a (user, game) pair.
type Key struct {
	UserID int64
	GameID int64
}

// keyMutex wraps a mutex with reference counting for pooling.
type keyMutex struct {
	mu       sync.Mutex
	refCount int
}

// KeyedLock serializes operations per (user, game) key.
type KeyedLock struct {
	locks sync.Map // map[Key]*keyMutex
	pool  sync.Pool
}

// NewKeyedLock creates a new KeyedLock instance.
func NewKeyedLock() *KeyedLock {
	return &KeyedLock{
		pool: sync.Pool{
			New: func() any {
				return &keyMutex{}
			},
		},
	}
}

// getLock retrieves or creates the mutex for the given key.
func (kl *KeyedLock) getLock(key Key) *keyMutex {
	if v, ok := kl.locks.Load(key); ok {
		return v.(*keyMutex)
	}

	newLock := kl.pool.Get().(*keyMutex)
	newLock.refCount = 0

	actual, loaded := kl.locks.LoadOrStore(key, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		kl.pool.Put(newLock)
	}
	return actual.(*keyMutex)
}

// Lock acquires the lock for a key, blocking until it is available.
func (kl *KeyedLock) Lock(key Key) {
	lock := kl.getLock(key)
	lock.mu.Lock()
	lock.refCount++
}

// Unlock releases the lock for a key.
func (kl *KeyedLock) Unlock(key Key) {
	if v, ok := kl.locks.Load(key); ok {
		lock := v.(*keyMutex)
		lock.refCount--
		lock.mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (kl *KeyedLock) TryLock(key Key) bool {
	lock := kl.getLock(key)
	if lock.mu.TryLock() {
		lock.refCount++
		return true
	}
	return false
}

// Acquire attempts to acquire the lock within the given wait bound.
// Returns ErrLockTimeout if the key stays contended for the whole wait,
// so callers can surface a retryable error instead of hanging.
func (kl *KeyedLock) Acquire(ctx context.Context, key Key, wait time.Duration) error {
	lock := kl.getLock(key)

	done := make(chan struct{})
	go func() {
		lock.mu.Lock()
		close(done)
	}()

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()

	select {
	case <-done:
		lock.refCount++
		return nil
	case <-waitCtx.Done():
		// The acquiring goroutine will eventually get the mutex; release
		// it as soon as that happens so the key is not leaked.
		go func() {
			<-done
			lock.mu.Unlock()
		}()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrLockTimeout
	}
}

// WithLock executes fn while holding the key's lock, bounded by wait.
func (kl *KeyedLock) WithLock(ctx context.Context, key Key, wait time.Duration, fn func() error) error {
	if err := kl.Acquire(ctx, key, wait); err != nil {
		return err
	}
	defer kl.Unlock(key)
	return fn()
}
