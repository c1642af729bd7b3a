package lock

import "errors"

// Lock-related errors.
var (
	// ErrLockTimeout is returned when a lock cannot be acquired within the wait bound.
	ErrLockTimeout = errors.New("lock acquisition timeout")
)
