// Package service provides business logic implementations.
package service

import "errors"

// Error kinds returned to callers. Each maps to a distinct HTTP status
// so clients can tell "try later" from "add funds" from "pick another
// game". Only ErrContention is safe to retry automatically.
var (
	ErrScansDisabled     = errors.New("scans are disabled")
	ErrGameDisabled      = errors.New("game is disabled")
	ErrInsufficientFunds = errors.New("insufficient wallet balance")
	ErrContention        = errors.New("concurrent scan in progress, retry")
	ErrUserNotFound      = errors.New("user not found")
	ErrGameNotFound      = errors.New("game not found")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrInvalidAmount      = errors.New("amount must be positive")
)
