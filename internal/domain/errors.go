package domain

import "errors"

var (
	ErrUserNotFound = errors.New("user not found")

	// ErrCalculationNotFound covers both missing records and records owned
	// by another user, so ownership is never leaked to the caller.
	ErrCalculationNotFound = errors.New("calculation not found")
)
