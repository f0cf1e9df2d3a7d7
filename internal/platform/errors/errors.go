package apperrors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNoActiveSession   = errors.New("no active session")
	ErrBridgeUnavailable = errors.New("native bridge unavailable")
	ErrDuplicateSession  = errors.New("session already recorded")
)
