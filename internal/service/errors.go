package service

import "errors"

// Domain sentinels. Every business-rule failure a caller can act on is one of
// these values — handlers map them to HTTP statuses with errors.Is, so the UI
// never has to parse message strings. Infrastructure errors pass through
// unwrapped and render as a generic 500.
var (
	ErrDuplicateName        = errors.New("a register with this name already exists in the branch")
	ErrRegisterNotFound     = errors.New("cash register not found")
	ErrRegisterInactive     = errors.New("cash register is inactive")
	ErrHasOpenSession       = errors.New("cash register has an open session")
	ErrSessionNotFound      = errors.New("cash register session not found")
	ErrSessionAlreadyOpen   = errors.New("register already has an open session")
	ErrSessionAlreadyClosed = errors.New("session is already closed")
	ErrSessionClosed        = errors.New("session is closed; movements can no longer be recorded")
	ErrInvalidAmount        = errors.New("amount must be strictly positive")
	ErrInvalidMovement      = errors.New("unrecognized movement type or payment method")
)
