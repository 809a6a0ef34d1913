package service

import "errors"

// Sentinel errors returned by the session service.
var (
	ErrNotStarted     = errors.New("service not started")
	ErrMatchNotFound  = errors.New("match not found")
	ErrTooManyMatches = errors.New("too many matches")
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidMode    = errors.New("invalid game mode")
)
