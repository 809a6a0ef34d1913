package queue

import "errors"

// Sentinel errors returned by Enqueue.
var (
	ErrClosed = errors.New("cue queue closed")
	ErrFull   = errors.New("cue queue full")
)
