package repository

import "errors"

// Sentinel kinds for high score errors.
var (
	ErrNotFound     = errors.New("score entry not found")
	ErrInvalidLimit = errors.New("invalid high score limit")
	ErrInvalidEntry = errors.New("invalid score entry")
)
