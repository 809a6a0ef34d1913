package scoring

import "errors"

// Sentinel errors returned by the Machine.
var (
	ErrGameOver     = errors.New("scoring: game is over")
	ErrInvalidCount = errors.New("scoring: knocked count out of range")
)
