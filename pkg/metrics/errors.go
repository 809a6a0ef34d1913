package metrics

import "errors"

// Sentinel kinds for rejected observations.
var (
	ErrUnknownOutcome = errors.New("metrics: unknown throw outcome")
	ErrPinCount       = errors.New("metrics: pin count out of range")
)
