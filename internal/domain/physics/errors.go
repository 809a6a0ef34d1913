package physics

import "errors"

// ErrInvalidTuning reports lane geometry the simulator cannot honor.
var ErrInvalidTuning = errors.New("invalid physics tuning")
