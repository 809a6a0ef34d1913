package opponent

import "golang.org/x/exp/rand"

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithSeed makes the aim offsets reproducible.
func WithSeed(seed uint64) Option {
	return func(c *Controller) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithPickTicks sets the delay before the computer picks its aim.
func WithPickTicks(ticks int) Option {
	return func(c *Controller) {
		if ticks >= 0 {
			c.pickTicks = ticks
		}
	}
}

// WithLaunchTicks sets the delay between aiming and launching.
func WithLaunchTicks(ticks int) Option {
	return func(c *Controller) {
		if ticks >= 0 {
			c.launchTicks = ticks
		}
	}
}

// WithAimSpread sets the width of the random aim offset around the center.
func WithAimSpread(spread float64) Option {
	return func(c *Controller) {
		if spread >= 0 {
			c.spread = spread
		}
	}
}
