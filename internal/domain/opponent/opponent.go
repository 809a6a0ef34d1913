// Package opponent drives computer-controlled turns on a fixed tick schedule.
package opponent

import (
	"golang.org/x/exp/rand"
)

// Default schedule at 60 ticks per second.
const (
	defaultPickTicks   = 60
	defaultLaunchTicks = 48
	defaultAimSpread   = 120
)

// Action is what the computer does on a tick.
type Action struct {
	Aim    bool
	AimX   float64
	Launch bool
}

type state int

const (
	idle state = iota
	picking
	launching
)

// Controller waits pickTicks, aims with a random offset around the lane
// center, waits launchTicks and launches. It is not safe for concurrent use.
type Controller struct {
	rng         *rand.Rand
	pickTicks   int
	launchTicks int
	spread      float64

	state     state
	countdown int
}

// New returns a controller with the default schedule and seed 1.
func New(opts ...Option) *Controller {
	c := &Controller{
		rng:         rand.New(rand.NewSource(1)),
		pickTicks:   defaultPickTicks,
		launchTicks: defaultLaunchTicks,
		spread:      defaultAimSpread,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tick advances the schedule by one tick. center is the lane center line.
func (c *Controller) Tick(center float64) Action {
	switch c.state {
	case idle:
		c.state = picking
		c.countdown = c.pickTicks
		return c.Tick(center)
	case picking:
		if c.countdown > 0 {
			c.countdown--
			return Action{}
		}
		c.state = launching
		c.countdown = c.launchTicks
		return Action{Aim: true, AimX: center + (c.rng.Float64()-0.5)*c.spread}
	case launching:
		if c.countdown > 0 {
			c.countdown--
			return Action{}
		}
		c.state = idle
		return Action{Launch: true}
	}
	return Action{}
}

// Busy reports whether a turn is scheduled.
func (c *Controller) Busy() bool { return c.state != idle }

// Cancel drops any scheduled aim or launch.
func (c *Controller) Cancel() {
	c.state = idle
	c.countdown = 0
}
