// Package physics simulates one ball against a pin rack, one tick at a time.
package physics

import (
	"fmt"
	"math"
)

// Tuning holds the lane geometry and the physics tunables.
// Units are lane pixels and ticks.
type Tuning struct {
	Width      float64
	Height     float64
	LaneMinX   float64
	LaneMaxX   float64
	BallStartY float64
	PinStartY  float64
	BallRadius float64
	PinRadius  float64

	Friction    float64 // applied to ball velocity every tick
	PinFriction float64 // applied to pin velocity every tick

	BaseSpeed     float64 // forward speed at 0% power
	SpeedRange    float64 // added forward speed at 100% power
	CurveOffset   float64 // lateral aim offset divisor for curve
	CurveSpin     float64 // curve gained at 50% spin
	LaunchLateral float64 // initial lateral velocity per unit of curve
	HookFactor    float64

	WallRestitution float64
	WallCurveDamp   float64
	PinPinImpulse   float64

	PinSpacingX float64
	PinSpacingY float64

	ExitY        float64 // ball settles once above this line
	SettleSpeed  float64 // ball settles below this speed inside the settle region
	SettleRegion float64 // depth below PinStartY where a stopped ball settles
	OutOfBounds  float64 // margin around the canvas before a pin is removed
	SpinRate     float64 // knocked pin rotation per unit of speed
	MaxRollTicks int     // a rolling ball settles after this many ticks regardless
}

// DefaultTuning returns the reference lane.
func DefaultTuning() Tuning {
	return Tuning{
		Width:      600,
		Height:     800,
		LaneMinX:   100,
		LaneMaxX:   500,
		BallStartY: 680,
		PinStartY:  180,
		BallRadius: 20,
		PinRadius:  12,

		Friction:    0.985,
		PinFriction: 0.95,

		BaseSpeed:     10,
		SpeedRange:    15,
		CurveOffset:   20,
		CurveSpin:     5,
		LaunchLateral: 0.4,
		HookFactor:    0.15,

		WallRestitution: 0.7,
		WallCurveDamp:   0.8,
		PinPinImpulse:   1.1,

		PinSpacingX: 44,
		PinSpacingY: 42,

		ExitY:        -80,
		SettleSpeed:  0.1,
		SettleRegion: 200,
		OutOfBounds:  150,
		SpinRate:     0.1,
		MaxRollTicks: 1200,
	}
}

// LaneCenter returns the x coordinate of the lane's center line.
func (t Tuning) LaneCenter() float64 {
	return (t.LaneMinX + t.LaneMaxX) / 2
}

// MaxBallRadius is the largest radius a ball can reach: the largest size tier
// under the largest power-up.
func (t Tuning) MaxBallRadius() float64 {
	size, power := 0.0, 0.0
	for _, m := range sizeMultipliers {
		size = math.Max(size, m)
	}
	for _, e := range effects {
		power = math.Max(power, e.RadiusMult)
	}
	return t.BallRadius * size * power
}

// PinGap is the distance between the centers of the closest pins in a rack.
func (t Tuning) PinGap() float64 {
	return math.Min(t.PinSpacingX, math.Hypot(t.PinSpacingX/2, t.PinSpacingY))
}

// Validate rejects geometry where a fresh rack already collides or where the
// largest ball no longer fits between the lane walls.
func (t Tuning) Validate() error {
	if 2*t.PinRadius >= t.PinGap() {
		return fmt.Errorf("%w: pin radius %g overlaps a rack spaced %g apart", ErrInvalidTuning, t.PinRadius, t.PinGap())
	}
	if width := t.LaneMaxX - t.LaneMinX; 2*t.MaxBallRadius() >= width {
		return fmt.Errorf("%w: ball radius up to %g does not fit a lane %g wide", ErrInvalidTuning, t.MaxBallRadius(), width)
	}
	return nil
}
