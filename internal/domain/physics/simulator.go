package physics

import (
	"math"

	"github.com/okian/neonstrike/internal/domain/model"
)

// StepResult reports what happened during one Step.
type StepResult struct {
	Settled  bool            // the throw concluded this tick
	Knocked  int             // pins knocked this throw, set when Settled
	Contacts []model.CueKind // collisions that happened this tick
}

// Simulator owns the ball and the pins. It is not safe for concurrent use.
type Simulator struct {
	tuning Tuning

	ball  model.Ball
	pins  []model.Pin
	phase model.Phase

	aimX    float64
	size    model.BallSize
	powerUp model.PowerUpKind

	standingAtStart int
	rollTicks       int
}

// New returns a simulator with a full rack and the ball aimed at the lane center.
func New(t Tuning) *Simulator {
	s := &Simulator{tuning: t, size: model.SizeMedium}
	s.Reset()
	return s
}

// Reset restores a full rack, clears the power-up and re-centers the aim.
// The selected ball size is kept.
func (s *Simulator) Reset() {
	s.pins = NewRack(s.tuning)
	s.standingAtStart = RackSize
	s.powerUp = model.PowerUpNone
	s.aimX = s.tuning.LaneCenter()
	s.resetBall()
}

// Tuning returns the simulator's tuning.
func (s *Simulator) Tuning() Tuning { return s.tuning }

// Phase returns the current throw phase.
func (s *Simulator) Phase() model.Phase { return s.phase }

// AimX returns the clamped aim position.
func (s *Simulator) AimX() float64 { return s.aimX }

// Size returns the selected ball size tier.
func (s *Simulator) Size() model.BallSize { return s.size }

// PowerUp returns the power-up applied to the next (or current) throw.
func (s *Simulator) PowerUp() model.PowerUpKind { return s.powerUp }

// StandingPins returns the number of pins still standing.
func (s *Simulator) StandingPins() int { return countStanding(s.pins) }

// Ball returns a copy of the ball.
func (s *Simulator) Ball() model.Ball {
	b := s.ball
	b.Trail = append([]model.Vector2D(nil), s.ball.Trail...)
	return b
}

// Pins returns a copy of the pins in the rack.
func (s *Simulator) Pins() []model.Pin {
	return append([]model.Pin(nil), s.pins...)
}

// radius is the radius the next ball is built with.
func (s *Simulator) radius() float64 {
	return s.tuning.BallRadius * SizeMultiplier(s.size) * EffectOf(s.powerUp).RadiusMult
}

func (s *Simulator) clampAim(x, r float64) float64 {
	return math.Max(s.tuning.LaneMinX+r, math.Min(s.tuning.LaneMaxX-r, x))
}

// resetBall recreates the ball at the foul line and returns to AIMING.
func (s *Simulator) resetBall() {
	r := s.radius()
	s.aimX = s.clampAim(s.aimX, r)
	s.ball = model.Ball{
		Body: model.Body{Pos: model.Vector2D{X: s.aimX, Y: s.tuning.BallStartY}, Radius: r},
		Type: s.powerUp,
	}
	s.phase = model.PhaseAiming
	s.rollTicks = 0
}

// SetAim moves the aim line. It is accepted while aiming, and while rolling
// when the active power-up homes the ball toward the aim line.
func (s *Simulator) SetAim(x float64) bool {
	switch {
	case s.phase == model.PhaseAiming:
		s.aimX = s.clampAim(x, s.ball.Radius)
		s.ball.Pos.X = s.aimX
		return true
	case s.phase == model.PhaseRolling && EffectOf(s.powerUp).Homing > 0:
		s.aimX = s.clampAim(x, s.ball.Radius)
		return true
	}
	return false
}

// SetBallSize selects the size tier. While aiming the ball is rebuilt at once;
// otherwise the size applies from the next throw.
func (s *Simulator) SetBallSize(size model.BallSize) {
	s.size = size
	if s.phase == model.PhaseAiming {
		s.resetBall()
	}
}

// SetPowerUp sets the active power-up (PowerUpNone clears it). While aiming the
// ball is rebuilt with the new radius; a rolling ball keeps its shape.
func (s *Simulator) SetPowerUp(kind model.PowerUpKind) {
	s.powerUp = kind
	if s.phase == model.PhaseAiming {
		s.resetBall()
	}
}

// Launch releases the ball with power and spin percentages. It is ignored
// unless the simulator is aiming.
func (s *Simulator) Launch(power, spin float64) bool {
	if s.phase != model.PhaseAiming {
		return false
	}
	t := s.tuning
	eff := EffectOf(s.powerUp)

	speed := (t.BaseSpeed + power/100*t.SpeedRange) * eff.SpeedMult
	curve := (s.aimX-t.LaneCenter())/t.CurveOffset + spin/50*t.CurveSpin

	r := s.radius()
	s.aimX = s.clampAim(s.aimX, r)
	s.ball = model.Ball{
		Body: model.Body{
			Pos:    model.Vector2D{X: s.aimX, Y: t.BallStartY},
			Vel:    model.Vector2D{X: curve * t.LaunchLateral, Y: -speed},
			Radius: r,
			Active: true,
		},
		Power: power,
		Curve: curve,
		Type:  s.powerUp,
	}
	s.standingAtStart = countStanding(s.pins)
	s.rollTicks = 0
	s.phase = model.PhaseRolling
	return true
}

// Step advances the simulation by one tick. Pins keep moving in every phase;
// the ball only moves while rolling.
func (s *Simulator) Step() StepResult {
	var res StepResult
	if s.phase != model.PhaseRolling {
		s.integratePins()
		return res
	}

	speed := s.ball.Speed()
	s.integrateBall()
	s.rollTicks++

	if s.settled(speed) {
		s.integratePins()
		s.ball.Active = false
		s.phase = model.PhaseSettled
		res.Settled = true
		res.Knocked = s.standingAtStart - countStanding(s.pins)
		if res.Knocked < 0 {
			res.Knocked = 0
		}
		return res
	}

	s.integratePins()
	res.Contacts = s.collide(res.Contacts)
	return res
}

func (s *Simulator) settled(speed float64) bool {
	t := s.tuning
	y := s.ball.Pos.Y
	return y < t.ExitY ||
		(speed < t.SettleSpeed && y < t.PinStartY+t.SettleRegion) ||
		s.rollTicks >= t.MaxRollTicks
}

func (s *Simulator) integrateBall() {
	t := s.tuning
	b := &s.ball
	b.PushTrail(b.Pos)

	// hook grows with the distance traveled from the foul line
	traveled := (t.BallStartY - b.Pos.Y) / t.BallStartY
	b.Vel.X -= b.Curve * t.HookFactor * traveled

	b.Pos = b.Pos.Add(b.Vel)
	b.Vel = b.Vel.Scale(t.Friction)

	if h := EffectOf(s.powerUp).Homing; h > 0 {
		b.Vel.X += (s.aimX - b.Pos.X) * h
	}
}

func (s *Simulator) integratePins() {
	t := s.tuning
	for i := range s.pins {
		p := &s.pins[i]
		if !p.Active {
			continue
		}
		p.Pos = p.Pos.Add(p.Vel)
		p.Vel = p.Vel.Scale(t.PinFriction)
		if p.Knocked {
			p.Angle += (math.Abs(p.Vel.X) + math.Abs(p.Vel.Y)) * t.SpinRate
		}
		if p.Pos.X < -t.OutOfBounds || p.Pos.X > t.Width+t.OutOfBounds ||
			p.Pos.Y < -t.OutOfBounds || p.Pos.Y > t.Height+t.OutOfBounds {
			p.Active = false
		}
	}
}

// collide resolves wall, ball-pin and pin-pin contacts in that order.
func (s *Simulator) collide(contacts []model.CueKind) []model.CueKind {
	t := s.tuning
	b := &s.ball

	switch {
	case b.Pos.X-b.Radius < t.LaneMinX:
		b.Pos.X = t.LaneMinX + b.Radius
		s.bounceWall()
		contacts = append(contacts, model.CueBallWall)
	case b.Pos.X+b.Radius > t.LaneMaxX:
		b.Pos.X = t.LaneMaxX - b.Radius
		s.bounceWall()
		contacts = append(contacts, model.CueBallWall)
	}

	eff := EffectOf(b.Type)
	for i := range s.pins {
		pin := &s.pins[i]
		if !pin.Standing() || !b.Touches(pin.Body) {
			continue
		}
		contacts = append(contacts, model.CueBallPin)
		normal := pin.Pos.Sub(b.Pos).Normalize()
		pin.Vel = normal.Scale(b.Speed() * eff.ImpactForce)
		pin.Knocked = true
		if eff.BlastRadius > 0 {
			s.blast(pin.Pos, eff)
		}
		b.Vel = b.Vel.Scale(eff.Restitution)
	}

	for i := 0; i < len(s.pins); i++ {
		for j := i + 1; j < len(s.pins); j++ {
			p1, p2 := &s.pins[i], &s.pins[j]
			if !p1.Active || !p2.Active || !p1.Touches(p2.Body) {
				continue
			}
			n := p1.Pos.Sub(p2.Pos).Normalize().Scale(t.PinPinImpulse)
			p1.Vel = p1.Vel.Add(n)
			p2.Vel = p2.Vel.Sub(n)
			if !p1.Knocked || !p2.Knocked {
				contacts = append(contacts, model.CuePinPin)
			}
			p1.Knocked, p2.Knocked = true, true
		}
	}
	return contacts
}

func (s *Simulator) bounceWall() {
	s.ball.Vel.X *= -s.tuning.WallRestitution
	s.ball.Curve *= -s.tuning.WallCurveDamp
}

// blast knocks every standing pin within the effect radius of origin outward.
func (s *Simulator) blast(origin model.Vector2D, eff Effect) {
	for i := range s.pins {
		p := &s.pins[i]
		if !p.Standing() || p.Pos.Distance(origin) >= eff.BlastRadius {
			continue
		}
		p.Knocked = true
		p.Vel = p.Pos.Sub(origin).Normalize().Scale(eff.BlastSpeed)
	}
}

// PrepareNextThrow readies the lane after a settled throw: a full rack when
// respawn is set, otherwise only the pins still standing. The ball is rebuilt
// for aiming.
func (s *Simulator) PrepareNextThrow(respawn bool) {
	if respawn {
		s.pins = NewRack(s.tuning)
	} else {
		standing := s.pins[:0]
		for _, p := range s.pins {
			if p.Standing() {
				p.Vel = model.Vector2D{}
				standing = append(standing, p)
			}
		}
		s.pins = standing
	}
	s.standingAtStart = countStanding(s.pins)
	s.resetBall()
}
