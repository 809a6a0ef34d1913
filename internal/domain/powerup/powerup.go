// Package powerup tracks the active power-up's duration and the charge meter
// that gates activation.
package powerup

import "github.com/okian/neonstrike/internal/domain/model"

// Charge meter constants.
const (
	MaxCharge       = 100
	StrikeCharge    = 35
	SpareCharge     = 20
	PinHitCharge    = 2 // per pin
	DefaultDuration = 300
)

// Timer counts down the active power-up, one tick at a time.
type Timer struct {
	duration  int
	kind      model.PowerUpKind
	remaining int
}

// NewTimer returns a timer granting duration ticks per activation.
func NewTimer(duration int) *Timer {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Timer{duration: duration}
}

// Activate starts kind for the full duration, replacing any active power-up.
func (t *Timer) Activate(kind model.PowerUpKind) {
	t.kind = kind
	t.remaining = t.duration
}

// Tick decrements the counter and returns the kind that expired on this
// tick, or PowerUpNone.
func (t *Timer) Tick() model.PowerUpKind {
	if t.kind == model.PowerUpNone {
		return model.PowerUpNone
	}
	t.remaining--
	if t.remaining > 0 {
		return model.PowerUpNone
	}
	expired := t.kind
	t.Reset()
	return expired
}

// Active returns the active kind.
func (t *Timer) Active() model.PowerUpKind { return t.kind }

// Remaining returns the ticks left on the active power-up.
func (t *Timer) Remaining() int { return t.remaining }

// Reset clears the active power-up.
func (t *Timer) Reset() {
	t.kind = model.PowerUpNone
	t.remaining = 0
}

// Meter accumulates charge from scoring events.
type Meter struct {
	charge int
}

// Apply adds the charge earned by e, clamped to MaxCharge, and returns the new level.
func (m *Meter) Apply(e model.ScoringEvent) int {
	switch e.Kind {
	case model.EventStrike:
		m.charge += StrikeCharge
	case model.EventSpare:
		m.charge += SpareCharge
	case model.EventPinHit:
		m.charge += PinHitCharge * e.Count
	}
	m.charge = min(m.charge, MaxCharge)
	return m.charge
}

// Charge returns the current level.
func (m *Meter) Charge() int { return m.charge }

// Ready reports whether a power-up may be activated.
func (m *Meter) Ready() bool { return m.charge >= MaxCharge }

// Spend drains a full meter and reports whether it was full. A partial meter
// is left untouched.
func (m *Meter) Spend() bool {
	if !m.Ready() {
		return false
	}
	m.charge = 0
	return true
}

// Reset empties the meter.
func (m *Meter) Reset() { m.charge = 0 }
