package model

// TrailLength bounds Ball.Trail; the oldest position is evicted first.
const TrailLength = 25

// Body is the movable shape shared by the ball and the pins.
type Body struct {
	Pos    Vector2D `json:"pos"`
	Vel    Vector2D `json:"vel"`
	Radius float64  `json:"radius"`
	Active bool     `json:"active"`
}

// Speed returns the magnitude of the body's velocity.
func (b Body) Speed() float64 {
	return b.Vel.Length()
}

// Touches reports whether two bodies overlap.
func (b Body) Touches(o Body) bool {
	return b.Pos.Distance(o.Pos) < b.Radius+o.Radius
}

// Ball is the single thrown ball. It is recreated between throws.
type Ball struct {
	Body
	Power float64     `json:"power"`
	Curve float64     `json:"curve"`
	Type  PowerUpKind `json:"type,omitempty"`
	Trail []Vector2D  `json:"trail,omitempty"`
}

// PushTrail appends p and drops the oldest entries beyond TrailLength.
func (b *Ball) PushTrail(p Vector2D) {
	b.Trail = append(b.Trail, p)
	if n := len(b.Trail) - TrailLength; n > 0 {
		b.Trail = append(b.Trail[:0], b.Trail[n:]...)
	}
}

// Pin is one of the ten pins of a rack.
type Pin struct {
	Body
	ID      int     `json:"id"`
	Knocked bool    `json:"knocked"`
	Angle   float64 `json:"angle"`
}

// Standing reports whether the pin still counts toward the standing total.
func (p Pin) Standing() bool {
	return p.Active && !p.Knocked
}
