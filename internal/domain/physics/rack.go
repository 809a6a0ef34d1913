package physics

import "github.com/okian/neonstrike/internal/domain/model"

// RackSize is the number of pins in a full rack.
const RackSize = 10

// NewRack lays out ten pins in rows of 1, 2, 3 and 4. The head pin (id 0) is
// nearest the foul line; the back row sits at PinStartY.
func NewRack(t Tuning) []model.Pin {
	pins := make([]model.Pin, 0, RackSize)
	center := t.LaneCenter()
	id := 0
	for row := 0; row < 4; row++ {
		startX := center - float64(row)*t.PinSpacingX/2
		for i := 0; i <= row; i++ {
			pins = append(pins, model.Pin{
				Body: model.Body{
					Pos:    model.Vector2D{X: startX + float64(i)*t.PinSpacingX, Y: t.PinStartY + float64(3-row)*t.PinSpacingY},
					Radius: t.PinRadius,
					Active: true,
				},
				ID: id,
			})
			id++
		}
	}
	return pins
}

func countStanding(pins []model.Pin) int {
	n := 0
	for i := range pins {
		if pins[i].Standing() {
			n++
		}
	}
	return n
}
