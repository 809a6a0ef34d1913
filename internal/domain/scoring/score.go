// Package scoring implements ten-pin scoring and turn progression.
package scoring

import "github.com/okian/neonstrike/internal/domain/model"

// Game shape constants.
const (
	MaxFrames = 10
	FullRack  = 10
)

// Score walks the flattened throws of history, stores the running total on
// every frame and returns the final total. Bonus throws that have not been
// bowled yet count as 0, so strike and spare values are provisional.
func Score(history []model.FrameResult) int {
	var throws []int
	for _, f := range history {
		throws = append(throws, f.Throws...)
	}
	at := func(i int) int {
		if i < len(throws) {
			return throws[i]
		}
		return 0
	}

	total, ptr := 0, 0
	for i := range history {
		f := &history[i]
		if i == MaxFrames-1 {
			total += f.Pins()
			f.CumulativeScore = total
			break
		}
		switch {
		case f.IsStrike:
			total += FullRack + at(ptr+1) + at(ptr+2)
			ptr++
		case f.IsSpare:
			total += FullRack + at(ptr+2)
			ptr += 2
		default:
			total += at(ptr) + at(ptr+1)
			ptr += 2
		}
		f.CumulativeScore = total
	}
	return total
}
