package autoplay

import (
	"fmt"

	"github.com/okian/neonstrike/internal/domain/model"
)

const (
	frames  = 10
	fullSet = 10
)

// referenceTotals scores a finished card from its flattened rolls, frame by
// frame, the way a paper scoresheet does. It shares no code with the scoring
// machine so the two can check each other.
func referenceTotals(card []model.FrameResult) []int {
	var rolls []int
	for _, f := range card {
		rolls = append(rolls, f.Throws...)
	}
	at := func(i int) int {
		if i < len(rolls) {
			return rolls[i]
		}
		return 0
	}

	totals := make([]int, 0, frames)
	total, i := 0, 0
	for f := 0; f < frames && i < len(rolls); f++ {
		switch {
		case at(i) == fullSet:
			total += fullSet + at(i+1) + at(i+2)
			i++
		case at(i)+at(i+1) == fullSet:
			total += fullSet + at(i+2)
			i += 2
		default:
			total += at(i) + at(i+1)
			i += 2
		}
		totals = append(totals, total)
	}
	return totals
}

// verifyCard checks a finished card: ten frames, legal throw counts, and
// cumulative scores that agree with the reference walk.
func verifyCard(card []model.FrameResult) error {
	if len(card) != frames {
		return fmt.Errorf("recorded %d frames, want %d", len(card), frames)
	}
	for i, f := range card {
		limit := 2
		if i == frames-1 {
			limit = 3
		}
		if n := len(f.Throws); n == 0 || n > limit {
			return fmt.Errorf("frame %d has %d throws", i+1, n)
		}
		for _, t := range f.Throws {
			if t < 0 || t > fullSet {
				return fmt.Errorf("frame %d has an impossible throw %d", i+1, t)
			}
		}
	}

	want := referenceTotals(card)
	if len(want) != frames {
		return fmt.Errorf("reference walk scored %d frames", len(want))
	}
	for i, f := range card {
		if f.CumulativeScore != want[i] {
			return fmt.Errorf("frame %d cumulative %d, reference %d", i+1, f.CumulativeScore, want[i])
		}
	}
	return nil
}

// tally counts strikes, spares and gutter balls on a card.
func tally(card []model.FrameResult) (strikes, spares, gutters int) {
	for i, f := range card {
		for j, t := range f.Throws {
			if t == 0 {
				gutters++
			}
			if i == frames-1 {
				continue
			}
			if j == 0 && t == fullSet {
				strikes++
			}
		}
		if i < frames-1 && f.IsSpare {
			spares++
		}
		if i == frames-1 {
			s, p := tenthMarks(f.Throws)
			strikes += s
			spares += p
		}
	}
	return strikes, spares, gutters
}

// tenthMarks counts marks in the tenth frame, where the rack resets after
// every strike or spare.
func tenthMarks(throws []int) (strikes, spares int) {
	standing := fullSet
	for _, t := range throws {
		switch {
		case t == fullSet && standing == fullSet:
			strikes++
		case t == standing:
			spares++
		}
		standing -= t
		if standing == 0 {
			standing = fullSet
		}
	}
	return strikes, spares
}
