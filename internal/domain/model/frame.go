package model

// FrameResult is one frame of one player's card.
// IsStrike and IsSpare are only set for frames 1-9.
type FrameResult struct {
	Throws          []int `json:"throws"`
	IsStrike        bool  `json:"is_strike"`
	IsSpare         bool  `json:"is_spare"`
	CumulativeScore int   `json:"cumulative_score"`
}

// Pins returns the sum of the frame's throws.
func (f FrameResult) Pins() int {
	total := 0
	for _, t := range f.Throws {
		total += t
	}
	return total
}

// CloneHistory deep-copies a frame history so callers cannot mutate live state.
func CloneHistory(h []FrameResult) []FrameResult {
	out := make([]FrameResult, len(h))
	for i, f := range h {
		out[i] = f
		out[i].Throws = append([]int(nil), f.Throws...)
	}
	return out
}

// EventKind tags a scoring event.
type EventKind string

// Scoring event kinds. Exactly one is emitted per throw.
const (
	EventStrike EventKind = "STRIKE"
	EventSpare  EventKind = "SPARE"
	EventPinHit EventKind = "PIN_HIT"
)

// ScoringEvent is emitted after every recorded throw for the charge meter.
type ScoringEvent struct {
	Kind   EventKind `json:"kind"`
	Count  int       `json:"count"`
	Player int       `json:"player"`
	Frame  int       `json:"frame"`
}

// CueKind identifies an audio cue.
type CueKind string

// Audio cue kinds.
const (
	CueBallWall         CueKind = "BALL_WALL"
	CueBallPin          CueKind = "BALL_PIN"
	CuePinPin           CueKind = "PIN_PIN"
	CueStrike           CueKind = "STRIKE"
	CuePowerUpActivated CueKind = "POWERUP_ACTIVATED"
	CuePowerUpExpired   CueKind = "POWERUP_EXPIRED"
)

// Cue is a fire-and-forget trigger for the audio collaborator.
type Cue struct {
	Kind    CueKind `json:"kind"`
	MatchID string  `json:"match_id"`
	Tick    uint64  `json:"tick"`
}
