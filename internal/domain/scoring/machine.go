package scoring

import (
	"fmt"

	"github.com/okian/neonstrike/internal/domain/model"
)

// Outcome describes what a recorded throw did to the match.
type Outcome struct {
	Event         model.ScoringEvent
	FrameComplete bool // the bowler's frame ended; the turn moved on
	Respawn       bool // the next throw starts from a full rack
	GameOver      bool
}

// Machine tracks every player's frames, the current frame and player, and
// game over. It is not safe for concurrent use.
type Machine struct {
	mode      model.GameMode
	frame     int
	player    int
	histories [][]model.FrameResult
	gameOver  bool
}

// NewMachine returns a machine at frame 1, player 1.
func NewMachine(mode model.GameMode) *Machine {
	m := &Machine{mode: mode}
	m.Reset()
	return m
}

// Reset clears every history and returns to frame 1, player 1.
func (m *Machine) Reset() {
	m.frame = 1
	m.player = 1
	m.gameOver = false
	m.histories = make([][]model.FrameResult, m.mode.Players())
}

// Mode returns the game mode.
func (m *Machine) Mode() model.GameMode { return m.mode }

// Frame returns the current frame number (1-10).
func (m *Machine) Frame() int { return m.frame }

// Player returns the player to throw next (1 or 2).
func (m *Machine) Player() int { return m.player }

// GameOver reports whether the match reached its terminal state.
func (m *Machine) GameOver() bool { return m.gameOver }

// History returns a copy of a player's frames; player is 1-based.
func (m *Machine) History(player int) []model.FrameResult {
	if player < 1 || player > len(m.histories) {
		return nil
	}
	return model.CloneHistory(m.histories[player-1])
}

// Scores returns every player's current total.
func (m *Machine) Scores() []int {
	out := make([]int, len(m.histories))
	for i, h := range m.histories {
		if n := len(h); n > 0 {
			out[i] = h[n-1].CumulativeScore
		}
	}
	return out
}

// Winner returns the winning player at game over, 0 for a draw or while the
// game is still running. A single player always wins their own game.
func (m *Machine) Winner() int {
	if !m.gameOver {
		return 0
	}
	if m.mode.Players() == 1 {
		return 1
	}
	s := m.Scores()
	switch {
	case s[0] > s[1]:
		return 1
	case s[1] > s[0]:
		return 2
	}
	return 0
}

// current returns the frame being bowled by the current player, or nil when
// it has not been started yet.
func (m *Machine) current() *model.FrameResult {
	h := m.histories[m.player-1]
	if len(h) < m.frame {
		return nil
	}
	return &h[m.frame-1]
}

// PinsStanding returns how many pins the next throw faces.
func (m *Machine) PinsStanding() int {
	f := m.current()
	if f == nil {
		return FullRack
	}
	return standing(m.frame, f.Throws)
}

func standing(frame int, throws []int) int {
	n := len(throws)
	if n == 0 {
		return FullRack
	}
	if frame < MaxFrames {
		return FullRack - throws[0]
	}
	// tenth frame: a cleared rack is reset for the bonus throws
	left := FullRack
	for _, t := range throws {
		left -= t
		if left == 0 {
			left = FullRack
		}
	}
	return left
}

// RecordThrow records knocked pins for the current player and frame and
// advances the turn when the frame is complete.
func (m *Machine) RecordThrow(knocked int) (Outcome, error) {
	if m.gameOver {
		return Outcome{}, ErrGameOver
	}
	if left := m.PinsStanding(); knocked < 0 || knocked > left {
		return Outcome{}, fmt.Errorf("%w: %d of %d standing", ErrInvalidCount, knocked, left)
	}

	h := &m.histories[m.player-1]
	if len(*h) < m.frame {
		*h = append(*h, model.FrameResult{Throws: []int{}})
	}
	f := &(*h)[m.frame-1]
	f.Throws = append(f.Throws, knocked)

	first := len(f.Throws) == 1
	strike := first && knocked == FullRack
	spare := !strike && len(f.Throws) == 2 && f.Pins() == FullRack
	if m.frame < MaxFrames {
		f.IsStrike = strike
		f.IsSpare = spare
	}

	out := Outcome{Event: model.ScoringEvent{Kind: model.EventPinHit, Count: knocked, Player: m.player, Frame: m.frame}}
	switch {
	case strike:
		out.Event.Kind = model.EventStrike
	case spare:
		out.Event.Kind = model.EventSpare
	}

	Score(*h)

	if !frameComplete(m.frame, f.Throws) {
		out.Respawn = m.frame == MaxFrames && standing(m.frame, f.Throws) == FullRack
		return out, nil
	}

	out.FrameComplete = true
	out.Respawn = true
	m.advance()
	out.GameOver = m.gameOver
	return out, nil
}

func frameComplete(frame int, throws []int) bool {
	n := len(throws)
	if frame < MaxFrames {
		return n == 2 || throws[0] == FullRack
	}
	if n >= 2 && throws[0]+throws[1] >= FullRack {
		return n == 3
	}
	return n == 2
}

// advance hands the turn on. Both players share a frame number; the frame
// moves on only when play returns to player 1.
func (m *Machine) advance() {
	if len(m.histories) > 1 && m.player == 1 {
		m.player = 2
		return
	}
	m.player = 1
	if m.frame >= MaxFrames {
		m.gameOver = true
		return
	}
	m.frame++
}
