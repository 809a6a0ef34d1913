package match

import (
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/opponent"
	"github.com/okian/neonstrike/internal/domain/physics"
	"github.com/okian/neonstrike/pkg/logger"
)

// Emitter receives audio cues. Emit must not block.
type Emitter interface {
	Emit(cue model.Cue)
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(cue model.Cue)

// Emit calls f(cue).
func (f EmitterFunc) Emit(cue model.Cue) { f(cue) }

type nopEmitter struct{}

func (nopEmitter) Emit(model.Cue) {}

// Option applies a configuration option to the Match.
type Option func(*Match)

// WithTuning sets the lane and physics tunables.
func WithTuning(t physics.Tuning) Option {
	return func(m *Match) {
		m.tuning = t
	}
}

// WithSettleTicks sets the pause between a settled throw and the next aim.
func WithSettleTicks(ticks int) Option {
	return func(m *Match) {
		if ticks >= 0 {
			m.settleTicks = ticks
		}
	}
}

// WithNotificationTicks sets how long a notification and its scoring event stay visible.
func WithNotificationTicks(ticks int) Option {
	return func(m *Match) {
		if ticks > 0 {
			m.notifyTicks = ticks
		}
	}
}

// WithPowerUpTicks sets the duration of an activated power-up.
func WithPowerUpTicks(ticks int) Option {
	return func(m *Match) {
		if ticks > 0 {
			m.powerUpTicks = ticks
		}
	}
}

// WithOpponent configures the computer player.
func WithOpponent(opts ...opponent.Option) Option {
	return func(m *Match) {
		m.aiOpts = append(m.aiOpts, opts...)
	}
}

// WithAutopilot lets the computer play every turn.
func WithAutopilot(enabled bool) Option {
	return func(m *Match) {
		m.autopilot = enabled
	}
}

// WithEmitter sets the audio cue receiver.
func WithEmitter(e Emitter) Option {
	return func(m *Match) {
		if e != nil {
			m.emitter = e
		}
	}
}

// WithLogger sets the match logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Match) {
		if l != nil {
			m.log = l
		}
	}
}
