package match

import (
	"context"

	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/scoring"
	"github.com/okian/neonstrike/pkg/logger"
	"github.com/okian/neonstrike/pkg/metrics"
)

// Every input reports whether it was accepted. Refused inputs are no-ops.

// Aim moves the aim line to x, clamped to the lane.
func (m *Match) Aim(ctx context.Context, x float64) bool {
	if r := m.blocked(); r != "" {
		return m.ignore(ctx, "aim", r)
	}
	if !m.sim.SetAim(x) {
		return m.ignore(ctx, "aim", reasonNotAiming)
	}
	return true
}

// SetPower sets the launch power percentage, clamped to [MinPower, MaxPower].
func (m *Match) SetPower(ctx context.Context, p int) bool {
	if r := m.blocked(); r != "" {
		return m.ignore(ctx, "power", r)
	}
	m.power = max(MinPower, min(MaxPower, p))
	return true
}

// SetSpin sets the spin percentage, clamped to [-MaxSpin, MaxSpin].
func (m *Match) SetSpin(ctx context.Context, s int) bool {
	if r := m.blocked(); r != "" {
		return m.ignore(ctx, "spin", r)
	}
	m.spin = max(-MaxSpin, min(MaxSpin, s))
	return true
}

// SetBallSize selects the ball size tier.
func (m *Match) SetBallSize(ctx context.Context, size model.BallSize) bool {
	if _, ok := model.ParseBallSize(string(size)); !ok {
		return m.ignore(ctx, "size", reasonInvalid)
	}
	if r := m.blocked(); r != "" {
		return m.ignore(ctx, "size", r)
	}
	m.sim.SetBallSize(size)
	return true
}

// SetBallColor selects the ball color from the palette. Unknown tokens are
// ignored, and like every other throw input the color is locked while paused,
// after game over and during the computer's turn.
func (m *Match) SetBallColor(ctx context.Context, token string) bool {
	if !model.ValidBallColor(token) {
		return m.ignore(ctx, "color", reasonInvalid)
	}
	if r := m.blocked(); r != "" {
		return m.ignore(ctx, "color", r)
	}
	m.color = token
	return true
}

// Launch releases the ball with the current power and spin.
func (m *Match) Launch(ctx context.Context) bool {
	if r := m.blocked(); r != "" {
		return m.ignore(ctx, "launch", r)
	}
	if !m.sim.Launch(float64(m.power), float64(m.spin)) {
		return m.ignore(ctx, "launch", reasonNotAiming)
	}
	return true
}

// ActivatePowerUp spends a full charge meter on kind. With less than a full
// meter nothing changes.
func (m *Match) ActivatePowerUp(ctx context.Context, kind model.PowerUpKind) bool {
	if _, ok := model.ParsePowerUpKind(string(kind)); !ok {
		return m.ignore(ctx, "powerup", reasonInvalid)
	}
	switch {
	case m.machine.GameOver():
		return m.ignore(ctx, "powerup", reasonGameOver)
	case m.paused:
		return m.ignore(ctx, "powerup", reasonPaused)
	}
	if !m.meter.Spend() {
		metrics.RecordPowerUpRejected()
		return m.ignore(ctx, "powerup", reasonNoCharge)
	}
	m.timer.Activate(kind)
	m.sim.SetPowerUp(kind)
	m.emit(model.CuePowerUpActivated)
	metrics.RecordPowerUpActivated(string(kind))
	return true
}

// Pause suspends ticking.
func (m *Match) Pause(ctx context.Context) bool {
	if m.paused {
		return m.ignore(ctx, "pause", reasonUnchanged)
	}
	m.paused = true
	return true
}

// Resume continues a paused match.
func (m *Match) Resume(ctx context.Context) bool {
	if !m.paused {
		return m.ignore(ctx, "resume", reasonUnchanged)
	}
	m.paused = false
	return true
}

// Reset returns the match to its initial state and drops any pending settle,
// notification or computer turn. Power, spin, ball size and color are kept.
func (m *Match) Reset(ctx context.Context) bool {
	m.machine.Reset()
	m.sim.Reset()
	m.timer.Reset()
	m.meter.Reset()
	m.ai.Cancel()

	m.tick = 0
	m.generation++
	m.paused = false
	m.settling = 0
	m.settleRespawn = false
	m.notifyLeft = 0
	m.notification = ""
	m.event = nil

	metrics.RecordMatchStarted(string(m.mode))
	m.log.Debug(ctx, "match reset", logger.String("match_id", m.id))
	return true
}

// SetMode switches the game mode and resets the match.
func (m *Match) SetMode(ctx context.Context, mode model.GameMode) bool {
	if _, ok := model.ParseGameMode(string(mode)); !ok {
		return m.ignore(ctx, "mode", reasonInvalid)
	}
	m.mode = mode
	m.machine = scoring.NewMachine(mode)
	return m.Reset(ctx)
}
