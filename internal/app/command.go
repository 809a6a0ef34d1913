package service

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/neonstrike/internal/domain/match"
	"github.com/okian/neonstrike/internal/domain/model"
)

// Command kinds accepted by Apply.
const (
	CmdAim     = "aim"
	CmdPower   = "power"
	CmdSpin    = "spin"
	CmdSize    = "size"
	CmdColor   = "color"
	CmdLaunch  = "launch"
	CmdPowerUp = "powerup"
	CmdPause   = "pause"
	CmdResume  = "resume"
	CmdReset   = "reset"
	CmdMode    = "mode"
)

// Command is one remote input. Value carries numeric arguments (aim x,
// power, spin) and Token carries named ones (size, color, power-up, mode).
type Command struct {
	ID    string  `json:"command_id,omitempty"`
	Kind  string  `json:"kind"`
	Value float64 `json:"value,omitempty"`
	Token string  `json:"token,omitempty"`
}

// Result is the outcome of Apply.
type Result struct {
	Duplicate bool           `json:"duplicate"`
	Accepted  bool           `json:"accepted"`
	Snapshot  model.Snapshot `json:"snapshot"`
}

// apply routes a command to the match input it names.
func apply(ctx context.Context, m *match.Match, cmd Command) (bool, error) {
	switch cmd.Kind {
	case CmdAim:
		return m.Aim(ctx, cmd.Value), nil
	case CmdPower:
		return m.SetPower(ctx, clampValue(cmd.Value, match.MinPower, match.MaxPower)), nil
	case CmdSpin:
		return m.SetSpin(ctx, clampValue(cmd.Value, -match.MaxSpin, match.MaxSpin)), nil
	case CmdSize:
		return m.SetBallSize(ctx, model.BallSize(cmd.Token)), nil
	case CmdColor:
		return m.SetBallColor(ctx, cmd.Token), nil
	case CmdLaunch:
		return m.Launch(ctx), nil
	case CmdPowerUp:
		return m.ActivatePowerUp(ctx, model.PowerUpKind(cmd.Token)), nil
	case CmdPause:
		return m.Pause(ctx), nil
	case CmdResume:
		return m.Resume(ctx), nil
	case CmdReset:
		return m.Reset(ctx), nil
	case CmdMode:
		return m.SetMode(ctx, model.GameMode(cmd.Token)), nil
	}
	return false, fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
}

// clampValue limits v to [lo, hi] before the integer conversion, which is
// undefined for values outside the int range. NaN counts as zero.
func clampValue(v float64, lo, hi int) int {
	if math.IsNaN(v) {
		v = 0
	}
	return int(math.Max(float64(lo), math.Min(float64(hi), v)))
}
