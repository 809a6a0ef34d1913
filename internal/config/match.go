package config

import (
	"github.com/okian/neonstrike/internal/domain/match"
	"github.com/okian/neonstrike/internal/domain/opponent"
	"github.com/okian/neonstrike/internal/domain/physics"
)

// Tuning returns the default lane tuning with the configured overrides.
func (c *Config) Tuning() physics.Tuning {
	t := physics.DefaultTuning()
	t.Friction = c.Friction
	t.PinFriction = c.PinFriction
	t.BallRadius = c.BallRadius
	t.PinRadius = c.PinRadius
	return t
}

// MatchOptions converts the configured timings to per-match options. The
// opponent seed is per match and is handed to the service instead.
func (c *Config) MatchOptions() []match.Option {
	return []match.Option{
		match.WithTuning(c.Tuning()),
		match.WithSettleTicks(c.Ticks(c.SettleDelayMS)),
		match.WithNotificationTicks(c.Ticks(c.NotificationMS)),
		match.WithPowerUpTicks(c.PowerUpDurationTicks),
		match.WithOpponent(
			opponent.WithPickTicks(c.Ticks(c.AIPickDelayMS)),
			opponent.WithLaunchTicks(c.Ticks(c.AILaunchDelayMS)),
			opponent.WithAimSpread(c.AIAimSpread),
		),
	}
}
