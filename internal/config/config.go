// Package config defines service configuration and its loader.
//
// Values are layered defaults, then an optional YAML file, then environment
// variables. Every field is flat and addressed by its koanf tag.
package config

import (
	"fmt"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// TickRate is the number of simulation ticks per second.
	TickRate int `koanf:"tick_rate"`

	// MaxMatches bounds the number of concurrent matches.
	MaxMatches int `koanf:"max_matches"`

	// QueueSize bounds the audio cue queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of cue dispatchers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many command ids are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// HighScoreCapacity bounds the high score board.
	HighScoreCapacity int `koanf:"high_score_capacity"`

	// StreamIntervalMS is the snapshot push interval on the WebSocket stream.
	StreamIntervalMS int `koanf:"stream_interval_ms"`

	// Physics tunables.
	Friction    float64 `koanf:"friction"`
	PinFriction float64 `koanf:"pin_friction"`
	BallRadius  float64 `koanf:"ball_radius"`
	PinRadius   float64 `koanf:"pin_radius"`

	// SettleDelayMS is the pause between a settled throw and the next aim.
	SettleDelayMS int `koanf:"settle_delay_ms"`

	// NotificationMS is how long STRIKE!/SPARE!/GUTTER stay visible.
	NotificationMS int `koanf:"notification_ms"`

	// PowerUpDurationTicks is how long an activated power-up lasts.
	PowerUpDurationTicks int `koanf:"powerup_duration_ticks"`

	// Computer opponent timing and aim.
	AIPickDelayMS   int     `koanf:"ai_pick_delay_ms"`
	AILaunchDelayMS int     `koanf:"ai_launch_delay_ms"`
	AIAimSpread     float64 `koanf:"ai_aim_spread"`
	AISeed          uint64  `koanf:"ai_seed"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		TickRate:             60,
		MaxMatches:           64,
		QueueSize:            1024,
		WorkerCount:          2,
		DedupeSize:           4096,
		HighScoreCapacity:    1000,
		StreamIntervalMS:     33,
		Friction:             0.985,
		PinFriction:          0.95,
		BallRadius:           20,
		PinRadius:            12,
		SettleDelayMS:        1500,
		NotificationMS:       1000,
		PowerUpDurationTicks: 300,
		AIPickDelayMS:        1000,
		AILaunchDelayMS:      800,
		AIAimSpread:          120,
		AISeed:               1,
	}
}

// Ticks converts a duration in milliseconds to whole ticks at the configured rate.
func (c *Config) Ticks(ms int) int {
	return ms * c.TickRate / 1000
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %d", ErrInvalidConfig, c.TickRate)
	case c.Friction <= 0 || c.Friction >= 1:
		return fmt.Errorf("%w: friction must be in (0, 1), got %g", ErrInvalidConfig, c.Friction)
	case c.PinFriction <= 0 || c.PinFriction >= 1:
		return fmt.Errorf("%w: pin_friction must be in (0, 1), got %g", ErrInvalidConfig, c.PinFriction)
	case c.BallRadius <= 0:
		return fmt.Errorf("%w: ball_radius must be positive, got %g", ErrInvalidConfig, c.BallRadius)
	case c.PinRadius <= 0:
		return fmt.Errorf("%w: pin_radius must be positive, got %g", ErrInvalidConfig, c.PinRadius)
	}
	if err := c.Tuning().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}
