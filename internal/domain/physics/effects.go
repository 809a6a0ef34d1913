package physics

import "github.com/okian/neonstrike/internal/domain/model"

// Effect is the numeric behavior of a power-up.
type Effect struct {
	RadiusMult  float64 // ball radius multiplier
	SpeedMult   float64 // forward launch speed multiplier
	ImpactForce float64 // pin velocity per unit of ball speed on contact
	Restitution float64 // ball velocity kept per pin contact
	BlastRadius float64 // secondary knock radius around a struck pin, 0 for none
	BlastSpeed  float64
	Homing      float64 // per-tick pull of the rolling ball toward the aim line
}

var baseEffect = Effect{RadiusMult: 1, SpeedMult: 1, ImpactForce: 1.7, Restitution: 0.8}

var effects = map[model.PowerUpKind]Effect{
	model.PowerUpNone: baseEffect,
	model.GiantBall:   {RadiusMult: 1.8, SpeedMult: 1, ImpactForce: 1.7, Restitution: 0.99},
	model.FireBall:    {RadiusMult: 1, SpeedMult: 1.35, ImpactForce: 5, Restitution: 0.8, BlastRadius: 170, BlastSpeed: 12},
	model.SuperCurve:  {RadiusMult: 1, SpeedMult: 1, ImpactForce: 1.7, Restitution: 0.8, Homing: 0.1},
}

var sizeMultipliers = map[model.BallSize]float64{
	model.SizeSmall:  0.8,
	model.SizeMedium: 1.0,
	model.SizeLarge:  1.3,
}

// EffectOf returns the effect of kind; unknown kinds behave like no power-up.
func EffectOf(kind model.PowerUpKind) Effect {
	if e, ok := effects[kind]; ok {
		return e
	}
	return baseEffect
}

// SizeMultiplier returns the radius multiplier of a size tier; unknown tiers are 1.
func SizeMultiplier(size model.BallSize) float64 {
	if m, ok := sizeMultipliers[size]; ok {
		return m
	}
	return 1
}
