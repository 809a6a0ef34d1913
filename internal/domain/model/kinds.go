package model

// PowerUpKind identifies a power-up. Its numeric effect lives in the physics tables.
type PowerUpKind string

// Power-up kinds. PowerUpNone means no power-up is active.
const (
	PowerUpNone PowerUpKind = ""
	GiantBall   PowerUpKind = "GIANT_BALL"
	FireBall    PowerUpKind = "FIRE_BALL"
	SuperCurve  PowerUpKind = "SUPER_CURVE"
)

// PowerUpKinds lists every activatable power-up.
var PowerUpKinds = []PowerUpKind{GiantBall, FireBall, SuperCurve}

// ParsePowerUpKind maps a token to a known activatable kind.
func ParsePowerUpKind(s string) (PowerUpKind, bool) {
	for _, k := range PowerUpKinds {
		if string(k) == s {
			return k, true
		}
	}
	return PowerUpNone, false
}

// BallSize is a ball size tier.
type BallSize string

// Ball size tiers.
const (
	SizeSmall  BallSize = "SMALL"
	SizeMedium BallSize = "MEDIUM"
	SizeLarge  BallSize = "LARGE"
)

// ParseBallSize maps a token to a size tier.
func ParseBallSize(s string) (BallSize, bool) {
	switch BallSize(s) {
	case SizeSmall, SizeMedium, SizeLarge:
		return BallSize(s), true
	}
	return "", false
}

// GameMode selects how turns rotate and who plays player 2.
type GameMode string

// Game modes.
const (
	ModeSingle      GameMode = "SINGLE"
	ModeMultiplayer GameMode = "MULTIPLAYER"
	ModeVsAI        GameMode = "VS_AI"
)

// ParseGameMode maps a token to a game mode.
func ParseGameMode(s string) (GameMode, bool) {
	switch GameMode(s) {
	case ModeSingle, ModeMultiplayer, ModeVsAI:
		return GameMode(s), true
	}
	return "", false
}

// Players returns how many score cards the mode keeps.
func (m GameMode) Players() int {
	if m == ModeSingle {
		return 1
	}
	return 2
}

// BallColors is the neon palette accepted for the ball color.
var BallColors = []string{
	"#f43f5e",
	"#0ea5e9",
	"#10b981",
	"#f59e0b",
	"#8b5cf6",
	"#ec4899",
	"#f8fafc",
}

// DefaultBallColor is the first palette entry.
const DefaultBallColor = "#f43f5e"

// ValidBallColor reports whether token is in the palette.
func ValidBallColor(token string) bool {
	for _, c := range BallColors {
		if c == token {
			return true
		}
	}
	return false
}
