package model

// Phase is the externally visible throw phase.
type Phase string

// Throw phases. PhaseSettling is the timed pause between a settled throw and the next aim.
const (
	PhaseAiming   Phase = "AIMING"
	PhaseRolling  Phase = "ROLLING"
	PhaseSettled  Phase = "SETTLED"
	PhaseSettling Phase = "SETTLING"
)

// Snapshot is the pull-based state copy handed to render and HUD collaborators.
// Scores and Histories are indexed by player (0 is player 1).
type Snapshot struct {
	MatchID          string          `json:"match_id"`
	Mode             GameMode        `json:"mode"`
	Tick             uint64          `json:"tick"`
	Generation       uint64          `json:"generation"`
	Phase            Phase           `json:"phase"`
	SettleTicks      int             `json:"settle_ticks,omitempty"`
	Scores           []int           `json:"scores"`
	Histories        [][]FrameResult `json:"histories"`
	CurrentFrame     int             `json:"current_frame"`
	CurrentPlayer    int             `json:"current_player"`
	ActivePowerUp    PowerUpKind     `json:"active_power_up,omitempty"`
	PowerUpRemaining int             `json:"power_up_remaining"`
	Charge           int             `json:"charge"`
	GameOver         bool            `json:"game_over"`
	Winner           int             `json:"winner"`
	Paused           bool            `json:"paused"`
	Event            *ScoringEvent   `json:"event,omitempty"`
	Notification     string          `json:"notification,omitempty"`
	Ball             Ball            `json:"ball"`
	Pins             []Pin           `json:"pins"`
	StandingPins     int             `json:"standing_pins"`
	AimX             float64         `json:"aim_x"`
	Power            int             `json:"power"`
	Spin             int             `json:"spin"`
	BallSize         BallSize        `json:"ball_size"`
	BallColor        string          `json:"ball_color"`
	ComputerTurn     bool            `json:"computer_turn"`
}
