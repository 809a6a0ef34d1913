package autoplay

import (
	"time"

	"github.com/okian/neonstrike/internal/domain/model"
)

// Config holds configuration for an autoplay run.
type Config struct {
	Games      int            // number of matches to play
	Mode       model.GameMode // SINGLE or MULTIPLAYER; the computer plays every turn
	Workers    int            // concurrent matches
	Seed       uint64         // base seed; game i uses Seed+i
	TickBudget int            // ticks a match may take before it counts as stuck
	OutputFile string         // JSON results file, empty to skip
	Verbose    bool           // log every game
}

// GameResult is the outcome of one match.
type GameResult struct {
	Game    int                   `json:"game"`
	MatchID string                `json:"match_id"`
	Seed    uint64                `json:"seed"`
	Ticks   uint64                `json:"ticks"`
	Scores  []int                 `json:"scores"`
	Winner  int                   `json:"winner"`
	Strikes int                   `json:"strikes"`
	Spares  int                   `json:"spares"`
	Gutters int                   `json:"gutters"`
	Frames  [][]model.FrameResult `json:"frames,omitempty"`
	Error   string                `json:"error,omitempty"`
}

// Failed reports whether the game did not finish or did not verify.
func (g GameResult) Failed() bool { return g.Error != "" }

// Report aggregates every game of a run.
type Report struct {
	Games        int           `json:"games"`
	Mode         string        `json:"mode"`
	Completed    int           `json:"completed"`
	Failures     int           `json:"failures"`
	AverageScore float64       `json:"average_score"`
	MaxScore     int           `json:"max_score"`
	Strikes      int           `json:"strikes"`
	Spares       int           `json:"spares"`
	Gutters      int           `json:"gutters"`
	Duration     time.Duration `json:"duration"`
}
