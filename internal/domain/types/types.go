// Package types contains read shapes shared by the service and its adapters.
package types

import "github.com/okian/neonstrike/internal/domain/model"

// MatchSummary is the list view of a running match.
type MatchSummary struct {
	ID            string         `json:"id"`
	Mode          model.GameMode `json:"mode"`
	Phase         model.Phase    `json:"phase"`
	Tick          uint64         `json:"tick"`
	CurrentFrame  int            `json:"current_frame"`
	CurrentPlayer int            `json:"current_player"`
	Scores        []int          `json:"scores"`
	GameOver      bool           `json:"game_over"`
	Winner        int            `json:"winner"`
	Paused        bool           `json:"paused"`
}

// Summarize builds the list view of a snapshot.
func Summarize(s model.Snapshot) MatchSummary {
	return MatchSummary{
		ID:            s.MatchID,
		Mode:          s.Mode,
		Phase:         s.Phase,
		Tick:          s.Tick,
		CurrentFrame:  s.CurrentFrame,
		CurrentPlayer: s.CurrentPlayer,
		Scores:        append([]int(nil), s.Scores...),
		GameOver:      s.GameOver,
		Winner:        s.Winner,
		Paused:        s.Paused,
	}
}

// Stats reports service-wide counters.
type Stats struct {
	ActiveMatches   int    `json:"active_matches"`
	MaxMatches      int    `json:"max_matches"`
	TickRate        int    `json:"tick_rate"`
	CueQueueSize    int    `json:"cue_queue_size"`
	CueQueueCap     int    `json:"cue_queue_capacity"`
	CuesDropped     uint64 `json:"cues_dropped"`
	Dispatchers     int    `json:"dispatchers"`
	DedupeSize      int64  `json:"dedupe_size"`
	CommandsApplied uint64 `json:"commands_applied"`
	Duplicates      uint64 `json:"duplicates"`
	HighScores      int    `json:"high_scores"`
}
