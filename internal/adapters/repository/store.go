// Package repository keeps the high score board: the best final score of
// every seat of every finished match, ranked highest first.
package repository

import "context"

// Entry is one high score row. ID names the seat and is unique on the board.
type Entry struct {
	Rank    int    `json:"rank"`
	ID      string `json:"id"`
	MatchID string `json:"match_id"`
	Player  int    `json:"player"`
	Mode    string `json:"mode"`
	Score   int    `json:"score"`
}

// Store provides read/write access to the high score board.
type Store interface {
	// UpdateBest stores e when its seat is new or e.Score beats the stored one.
	// It reports whether the board changed.
	UpdateBest(ctx context.Context, e Entry) (bool, error)

	// Rank returns the entry for a seat with its current rank.
	// Returns ErrNotFound if the seat is unknown.
	Rank(ctx context.Context, id string) (Entry, error)

	// TopN returns the best n entries, highest score first.
	TopN(ctx context.Context, n int) ([]Entry, error)

	// Count returns the number of entries on the board.
	Count(ctx context.Context) int
}
