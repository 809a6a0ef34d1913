// Package autoplay plays headless computer-versus-computer matches and checks
// every finished scorecard against an independent scorer.
package autoplay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/neonstrike/internal/domain/match"
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/opponent"
	"github.com/okian/neonstrike/pkg/logger"
)

const (
	defaultTickBudget   = 100_000
	directoryPermission = 0o750
	filePermission      = 0o644
)

// ErrVerification is returned when at least one game failed.
var ErrVerification = errors.New("autoplay verification failed")

// Run plays cfg.Games matches on cfg.Workers goroutines and returns the
// aggregate report with every game's result, ordered by game number.
func Run(ctx context.Context, cfg *Config) (Report, []GameResult, error) {
	log := logger.Default().Named("autoplay")
	start := time.Now()

	if cfg.Games < 1 {
		return Report{}, nil, fmt.Errorf("games must be positive, got %d", cfg.Games)
	}
	mode := cfg.Mode
	if mode == "" {
		mode = model.ModeSingle
	}
	if _, ok := model.ParseGameMode(string(mode)); !ok {
		return Report{}, nil, fmt.Errorf("unknown mode %q", mode)
	}
	workers := max(1, min(cfg.Workers, cfg.Games))
	budget := cfg.TickBudget
	if budget <= 0 {
		budget = defaultTickBudget
	}

	log.Info(ctx, "starting autoplay",
		logger.Int("games", cfg.Games),
		logger.String("mode", string(mode)),
		logger.Int("workers", workers),
		logger.Any("seed", cfg.Seed),
	)

	jobs := make(chan int)
	results := make([]GameResult, cfg.Games)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range jobs {
				res := playGame(ctx, mode, cfg.Seed+uint64(game), budget)
				res.Game = game + 1
				results[game] = res
				if cfg.Verbose || res.Failed() {
					log.Info(ctx, "game finished",
						logger.Int("game", res.Game),
						logger.Any("scores", res.Scores),
						logger.Any("ticks", res.Ticks),
						logger.String("error", res.Error),
					)
				}
			}
		}()
	}

feed:
	for game := 0; game < cfg.Games; game++ {
		select {
		case jobs <- game:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Report{}, nil, fmt.Errorf("autoplay interrupted: %w", err)
	}

	report := summarize(mode, results)
	report.Duration = time.Since(start)

	if cfg.OutputFile != "" {
		if err := saveResults(cfg.OutputFile, report, results); err != nil {
			log.Warn(ctx, "failed to save results", logger.Error(err))
		}
	}

	log.Info(ctx, "autoplay finished",
		logger.Int("completed", report.Completed),
		logger.Int("failures", report.Failures),
		logger.Float64("average_score", report.AverageScore),
		logger.Int("max_score", report.MaxScore),
		logger.Int("strikes", report.Strikes),
		logger.Int("spares", report.Spares),
		logger.Int("gutters", report.Gutters),
		logger.Duration("duration", report.Duration),
	)

	if report.Failures > 0 {
		return report, results, fmt.Errorf("%w: %d of %d games", ErrVerification, report.Failures, report.Games)
	}
	return report, results, nil
}

// playGame runs one autopiloted match to game over.
func playGame(ctx context.Context, mode model.GameMode, seed uint64, budget int) GameResult {
	m := match.New(uuid.NewString(), mode,
		match.WithAutopilot(true),
		match.WithSettleTicks(0),
		match.WithOpponent(
			opponent.WithSeed(seed),
			opponent.WithPickTicks(1),
			opponent.WithLaunchTicks(1),
		),
	)

	for i := 0; i < budget && !m.GameOver(); i++ {
		m.Tick(ctx)
	}

	snap := m.Snapshot()
	res := GameResult{
		MatchID: snap.MatchID,
		Seed:    seed,
		Ticks:   snap.Tick,
		Scores:  snap.Scores,
		Winner:  snap.Winner,
		Frames:  snap.Histories,
	}
	if !snap.GameOver {
		res.Error = fmt.Sprintf("no game over after %d ticks", budget)
		return res
	}

	for p, card := range snap.Histories {
		if err := verifyCard(card); err != nil {
			res.Error = fmt.Sprintf("player %d: %v", p+1, err)
			return res
		}
		if got := card[len(card)-1].CumulativeScore; got != snap.Scores[p] {
			res.Error = fmt.Sprintf("player %d: total %d, card says %d", p+1, snap.Scores[p], got)
			return res
		}
		s, sp, g := tally(card)
		res.Strikes += s
		res.Spares += sp
		res.Gutters += g
	}
	return res
}

func summarize(mode model.GameMode, results []GameResult) Report {
	r := Report{Games: len(results), Mode: string(mode)}
	scored, sum := 0, 0
	for _, g := range results {
		if g.Failed() {
			r.Failures++
			continue
		}
		r.Completed++
		r.Strikes += g.Strikes
		r.Spares += g.Spares
		r.Gutters += g.Gutters
		for _, s := range g.Scores {
			sum += s
			scored++
			r.MaxScore = max(r.MaxScore, s)
		}
	}
	if scored > 0 {
		r.AverageScore = float64(sum) / float64(scored)
	}
	return r
}

type resultsFile struct {
	Report Report       `json:"report"`
	Games  []GameResult `json:"games"`
}

func saveResults(filename string, report Report, results []GameResult) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(resultsFile{Report: report, Games: results}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}
