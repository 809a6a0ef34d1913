package service

import (
	"github.com/okian/neonstrike/internal/adapters/mq/worker"
	"github.com/okian/neonstrike/internal/adapters/repository"
	"github.com/okian/neonstrike/internal/domain/match"
	"github.com/okian/neonstrike/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTickRate sets the simulation ticks per second for every match.
func WithTickRate(rate int) Option {
	return func(s *Service) {
		if rate > 0 {
			s.tickRate = rate
		}
	}
}

// WithAutoTick controls whether each match gets a ticker goroutine. With it
// disabled matches only move through Advance.
func WithAutoTick(enabled bool) Option {
	return func(s *Service) {
		s.autoTick = enabled
	}
}

// WithMaxMatches bounds the number of concurrent matches.
func WithMaxMatches(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxMatches = n
		}
	}
}

// WithWorkerCount sets the number of cue dispatchers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the cue queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many command ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithSink sets the audio cue receiver.
func WithSink(sink worker.Sink) Option {
	return func(s *Service) {
		if sink != nil {
			s.sink = sink
		}
	}
}

// WithHighScores sets the board that receives final scores.
func WithHighScores(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.scores = store
		}
	}
}

// WithHighScoreCapacity bounds the default high score board.
func WithHighScoreCapacity(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.scoreCap = n
		}
	}
}

// WithOpponentSeed sets the base seed of the computer player. The n-th match
// created by the service is seeded with seed+n-1, so every match aims
// differently and a run stays reproducible.
func WithOpponentSeed(seed uint64) Option {
	return func(s *Service) {
		s.aiSeed = seed
	}
}

// WithMatchOptions appends options applied to every new match.
func WithMatchOptions(opts ...match.Option) Option {
	return func(s *Service) {
		s.matchOpts = append(s.matchOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
