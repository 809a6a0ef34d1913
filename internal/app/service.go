// Package service owns the running matches. Each match is advanced by its
// own ticker goroutine and every input is applied under the same per-match
// lock, so a match has a single writer at a time.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	cuequeue "github.com/okian/neonstrike/internal/adapters/mq/queue"
	"github.com/okian/neonstrike/internal/adapters/mq/worker"
	"github.com/okian/neonstrike/internal/adapters/repository"
	"github.com/okian/neonstrike/internal/domain/dedupe"
	"github.com/okian/neonstrike/internal/domain/match"
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/opponent"
	"github.com/okian/neonstrike/internal/domain/types"
	"github.com/okian/neonstrike/pkg/logger"
	"github.com/okian/neonstrike/pkg/metrics"
)

const (
	defaultTickRate    = 60
	defaultMaxMatches  = 64
	defaultWorkerCount = 2
	defaultQueueSize   = 1024
	defaultDedupeSize  = 4096
	defaultScoreCap    = 1000
)

// session is one match plus its ticker.
type session struct {
	mu       sync.Mutex
	match    *match.Match
	cancel   context.CancelFunc
	done     chan struct{}
	finished bool
	onFinish func(context.Context, model.Snapshot)
}

// Service manages matches and the audio cue pipeline.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session

	deduper  dedupe.Deduper
	cues     *cuequeue.InMemoryQueue
	pool     *worker.Pool
	sink     worker.Sink
	scores   repository.Store
	runCtx   context.Context
	stopRun  context.CancelFunc
	started  bool
	applied  atomic.Uint64
	dupes    atomic.Uint64
	emitDrop atomic.Uint64

	tickRate    int
	autoTick    bool
	maxMatches  int
	workerCount int
	queueSize   int
	dedupeSize  int
	scoreCap    int
	aiSeed      uint64
	created     uint64
	matchOpts   []match.Option

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		sessions:    make(map[string]*session),
		tickRate:    defaultTickRate,
		autoTick:    true,
		maxMatches:  defaultMaxMatches,
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		scoreCap:    defaultScoreCap,
		aiSeed:      1,
		logger:      logger.Default().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sink == nil {
		s.sink = worker.LogSink{Logger: s.logger.Named("cues")}
	}
	if s.scores == nil {
		s.scores = repository.NewTreapStore(repository.WithCapacity(s.scoreCap))
	}
	return s
}

// Start initializes the dedupe cache and the cue pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting match service...")

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.cues = cuequeue.NewInMemoryQueue(cuequeue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.cues, s.sink)

	// Matches outlive the request that created them.
	s.runCtx, s.stopRun = context.WithCancel(context.WithoutCancel(ctx))
	s.pool.Start(s.runCtx)

	s.started = true
	metrics.UpdateActiveMatches(0)
	s.logger.Info(ctx, "match service started",
		logger.Int("tick_rate", s.tickRate),
		logger.Int("max_matches", s.maxMatches),
		logger.Int("dispatchers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Int("dedupe_size", s.dedupeSize),
	)
	return nil
}

// Stop halts every match and drains the cue pipeline.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	ctx := context.Background()
	s.logger.Info(ctx, "stopping match service...")

	sessions := s.sessions
	s.sessions = make(map[string]*session)
	s.started = false
	s.mu.Unlock()

	for _, sess := range sessions {
		sess.stop()
	}
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "cue dispatchers did not drain", logger.Error(err))
	}
	s.stopRun()
	metrics.UpdateActiveMatches(0)
	s.logger.Info(ctx, "match service stopped")
}

// CreateMatch starts a new match. An empty mode means SINGLE.
func (s *Service) CreateMatch(ctx context.Context, mode model.GameMode) (model.Snapshot, error) {
	if mode == "" {
		mode = model.ModeSingle
	}
	if _, ok := model.ParseGameMode(string(mode)); !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return model.Snapshot{}, ErrNotStarted
	}
	if len(s.sessions) >= s.maxMatches {
		return model.Snapshot{}, fmt.Errorf("%w: limit %d", ErrTooManyMatches, s.maxMatches)
	}

	id := uuid.NewString()
	seed := s.aiSeed + s.created
	s.created++
	opts := append([]match.Option{
		match.WithEmitter(&cueEmitter{svc: s}),
		match.WithLogger(s.logger.Named("match")),
		match.WithOpponent(opponent.WithSeed(seed)),
	}, s.matchOpts...)

	sess := &session{
		match:    match.New(id, mode, opts...),
		done:     make(chan struct{}),
		onFinish: s.recordScores,
	}
	s.sessions[id] = sess

	if s.autoTick {
		tctx, cancel := context.WithCancel(s.runCtx)
		sess.cancel = cancel
		go sess.run(tctx, time.Second/time.Duration(s.tickRate))
	} else {
		close(sess.done)
	}

	metrics.UpdateActiveMatches(len(s.sessions))
	s.logger.Info(ctx, "match created", logger.String("match_id", id), logger.String("mode", string(mode)))
	return sess.snapshot(), nil
}

// Apply applies one command to a match. A command whose id was already
// applied is acknowledged as a duplicate without touching the match.
func (s *Service) Apply(ctx context.Context, id string, cmd Command) (Result, error) {
	sess, err := s.session(id)
	if err != nil {
		return Result{}, err
	}

	key := ""
	if cmd.ID != "" {
		key = id + "/" + cmd.ID
	}
	if s.deduper.SeenAndRecord(ctx, key) {
		s.dupes.Add(1)
		metrics.RecordDuplicateCommand()
		s.logger.Debug(ctx, "duplicate command",
			logger.String("match_id", id),
			logger.String("command_id", cmd.ID),
		)
		return Result{Duplicate: true, Snapshot: sess.snapshot()}, nil
	}

	sess.mu.Lock()
	accepted, err := apply(ctx, sess.match, cmd)
	sess.checkFinished(ctx)
	snap := sess.match.Snapshot()
	sess.mu.Unlock()

	if err != nil {
		s.deduper.Unrecord(ctx, key)
		return Result{}, err
	}
	s.applied.Add(1)
	return Result{Accepted: accepted, Snapshot: snap}, nil
}

// Advance ticks a match n times on the caller's goroutine.
func (s *Service) Advance(ctx context.Context, id string, n int) (model.Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return model.Snapshot{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	for i := 0; i < n; i++ {
		sess.match.Tick(ctx)
		sess.checkFinished(ctx)
	}
	return sess.match.Snapshot(), nil
}

// Snapshot returns the current state of a match.
func (s *Service) Snapshot(_ context.Context, id string) (model.Snapshot, error) {
	sess, err := s.session(id)
	if err != nil {
		return model.Snapshot{}, err
	}
	return sess.snapshot(), nil
}

// ListMatches returns summaries of every match ordered by id.
func (s *Service) ListMatches(_ context.Context) []types.MatchSummary {
	s.mu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.RUnlock()

	out := make([]types.MatchSummary, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, types.Summarize(sess.snapshot()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// DeleteMatch stops and removes a match.
func (s *Service) DeleteMatch(ctx context.Context, id string) error {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
		metrics.UpdateActiveMatches(len(s.sessions))
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	sess.stop()
	s.logger.Info(ctx, "match deleted", logger.String("match_id", id))
	return nil
}

// HighScores returns the best n final scores across every finished match.
func (s *Service) HighScores(ctx context.Context, n int) ([]repository.Entry, error) {
	return s.scores.TopN(ctx, n)
}

// recordScores submits every seat's final score to the high score board.
func (s *Service) recordScores(ctx context.Context, snap model.Snapshot) {
	for i, score := range snap.Scores {
		e := repository.Entry{
			ID:      fmt.Sprintf("%s/p%d", snap.MatchID, i+1),
			MatchID: snap.MatchID,
			Player:  i + 1,
			Mode:    string(snap.Mode),
			Score:   score,
		}
		if _, err := s.scores.UpdateBest(ctx, e); err != nil {
			s.logger.Warn(ctx, "high score not recorded", logger.String("id", e.ID), logger.Error(err))
		}
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() types.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := types.Stats{
		ActiveMatches:   len(s.sessions),
		MaxMatches:      s.maxMatches,
		TickRate:        s.tickRate,
		Dispatchers:     s.workerCount,
		CueQueueCap:     s.queueSize,
		CommandsApplied: s.applied.Load(),
		Duplicates:      s.dupes.Load(),
		CuesDropped:     s.emitDrop.Load(),
		HighScores:      s.scores.Count(context.Background()),
	}
	if s.started {
		st.CueQueueSize = s.cues.Len()
		st.DedupeSize = s.deduper.Size()
	}
	return st
}

func (s *Service) session(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, id)
	}
	return sess, nil
}

func (sess *session) run(ctx context.Context, interval time.Duration) {
	defer close(sess.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sess.mu.Lock()
			sess.match.Tick(ctx)
			sess.checkFinished(ctx)
			sess.mu.Unlock()
		}
	}
}

// checkFinished reports a game over once. A reset match may finish again.
// The caller holds sess.mu.
func (sess *session) checkFinished(ctx context.Context) {
	over := sess.match.GameOver()
	if over && !sess.finished && sess.onFinish != nil {
		sess.onFinish(ctx, sess.match.Snapshot())
	}
	sess.finished = over
}

func (sess *session) stop() {
	if sess.cancel != nil {
		sess.cancel()
	}
	<-sess.done
}

func (sess *session) snapshot() model.Snapshot {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.match.Snapshot()
}

// cueEmitter hands match cues to the queue without blocking the tick.
type cueEmitter struct {
	svc *Service
}

func (e *cueEmitter) Emit(c model.Cue) {
	if err := e.svc.cues.Enqueue(context.Background(), c); err != nil {
		e.svc.emitDrop.Add(1)
		e.svc.logger.Debug(context.Background(), "cue dropped",
			logger.String("kind", string(c.Kind)),
			logger.String("match_id", c.MatchID),
			logger.Error(err),
		)
	}
}
