// Package worker delivers queued audio cues to the audio collaborator.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/pkg/logger"
	"github.com/okian/neonstrike/pkg/metrics"
)

const (
	defaultDispatchers  = 2
	defaultPlayTimeout  = 250 * time.Millisecond
	poolShutdownTimeout = 5 * time.Second
)

// Sink plays a cue. Implementations must return promptly; the dispatcher
// bounds each call with a timeout.
type Sink interface {
	Play(ctx context.Context, cue model.Cue) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, cue model.Cue) error

// Play calls f(ctx, cue).
func (f SinkFunc) Play(ctx context.Context, cue model.Cue) error { return f(ctx, cue) }

// LogSink writes every cue to a debug log line. It is the default when no
// audio backend is attached.
type LogSink struct {
	Logger logger.Logger
}

// Play logs the cue.
func (s LogSink) Play(ctx context.Context, cue model.Cue) error {
	l := s.Logger
	if l == nil {
		l = logger.Default().Named("cues")
	}
	l.Debug(ctx, "cue",
		logger.String("kind", string(cue.Kind)),
		logger.String("match_id", cue.MatchID),
		logger.Any("tick", cue.Tick),
	)
	return nil
}

// Queue defines how dispatchers receive cues.
type Queue interface {
	Dequeue(ctx context.Context) <-chan model.Cue
}

// Dispatcher reads cues off the queue and hands them to a Sink.
type Dispatcher struct {
	queue       Queue
	sink        Sink
	name        string
	playTimeout time.Duration

	done   chan struct{}
	logger logger.Logger
}

// NewDispatcher creates a dispatcher with configuration options.
func NewDispatcher(q Queue, sink Sink, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		queue:       q,
		sink:        sink,
		name:        "dispatcher",
		playTimeout: defaultPlayTimeout,
		done:        make(chan struct{}),
		logger:      logger.Default().Named("dispatcher"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.name != "dispatcher" {
		d.logger = d.logger.Named(d.name)
	}
	return d
}

// Name returns the dispatcher name.
func (d *Dispatcher) Name() string { return d.name }

// Done is closed once Run returns.
func (d *Dispatcher) Done() <-chan struct{} { return d.done }

// Run delivers cues until the queue is closed and drained or ctx is canceled.
func (d *Dispatcher) Run(ctx context.Context) {
	defer close(d.done)

	for c := range d.queue.Dequeue(ctx) {
		if err := d.dispatch(ctx, c); err != nil {
			d.logger.Warn(ctx, "cue dispatch failed", logger.Error(err))
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, c model.Cue) error {
	start := time.Now()
	defer func() {
		metrics.RecordCueDispatch(float64(time.Since(start).Microseconds()) / 1000)
	}()

	playCtx, cancel := context.WithTimeout(ctx, d.playTimeout)
	defer cancel()

	if err := d.sink.Play(playCtx, c); err != nil {
		metrics.RecordCueDispatchError()
		return fmt.Errorf("play %s for match %s: %w", c.Kind, c.MatchID, err)
	}
	return nil
}

// Pool manages multiple dispatchers sharing one queue.
type Pool struct {
	dispatchers []*Dispatcher
	queue       Queue
	once        sync.Once
	logger      logger.Logger
}

// NewPool creates a dispatcher pool. A count below 1 uses the default.
func NewPool(count int, q Queue, sink Sink, opts ...Option) *Pool {
	if count < 1 {
		count = defaultDispatchers
	}
	if sink == nil {
		sink = LogSink{}
	}

	p := &Pool{
		dispatchers: make([]*Dispatcher, count),
		queue:       q,
		logger:      logger.Default().Named("dispatcher-pool"),
	}
	for i := range p.dispatchers {
		dopts := append([]Option{WithName("dispatcher-" + strconv.Itoa(i))}, opts...)
		p.dispatchers[i] = NewDispatcher(q, sink, dopts...)
	}
	return p
}

// Size returns the number of dispatchers.
func (p *Pool) Size() int { return len(p.dispatchers) }

// Start runs every dispatcher in its own goroutine.
func (p *Pool) Start(ctx context.Context) {
	for _, d := range p.dispatchers {
		go d.Run(ctx)
	}
	metrics.UpdateDispatchersActive(len(p.dispatchers))
}

// Shutdown closes the queue, if it can be closed, and waits for the
// dispatchers to drain it or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	var err error
	p.once.Do(func() {
		if closer, ok := p.queue.(interface{ Close() error }); ok {
			if cerr := closer.Close(); cerr != nil {
				p.logger.Error(ctx, "error closing cue queue", logger.Error(cerr))
			}
		}

		waitCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
		defer cancel()

		for _, d := range p.dispatchers {
			select {
			case <-d.done:
			case <-waitCtx.Done():
				p.logger.Warn(ctx, "dispatcher shutdown timed out", logger.String("dispatcher", d.name))
				err = fmt.Errorf("dispatcher shutdown: %w", waitCtx.Err())
				return
			}
		}
		metrics.UpdateDispatchersActive(0)
	})
	return err
}
