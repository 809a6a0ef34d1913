// Package queue buffers audio cues between the simulation and the cue
// dispatchers. Enqueue never blocks: a full queue drops the cue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/pkg/metrics"
)

const defaultCapacity = 1024

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a cue without blocking. It returns ErrFull when the
	// buffer is at capacity and ErrClosed after Close.
	Enqueue(ctx context.Context, c model.Cue) error

	// Dequeue returns a channel that receives cues as they become available.
	// The channel is closed when the queue is closed and drained, or ctx ends.
	Dequeue(ctx context.Context) <-chan model.Cue

	// Len returns the current number of queued cues.
	Len() int

	// Cap returns the queue capacity.
	Cap() int

	// Close stops accepting cues. Buffered cues remain readable.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	cues     chan model.Cue
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.cues = make(chan model.Cue, q.capacity)

	metrics.UpdateCueQueueCapacity(q.capacity)
	metrics.UpdateCueQueueSize(0)
	return q
}

// Enqueue adds a cue to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, c model.Cue) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordCueDropped("closed")
		return ErrClosed
	}

	select {
	case <-ctx.Done():
		metrics.RecordCueDropped("context_cancelled")
		return ctx.Err()
	default:
	}

	select {
	case q.cues <- c:
		metrics.RecordCueEnqueued(string(c.Kind))
		metrics.UpdateCueQueueSize(len(q.cues))
		return nil
	default:
		metrics.RecordCueDropped("queue_full")
		return ErrFull
	}
}

// Dequeue returns a channel that will receive cues as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan model.Cue {
	out := make(chan model.Cue)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-q.cues:
				if !ok {
					return
				}
				select {
				case out <- c:
					metrics.RecordCueDequeued()
					metrics.UpdateCueQueueSize(len(q.cues))
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Len returns the current number of queued cues.
func (q *InMemoryQueue) Len() int { return len(q.cues) }

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close gracefully shuts down the queue. Closing twice is a no-op.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	close(q.cues)
	q.closed = true
	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
