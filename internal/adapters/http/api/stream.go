package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	service "github.com/okian/neonstrike/internal/app"
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/pkg/logger"
)

const (
	streamReadLimit    = 1 << 16
	streamPongWait     = 60 * time.Second
	streamPingInterval = 25 * time.Second
	streamWriteWait    = 10 * time.Second
	streamBacklog      = 16
)

// Stream frame types.
const (
	FrameSnapshot = "snapshot"
	FrameAck      = "ack"
	FrameError    = "error"
	FrameClosed   = "closed"
)

// StreamFrame is one server-to-client WebSocket message.
type StreamFrame struct {
	Type     string          `json:"type"`
	Snapshot *model.Snapshot `json:"snapshot,omitempty"`
	Result   *service.Result `json:"result,omitempty"`
	Error    *errorResponse  `json:"error,omitempty"`
}

// StreamHandler pushes snapshots over a WebSocket and applies the commands
// the client sends back.
type StreamHandler struct {
	deps     Dependencies
	interval time.Duration
	upgrader websocket.Upgrader
	logger   logger.Logger
}

// NewStreamHandler creates a stream handler pushing every interval.
func NewStreamHandler(deps Dependencies, interval time.Duration) *StreamHandler {
	return &StreamHandler{
		deps:     deps,
		interval: interval,
		upgrader: websocket.Upgrader{
			// Collaborators run on the same host.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.Default().Named("stream"),
	}
}

// HandleStream handles GET /matches/{id}/stream.
func (h *StreamHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	const op = "api.stream"
	id := r.PathValue("id")

	if _, err := h.deps.Snapshot(r.Context(), id); err != nil {
		fail(w, op, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug(r.Context(), "upgrade failed", logger.String("match_id", id), logger.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(streamReadLimit)
	_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(streamPongWait))
	})

	// The request context is canceled once the handler returns.
	ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
	defer cancel()

	replies := make(chan StreamFrame, streamBacklog)
	go h.readLoop(ctx, cancel, conn, id, replies)

	h.writeLoop(ctx, conn, id, replies)
}

// readLoop applies client commands; it is the only reader of conn.
func (h *StreamHandler) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, id string, replies chan<- StreamFrame) {
	defer cancel()
	for {
		var cmd service.Command
		if err := conn.ReadJSON(&cmd); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug(ctx, "stream read ended", logger.String("match_id", id), logger.Error(err))
			}
			return
		}

		var frame StreamFrame
		res, err := h.deps.Apply(ctx, id, cmd)
		if err != nil {
			_, _, code := classify(err)
			frame = StreamFrame{Type: FrameError, Error: &errorResponse{Code: code, Message: err.Error()}}
		} else {
			frame = StreamFrame{Type: FrameAck, Result: &res}
		}

		select {
		case replies <- frame:
		case <-ctx.Done():
			return
		}
	}
}

// writeLoop is the only writer of conn.
func (h *StreamHandler) writeLoop(ctx context.Context, conn *websocket.Conn, id string, replies <-chan StreamFrame) {
	push := time.NewTicker(h.interval)
	defer push.Stop()
	ping := time.NewTicker(streamPingInterval)
	defer ping.Stop()

	write := func(f StreamFrame) bool {
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
		return conn.WriteJSON(f) == nil
	}

	var lastTick, lastGen uint64
	sent := false
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-replies:
			if !write(f) {
				return
			}
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-push.C:
			snap, err := h.deps.Snapshot(ctx, id)
			if errors.Is(err, service.ErrMatchNotFound) || errors.Is(err, service.ErrNotStarted) {
				write(StreamFrame{Type: FrameClosed})
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "match closed"),
					time.Now().Add(streamWriteWait))
				return
			}
			if err != nil {
				continue
			}
			// A paused match does not tick; input changes reach the client through acks.
			// Reset rewinds the tick, so the generation tells a new game apart.
			if sent && snap.Tick == lastTick && snap.Generation == lastGen {
				continue
			}
			lastTick, lastGen, sent = snap.Tick, snap.Generation, true
			if !write(StreamFrame{Type: FrameSnapshot, Snapshot: &snap}) {
				return
			}
		}
	}
}
