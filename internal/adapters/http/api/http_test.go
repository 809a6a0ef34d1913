package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/okian/neonstrike/internal/adapters/http/api"
	"github.com/okian/neonstrike/internal/adapters/repository"
	service "github.com/okian/neonstrike/internal/app"
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDependencies is an in-memory stand-in for the session service.
type mockDependencies struct {
	mu       sync.Mutex
	matches  map[string]*model.Snapshot
	next     int
	limit    int
	commands []service.Command
	frozen   bool
}

func newMockDependencies() *mockDependencies {
	return &mockDependencies{matches: make(map[string]*model.Snapshot), limit: 2}
}

func (m *mockDependencies) CreateMatch(_ context.Context, mode model.GameMode) (model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mode == "" {
		mode = model.ModeSingle
	}
	if _, ok := model.ParseGameMode(string(mode)); !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %q", service.ErrInvalidMode, mode)
	}
	if len(m.matches) >= m.limit {
		return model.Snapshot{}, service.ErrTooManyMatches
	}
	m.next++
	id := fmt.Sprintf("m-%d", m.next)
	snap := &model.Snapshot{MatchID: id, Mode: mode, Phase: model.PhaseAiming, CurrentFrame: 1, CurrentPlayer: 1, Power: 70}
	m.matches[id] = snap
	return *snap, nil
}

func (m *mockDependencies) Snapshot(_ context.Context, id string) (model.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.matches[id]
	if !ok {
		return model.Snapshot{}, fmt.Errorf("%w: %s", service.ErrMatchNotFound, id)
	}
	if !m.frozen {
		snap.Tick++
	}
	return *snap, nil
}

// freeze stops the tick from moving, as a paused match would.
func (m *mockDependencies) freeze() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.frozen = true
}

// reset starts the match over the way the engine does: tick back to zero and
// a new generation.
func (m *mockDependencies) reset(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap, ok := m.matches[id]; ok {
		snap.Tick = 0
		snap.Generation++
	}
}

func (m *mockDependencies) ListMatches(_ context.Context) []types.MatchSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.MatchSummary, 0, len(m.matches))
	for _, s := range m.matches {
		out = append(out, types.Summarize(*s))
	}
	return out
}

func (m *mockDependencies) DeleteMatch(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[id]; !ok {
		return fmt.Errorf("%w: %s", service.ErrMatchNotFound, id)
	}
	delete(m.matches, id)
	return nil
}

func (m *mockDependencies) Apply(_ context.Context, id string, cmd service.Command) (service.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap, ok := m.matches[id]
	if !ok {
		return service.Result{}, fmt.Errorf("%w: %s", service.ErrMatchNotFound, id)
	}
	for _, seen := range m.commands {
		if cmd.ID != "" && seen.ID == cmd.ID {
			return service.Result{Duplicate: true, Snapshot: *snap}, nil
		}
	}
	if cmd.Kind != service.CmdPower {
		return service.Result{}, fmt.Errorf("%w: %q", service.ErrUnknownCommand, cmd.Kind)
	}
	m.commands = append(m.commands, cmd)
	snap.Power = int(cmd.Value)
	return service.Result{Accepted: true, Snapshot: *snap}, nil
}

func (m *mockDependencies) HighScores(_ context.Context, n int) ([]repository.Entry, error) {
	if n < 1 {
		return nil, repository.ErrInvalidLimit
	}
	board := []repository.Entry{
		{Rank: 1, ID: "m-1/p1", MatchID: "m-1", Player: 1, Mode: "SINGLE", Score: 300},
		{Rank: 2, ID: "m-2/p2", MatchID: "m-2", Player: 2, Mode: "VS_AI", Score: 212},
		{Rank: 3, ID: "m-2/p1", MatchID: "m-2", Player: 1, Mode: "VS_AI", Score: 97},
	}
	return board[:min(n, len(board))], nil
}

type mockStatsProvider struct{}

func (mockStatsProvider) GetStats() types.Stats {
	return types.Stats{ActiveMatches: 1, MaxMatches: 2, TickRate: 60}
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStatsProvider{}, api.WithStreamInterval(5*time.Millisecond)).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestServer_Register(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDependencies())

		Convey("Then the health endpoint serves metrics", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then the stats endpoint serves service stats", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)

			var st types.Stats
			So(json.Unmarshal(w.Body.Bytes(), &st), ShouldBeNil)
			So(st.MaxMatches, ShouldEqual, 2)
		})

		Convey("Then the wrong method is refused", func() {
			w := do(mux, http.MethodPut, "/matches", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestMatchesHandler(t *testing.T) {
	Convey("Given the match routes", t, func() {
		deps := newMockDependencies()
		mux := newMux(deps)

		Convey("When creating a match", func() {
			w := do(mux, http.MethodPost, "/matches", `{"mode":"VS_AI"}`)

			Convey("Then it returns 201 with the snapshot", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(w.Header().Get("Location"), ShouldEqual, "/matches/m-1")

				var snap model.Snapshot
				So(json.Unmarshal(w.Body.Bytes(), &snap), ShouldBeNil)
				So(snap.Mode, ShouldEqual, model.ModeVsAI)
			})
		})

		Convey("When creating a match without a body", func() {
			w := do(mux, http.MethodPost, "/matches", "")

			Convey("Then the default mode is used", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
			})
		})

		Convey("When creating a match with bad input", func() {
			malformed := do(mux, http.MethodPost, "/matches", `{"mode":`)
			unknown := do(mux, http.MethodPost, "/matches", `{"mode":"TEAMS"}`)
			extra := do(mux, http.MethodPost, "/matches", `{"mode":"SINGLE","lanes":3}`)

			Convey("Then each is a 400", func() {
				So(malformed.Code, ShouldEqual, http.StatusBadRequest)
				So(unknown.Code, ShouldEqual, http.StatusBadRequest)
				So(extra.Code, ShouldEqual, http.StatusBadRequest)
				So(unknown.Body.String(), ShouldContainSubstring, "api.create_match")
			})
		})

		Convey("When the match limit is reached", func() {
			do(mux, http.MethodPost, "/matches", "")
			do(mux, http.MethodPost, "/matches", "")
			w := do(mux, http.MethodPost, "/matches", "")

			Convey("Then it returns 429", func() {
				So(w.Code, ShouldEqual, http.StatusTooManyRequests)
				So(w.Body.String(), ShouldContainSubstring, `"code":"capacity"`)
			})
		})

		Convey("When reading, listing and deleting", func() {
			do(mux, http.MethodPost, "/matches", "")
			got := do(mux, http.MethodGet, "/matches/m-1", "")
			list := do(mux, http.MethodGet, "/matches", "")
			del := do(mux, http.MethodDelete, "/matches/m-1", "")
			missing := do(mux, http.MethodGet, "/matches/m-1", "")

			Convey("Then each route answers with its status", func() {
				So(got.Code, ShouldEqual, http.StatusOK)
				So(list.Code, ShouldEqual, http.StatusOK)
				var sums []types.MatchSummary
				So(json.Unmarshal(list.Body.Bytes(), &sums), ShouldBeNil)
				So(len(sums), ShouldEqual, 1)
				So(del.Code, ShouldEqual, http.StatusNoContent)
				So(missing.Code, ShouldEqual, http.StatusNotFound)
			})
		})

		Convey("When posting commands", func() {
			do(mux, http.MethodPost, "/matches", "")
			ok := do(mux, http.MethodPost, "/matches/m-1/commands", `{"command_id":"c1","kind":"power","value":90}`)
			dup := do(mux, http.MethodPost, "/matches/m-1/commands", `{"command_id":"c1","kind":"power","value":90}`)
			bad := do(mux, http.MethodPost, "/matches/m-1/commands", `{"kind":"dance"}`)
			empty := do(mux, http.MethodPost, "/matches/m-1/commands", `{}`)
			lost := do(mux, http.MethodPost, "/matches/zzz/commands", `{"kind":"power","value":50}`)

			Convey("Then results and errors are mapped", func() {
				So(ok.Code, ShouldEqual, http.StatusOK)
				var res service.Result
				So(json.Unmarshal(ok.Body.Bytes(), &res), ShouldBeNil)
				So(res.Accepted, ShouldBeTrue)
				So(res.Snapshot.Power, ShouldEqual, 90)

				So(dup.Code, ShouldEqual, http.StatusOK)
				So(dup.Body.String(), ShouldContainSubstring, `"duplicate":true`)

				So(bad.Code, ShouldEqual, http.StatusBadRequest)
				So(empty.Code, ShouldEqual, http.StatusBadRequest)
				So(lost.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestStreamHandler(t *testing.T) {
	Convey("Given a running API server with one match", t, func() {
		deps := newMockDependencies()
		srv := httptest.NewServer(newMux(deps))
		defer srv.Close()
		_, _ = deps.CreateMatch(context.Background(), model.ModeSingle)
		wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/matches/m-1/stream"

		Convey("When a client connects", func() {
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
			So(err, ShouldBeNil)
			defer func() { _ = conn.Close() }()
			So(resp.StatusCode, ShouldEqual, http.StatusSwitchingProtocols)
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

			Convey("Then it receives snapshots and command acks", func() {
				var first api.StreamFrame
				So(conn.ReadJSON(&first), ShouldBeNil)
				So(first.Type, ShouldEqual, api.FrameSnapshot)
				So(first.Snapshot.MatchID, ShouldEqual, "m-1")

				So(conn.WriteJSON(service.Command{Kind: service.CmdPower, Value: 55}), ShouldBeNil)
				var ack api.StreamFrame
				for ack.Type != api.FrameAck {
					ack = api.StreamFrame{}
					So(conn.ReadJSON(&ack), ShouldBeNil)
				}
				So(ack.Result.Accepted, ShouldBeTrue)
				So(ack.Result.Snapshot.Power, ShouldEqual, 55)
			})

			Convey("Then a rejected command comes back as an error frame", func() {
				So(conn.WriteJSON(service.Command{Kind: "moonwalk"}), ShouldBeNil)
				var frame api.StreamFrame
				for frame.Type != api.FrameError {
					frame = api.StreamFrame{}
					So(conn.ReadJSON(&frame), ShouldBeNil)
				}
				So(frame.Error.Code, ShouldEqual, "bad_request")
			})

			Convey("Then deleting the match closes the stream", func() {
				So(deps.DeleteMatch(context.Background(), "m-1"), ShouldBeNil)
				var frame api.StreamFrame
				for frame.Type != api.FrameClosed {
					frame = api.StreamFrame{}
					So(conn.ReadJSON(&frame), ShouldBeNil)
				}
				_, _, err := conn.ReadMessage()
				So(websocket.IsCloseError(err, websocket.CloseNormalClosure), ShouldBeTrue)
			})
		})

		Convey("When the match is reset back to the tick the client last saw", func() {
			deps.freeze()
			conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
			So(err, ShouldBeNil)
			defer func() { _ = conn.Close() }()
			_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

			var first api.StreamFrame
			So(conn.ReadJSON(&first), ShouldBeNil)
			So(first.Snapshot.Tick, ShouldEqual, uint64(0))
			So(first.Snapshot.Generation, ShouldEqual, uint64(0))
			deps.reset("m-1")

			Convey("Then the new game is still pushed", func() {
				var frame api.StreamFrame
				for frame.Snapshot == nil || frame.Snapshot.Generation == 0 {
					frame = api.StreamFrame{}
					So(conn.ReadJSON(&frame), ShouldBeNil)
				}
				So(frame.Type, ShouldEqual, api.FrameSnapshot)
				So(frame.Snapshot.Tick, ShouldEqual, uint64(0))
				So(frame.Snapshot.Generation, ShouldEqual, uint64(1))
			})
		})

		Convey("When a client asks for an unknown match", func() {
			_, resp, err := websocket.DefaultDialer.Dial(strings.Replace(wsURL, "m-1", "m-9", 1), nil)

			Convey("Then the handshake is refused with 404", func() {
				So(errors.Is(err, websocket.ErrBadHandshake), ShouldBeTrue)
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestErrorKinds(t *testing.T) {
	Convey("Given API error helpers", t, func() {
		cause := errors.New("boom")

		Convey("Then WrapKind keeps both the kind and the cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then NewKind and Wrap format the op", func() {
			So(api.NewKind("api.op", api.ErrCapacity).Error(), ShouldEqual, "api.op: capacity exceeded")
			So(api.Wrap("api.op", cause).Error(), ShouldEqual, "api.op: boom")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})
	})
}

func TestHighScoresHandler(t *testing.T) {
	Convey("Given the high score route", t, func() {
		mux := newMux(newMockDependencies())

		Convey("When no limit is given", func() {
			w := do(mux, http.MethodGet, "/highscores", "")

			Convey("Then the whole board up to the default is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []repository.Entry
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Score, ShouldEqual, 300)
			})
		})

		Convey("When a limit is given", func() {
			w := do(mux, http.MethodGet, "/highscores?limit=2", "")

			Convey("Then at most that many entries are returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var entries []repository.Entry
				So(json.Unmarshal(w.Body.Bytes(), &entries), ShouldBeNil)
				So(len(entries), ShouldEqual, 2)
			})
		})

		Convey("When the limit is invalid", func() {
			zero := do(mux, http.MethodGet, "/highscores?limit=0", "")
			junk := do(mux, http.MethodGet, "/highscores?limit=ten", "")
			huge := do(mux, http.MethodGet, "/highscores?limit=1000", "")

			Convey("Then each is a 400", func() {
				So(zero.Code, ShouldEqual, http.StatusBadRequest)
				So(junk.Code, ShouldEqual, http.StatusBadRequest)
				So(huge.Code, ShouldEqual, http.StatusBadRequest)
				So(huge.Body.String(), ShouldContainSubstring, "limit_exceeded")
			})
		})
	})
}
