package service_test

import (
	"context"
	"errors"
	"testing"

	service "github.com/okian/neonstrike/internal/app"
	"github.com/okian/neonstrike/internal/domain/match"
	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/opponent"
	"github.com/okian/neonstrike/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

// newManual returns a started service whose matches only move through Advance.
func newManual(opts ...service.Option) *service.Service {
	base := []service.Option{
		service.WithAutoTick(false),
		service.WithMatchOptions(match.WithSettleTicks(0)),
	}
	svc := service.New(append(base, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		panic(err)
	}
	return svc
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service that was never started", t, func() {
		svc := service.New()
		ctx := context.Background()

		Convey("When creating a match", func() {
			_, err := svc.CreateMatch(ctx, model.ModeSingle)

			Convey("Then it should fail with ErrNotStarted", func() {
				So(err, ShouldEqual, service.ErrNotStarted)
			})
		})

		Convey("When starting twice and stopping twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)
			svc.Stop()
			svc.Stop()

			Convey("Then lookups report ErrNotStarted", func() {
				_, err := svc.Snapshot(ctx, "anything")
				So(err, ShouldEqual, service.ErrNotStarted)
			})
		})
	})
}

func TestService_CreateMatch(t *testing.T) {
	Convey("Given a started service limited to two matches", t, func() {
		svc := newManual(service.WithMaxMatches(2))
		defer svc.Stop()
		ctx := context.Background()

		Convey("When creating a match with an empty mode", func() {
			snap, err := svc.CreateMatch(ctx, "")

			Convey("Then it is a single player match at frame 1", func() {
				So(err, ShouldBeNil)
				So(snap.MatchID, ShouldNotBeEmpty)
				So(snap.Mode, ShouldEqual, model.ModeSingle)
				So(snap.CurrentFrame, ShouldEqual, 1)
				So(snap.Phase, ShouldEqual, model.PhaseAiming)
			})
		})

		Convey("When creating a match with an unknown mode", func() {
			_, err := svc.CreateMatch(ctx, "TEAMS")

			Convey("Then it should fail with ErrInvalidMode", func() {
				So(errors.Is(err, service.ErrInvalidMode), ShouldBeTrue)
			})
		})

		Convey("When exceeding the match limit", func() {
			_, err1 := svc.CreateMatch(ctx, model.ModeSingle)
			_, err2 := svc.CreateMatch(ctx, model.ModeVsAI)
			_, err3 := svc.CreateMatch(ctx, model.ModeSingle)

			Convey("Then the third match is refused", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(errors.Is(err3, service.ErrTooManyMatches), ShouldBeTrue)
				So(len(svc.ListMatches(ctx)), ShouldEqual, 2)
				So(svc.GetStats().ActiveMatches, ShouldEqual, 2)
			})
		})

		Convey("When deleting a match", func() {
			snap, _ := svc.CreateMatch(ctx, model.ModeSingle)
			err := svc.DeleteMatch(ctx, snap.MatchID)

			Convey("Then it is gone", func() {
				So(err, ShouldBeNil)
				_, err = svc.Snapshot(ctx, snap.MatchID)
				So(errors.Is(err, service.ErrMatchNotFound), ShouldBeTrue)
				So(errors.Is(svc.DeleteMatch(ctx, snap.MatchID), service.ErrMatchNotFound), ShouldBeTrue)
				So(svc.ListMatches(ctx), ShouldBeEmpty)
			})
		})
	})
}

func TestService_Apply(t *testing.T) {
	Convey("Given a single player match", t, func() {
		svc := newManual()
		defer svc.Stop()
		ctx := context.Background()
		snap, err := svc.CreateMatch(ctx, model.ModeSingle)
		So(err, ShouldBeNil)
		id := snap.MatchID

		Convey("When setting the power", func() {
			res, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdPower, Value: 85})

			Convey("Then the input is accepted and visible", func() {
				So(err, ShouldBeNil)
				So(res.Accepted, ShouldBeTrue)
				So(res.Duplicate, ShouldBeFalse)
				So(res.Snapshot.Power, ShouldEqual, 85)
			})
		})

		Convey("When power and spin arrive far outside the int range", func() {
			power, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdPower, Value: 1e20})
			So(err, ShouldBeNil)
			spinHigh, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdSpin, Value: 1e20})
			So(err, ShouldBeNil)
			spinLow, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdSpin, Value: -1e20})
			So(err, ShouldBeNil)
			weak, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdPower, Value: -1e20})
			So(err, ShouldBeNil)

			Convey("Then each is clamped to the nearer limit", func() {
				So(power.Snapshot.Power, ShouldEqual, match.MaxPower)
				So(spinHigh.Snapshot.Spin, ShouldEqual, match.MaxSpin)
				So(spinLow.Snapshot.Spin, ShouldEqual, -match.MaxSpin)
				So(weak.Snapshot.Power, ShouldEqual, match.MinPower)
			})
		})

		Convey("When the same command id arrives twice", func() {
			first, _ := svc.Apply(ctx, id, service.Command{ID: "c-1", Kind: service.CmdSpin, Value: 40})
			_, _ = svc.Apply(ctx, id, service.Command{Kind: service.CmdSpin, Value: -10})
			second, err := svc.Apply(ctx, id, service.Command{ID: "c-1", Kind: service.CmdSpin, Value: 40})

			Convey("Then the retry is acknowledged without re-applying", func() {
				So(err, ShouldBeNil)
				So(first.Accepted, ShouldBeTrue)
				So(second.Duplicate, ShouldBeTrue)
				So(second.Snapshot.Spin, ShouldEqual, -10)
				So(svc.GetStats().Duplicates, ShouldEqual, uint64(1))
			})
		})

		Convey("When a command kind is unknown", func() {
			_, err := svc.Apply(ctx, id, service.Command{ID: "c-2", Kind: "bowl-harder"})

			Convey("Then it fails and its id stays usable", func() {
				So(errors.Is(err, service.ErrUnknownCommand), ShouldBeTrue)
				res, err := svc.Apply(ctx, id, service.Command{ID: "c-2", Kind: service.CmdPause})
				So(err, ShouldBeNil)
				So(res.Duplicate, ShouldBeFalse)
				So(res.Snapshot.Paused, ShouldBeTrue)
			})
		})

		Convey("When an input is refused by the match", func() {
			_, _ = svc.Apply(ctx, id, service.Command{Kind: service.CmdPause})
			res, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdLaunch})

			Convey("Then Apply succeeds but reports it as not accepted", func() {
				So(err, ShouldBeNil)
				So(res.Accepted, ShouldBeFalse)
				So(res.Snapshot.Phase, ShouldEqual, model.PhaseAiming)
			})
		})

		Convey("When the match does not exist", func() {
			_, err := svc.Apply(ctx, "nope", service.Command{Kind: service.CmdLaunch})

			Convey("Then it fails with ErrMatchNotFound", func() {
				So(errors.Is(err, service.ErrMatchNotFound), ShouldBeTrue)
			})
		})

		Convey("When a throw is launched and the match advanced", func() {
			_, _ = svc.Apply(ctx, id, service.Command{Kind: service.CmdPower, Value: 100})
			res, _ := svc.Apply(ctx, id, service.Command{Kind: service.CmdLaunch})
			So(res.Accepted, ShouldBeTrue)
			So(res.Snapshot.Phase, ShouldEqual, model.PhaseRolling)

			after, err := svc.Advance(ctx, id, 1500)

			Convey("Then the throw is recorded and the lane is ready again", func() {
				So(err, ShouldBeNil)
				So(after.Phase, ShouldEqual, model.PhaseAiming)
				So(len(after.Histories[0]), ShouldEqual, 1)
				So(len(after.Histories[0][0].Throws), ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When switching mode by command", func() {
			res, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdMode, Token: string(model.ModeMultiplayer)})

			Convey("Then the match resets into two player mode", func() {
				So(err, ShouldBeNil)
				So(res.Accepted, ShouldBeTrue)
				So(res.Snapshot.Mode, ShouldEqual, model.ModeMultiplayer)
				So(res.Snapshot.Scores, ShouldResemble, []int{0, 0})
			})
		})
	})
}

// playOut advances a match until game over or the tick budget runs out.
func playOut(ctx context.Context, svc *service.Service, id string) model.Snapshot {
	var snap model.Snapshot
	for i := 0; i < 40 && !snap.GameOver; i++ {
		snap, _ = svc.Advance(ctx, id, 2500)
	}
	return snap
}

func TestService_HighScores(t *testing.T) {
	Convey("Given a computer-played multiplayer match", t, func() {
		ctx := context.Background()
		svc := newManual(service.WithMatchOptions(
			match.WithAutopilot(true),
			match.WithOpponent(opponent.WithSeed(11), opponent.WithPickTicks(1), opponent.WithLaunchTicks(1)),
		))
		defer svc.Stop()

		snap, err := svc.CreateMatch(ctx, model.ModeMultiplayer)
		So(err, ShouldBeNil)
		id := snap.MatchID

		Convey("When nothing has finished yet", func() {
			top, err := svc.HighScores(ctx, 10)

			Convey("Then the board is empty", func() {
				So(err, ShouldBeNil)
				So(top, ShouldBeEmpty)
				So(svc.GetStats().HighScores, ShouldEqual, 0)
			})
		})

		Convey("When the match is played to the end", func() {
			final := playOut(ctx, svc, id)
			So(final.GameOver, ShouldBeTrue)

			Convey("Then both seats are on the board once", func() {
				_, _ = svc.Advance(ctx, id, 100)
				top, err := svc.HighScores(ctx, 10)
				So(err, ShouldBeNil)
				So(len(top), ShouldEqual, 2)
				So(svc.GetStats().HighScores, ShouldEqual, 2)
				for _, e := range top {
					So(e.MatchID, ShouldEqual, id)
					So(e.Mode, ShouldEqual, string(model.ModeMultiplayer))
					So(e.Score, ShouldEqual, final.Scores[e.Player-1])
				}
				So(top[0].Score, ShouldBeGreaterThanOrEqualTo, top[1].Score)
			})

			Convey("Then a reset game that finishes again keeps one entry per seat", func() {
				_, err := svc.Apply(ctx, id, service.Command{Kind: service.CmdReset})
				So(err, ShouldBeNil)
				again := playOut(ctx, svc, id)
				So(again.GameOver, ShouldBeTrue)
				So(svc.GetStats().HighScores, ShouldEqual, 2)
			})

			Convey("Then an invalid limit is refused", func() {
				_, err := svc.HighScores(ctx, 0)
				So(err, ShouldNotBeNil)
			})
		})
	})
}

// computerAim plays the human seat until the computer's first throw is rolling
// and returns where it aimed.
func computerAim(ctx context.Context, svc *service.Service, id string) float64 {
	for i := 0; i < 20000; i++ {
		snap, err := svc.Snapshot(ctx, id)
		if err != nil {
			return 0
		}
		if snap.CurrentPlayer == 2 && snap.Phase == model.PhaseRolling {
			return snap.AimX
		}
		if snap.CurrentPlayer == 1 && snap.Phase == model.PhaseAiming {
			_, _ = svc.Apply(ctx, id, service.Command{Kind: service.CmdLaunch})
		}
		_, _ = svc.Advance(ctx, id, 1)
	}
	return 0
}

func TestService_OpponentSeed(t *testing.T) {
	Convey("Given a service with a fixed opponent seed", t, func() {
		ctx := context.Background()
		svc := newManual(service.WithOpponentSeed(7))
		defer svc.Stop()

		Convey("When two computer matches are created", func() {
			first, err := svc.CreateMatch(ctx, model.ModeVsAI)
			So(err, ShouldBeNil)
			second, err := svc.CreateMatch(ctx, model.ModeVsAI)
			So(err, ShouldBeNil)

			a := computerAim(ctx, svc, first.MatchID)
			b := computerAim(ctx, svc, second.MatchID)

			Convey("Then the computer aims differently in each", func() {
				So(a, ShouldNotEqual, 0)
				So(b, ShouldNotEqual, 0)
				So(a, ShouldNotEqual, b)
			})

			Convey("Then a fresh service with the same seed repeats the first match", func() {
				again := newManual(service.WithOpponentSeed(7))
				defer again.Stop()
				snap, err := again.CreateMatch(ctx, model.ModeVsAI)
				So(err, ShouldBeNil)
				So(computerAim(ctx, again, snap.MatchID), ShouldEqual, a)
			})
		})
	})
}
