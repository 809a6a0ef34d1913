// Package match drives one bowling match: it binds the simulator, the scoring
// machine, the power-up timer and meter, and the computer opponent behind a
// single per-tick entry point.
package match

import (
	"context"
	"time"

	"github.com/okian/neonstrike/internal/domain/model"
	"github.com/okian/neonstrike/internal/domain/opponent"
	"github.com/okian/neonstrike/internal/domain/physics"
	"github.com/okian/neonstrike/internal/domain/powerup"
	"github.com/okian/neonstrike/internal/domain/scoring"
	"github.com/okian/neonstrike/pkg/logger"
	"github.com/okian/neonstrike/pkg/metrics"
)

// Input limits and defaults.
const (
	MinPower     = 20
	MaxPower     = 100
	DefaultPower = 70
	MaxSpin      = 100

	defaultSettleTicks = 90 // 1.5s at 60 ticks per second
	defaultNotifyTicks = 60
)

// Notification texts.
const (
	NotifyStrike = "STRIKE!"
	NotifySpare  = "SPARE!"
	NotifyGutter = "GUTTER"
)

// Reasons reported for ignored inputs.
const (
	reasonPaused       = "paused"
	reasonGameOver     = "game_over"
	reasonComputerTurn = "computer_turn"
	reasonNotAiming    = "not_aiming"
	reasonInvalid      = "invalid"
	reasonNoCharge     = "no_charge"
	reasonUnchanged    = "unchanged"
)

// Match is a single bowling match. It is not safe for concurrent use; the
// owner serializes Tick and every input.
type Match struct {
	id     string
	mode   model.GameMode
	tuning physics.Tuning

	sim     *physics.Simulator
	machine *scoring.Machine
	timer   *powerup.Timer
	meter   powerup.Meter
	ai      *opponent.Controller
	aiOpts  []opponent.Option

	emitter   Emitter
	log       logger.Logger
	autopilot bool

	settleTicks  int
	notifyTicks  int
	powerUpTicks int

	tick          uint64
	generation    uint64 // bumped by Reset, which rewinds tick
	paused        bool
	settling      int // ticks left in SETTLING, 0 when not settling
	settleRespawn bool
	notifyLeft    int
	notification  string
	event         *model.ScoringEvent

	power int
	spin  int
	color string
}

// New returns a match in its initial state. An unknown mode falls back to SINGLE.
func New(id string, mode model.GameMode, opts ...Option) *Match {
	if _, ok := model.ParseGameMode(string(mode)); !ok {
		mode = model.ModeSingle
	}
	m := &Match{
		id:           id,
		mode:         mode,
		tuning:       physics.DefaultTuning(),
		emitter:      nopEmitter{},
		log:          logger.Default().Named("match"),
		settleTicks:  defaultSettleTicks,
		notifyTicks:  defaultNotifyTicks,
		powerUpTicks: powerup.DefaultDuration,
		power:        DefaultPower,
		color:        model.DefaultBallColor,
	}
	for _, opt := range opts {
		opt(m)
	}

	m.sim = physics.New(m.tuning)
	m.machine = scoring.NewMachine(m.mode)
	m.timer = powerup.NewTimer(m.powerUpTicks)
	m.ai = opponent.New(m.aiOpts...)
	metrics.RecordMatchStarted(string(m.mode))
	return m
}

// ID returns the match id.
func (m *Match) ID() string { return m.id }

// Mode returns the game mode.
func (m *Match) Mode() model.GameMode { return m.mode }

// GameOver reports whether the match is finished.
func (m *Match) GameOver() bool { return m.machine.GameOver() }

// Ticks returns the number of ticks advanced since the last reset.
func (m *Match) Ticks() uint64 { return m.tick }

// ComputerTurn reports whether the computer controls the current turn.
func (m *Match) ComputerTurn() bool {
	return m.autopilot || (m.mode == model.ModeVsAI && m.machine.Player() == 2)
}

// Tick advances the match by one step. A paused match does not move.
func (m *Match) Tick(ctx context.Context) {
	if m.paused {
		return
	}
	start := time.Now()
	defer func() {
		metrics.RecordTick(float64(time.Since(start).Microseconds()) / 1000)
	}()
	m.tick++

	if expired := m.timer.Tick(); expired != model.PowerUpNone {
		m.sim.SetPowerUp(model.PowerUpNone)
		m.emit(model.CuePowerUpExpired)
		metrics.RecordPowerUpExpired(string(expired))
	}

	if m.notifyLeft > 0 {
		m.notifyLeft--
		if m.notifyLeft == 0 {
			m.notification = ""
			m.event = nil
		}
	}

	if m.settling > 0 {
		m.sim.Step()
		m.settling--
		if m.settling == 0 {
			m.sim.PrepareNextThrow(m.settleRespawn)
		}
		return
	}

	if !m.machine.GameOver() && m.ComputerTurn() && m.sim.Phase() == model.PhaseAiming {
		act := m.ai.Tick(m.tuning.LaneCenter())
		if act.Aim {
			m.sim.SetAim(act.AimX)
		}
		if act.Launch {
			m.sim.Launch(float64(m.power), float64(m.spin))
		}
	}

	res := m.sim.Step()
	for _, c := range res.Contacts {
		m.emit(c)
	}
	if res.Settled {
		m.finishThrow(ctx, res.Knocked)
	}
}

// finishThrow records a settled throw and enters SETTLING.
func (m *Match) finishThrow(ctx context.Context, knocked int) {
	knocked = min(knocked, m.machine.PinsStanding())
	out, err := m.machine.RecordThrow(knocked)
	if err != nil {
		m.log.Debug(ctx, "throw not recorded", logger.String("match_id", m.id), logger.Error(err))
		return
	}

	ev := out.Event
	m.event = &ev
	m.meter.Apply(ev)
	m.notification = notificationFor(ev)
	m.notifyLeft = m.notifyTicks

	if err := metrics.RecordThrow(outcomeLabel(ev), knocked); err != nil {
		m.log.Debug(ctx, "throw metric rejected", logger.Error(err))
	}
	if ev.Kind == model.EventStrike {
		m.emit(model.CueStrike)
	}
	if out.FrameComplete {
		metrics.RecordFrameCompleted()
	}
	if out.GameOver {
		m.finish(ctx)
	}

	m.settleRespawn = out.Respawn
	if m.settleTicks == 0 {
		m.sim.PrepareNextThrow(out.Respawn)
		return
	}
	m.settling = m.settleTicks
}

func (m *Match) finish(ctx context.Context) {
	scores := m.machine.Scores()
	for _, s := range scores {
		metrics.RecordFinalScore(s)
	}
	metrics.RecordMatchFinished(string(m.mode))
	m.ai.Cancel()
	m.log.Info(ctx, "match over",
		logger.String("match_id", m.id),
		logger.String("mode", string(m.mode)),
		logger.Any("scores", scores),
		logger.Int("winner", m.machine.Winner()),
	)
}

func notificationFor(ev model.ScoringEvent) string {
	switch {
	case ev.Kind == model.EventStrike:
		return NotifyStrike
	case ev.Kind == model.EventSpare:
		return NotifySpare
	case ev.Count == 0:
		return NotifyGutter
	}
	return ""
}

func outcomeLabel(ev model.ScoringEvent) string {
	switch ev.Kind {
	case model.EventStrike:
		return metrics.OutcomeStrike
	case model.EventSpare:
		return metrics.OutcomeSpare
	}
	return metrics.OutcomeOpen
}

func (m *Match) emit(kind model.CueKind) {
	m.emitter.Emit(model.Cue{Kind: kind, MatchID: m.id, Tick: m.tick})
}

func (m *Match) ignore(ctx context.Context, input, reason string) bool {
	metrics.RecordIgnoredInput(input, reason)
	m.log.Debug(ctx, "input ignored",
		logger.String("match_id", m.id),
		logger.String("input", input),
		logger.String("reason", reason),
	)
	return false
}

// blocked returns why a human input is refused right now, or "".
func (m *Match) blocked() string {
	switch {
	case m.machine.GameOver():
		return reasonGameOver
	case m.paused:
		return reasonPaused
	case m.ComputerTurn():
		return reasonComputerTurn
	}
	return ""
}
