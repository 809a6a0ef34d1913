package match

import "github.com/okian/neonstrike/internal/domain/model"

// Snapshot returns a copy of the match state for render and HUD collaborators.
func (m *Match) Snapshot() model.Snapshot {
	players := m.mode.Players()
	histories := make([][]model.FrameResult, players)
	for p := 1; p <= players; p++ {
		histories[p-1] = m.machine.History(p)
	}

	s := model.Snapshot{
		MatchID:          m.id,
		Mode:             m.mode,
		Tick:             m.tick,
		Generation:       m.generation,
		Phase:            m.phase(),
		SettleTicks:      m.settling,
		Scores:           m.machine.Scores(),
		Histories:        histories,
		CurrentFrame:     m.machine.Frame(),
		CurrentPlayer:    m.machine.Player(),
		ActivePowerUp:    m.timer.Active(),
		PowerUpRemaining: m.timer.Remaining(),
		Charge:           m.meter.Charge(),
		GameOver:         m.machine.GameOver(),
		Winner:           m.machine.Winner(),
		Paused:           m.paused,
		Notification:     m.notification,
		Ball:             m.sim.Ball(),
		Pins:             m.sim.Pins(),
		StandingPins:     m.sim.StandingPins(),
		AimX:             m.sim.AimX(),
		Power:            m.power,
		Spin:             m.spin,
		BallSize:         m.sim.Size(),
		BallColor:        m.color,
		ComputerTurn:     m.ComputerTurn() && !m.machine.GameOver(),
	}
	if m.event != nil {
		ev := *m.event
		s.Event = &ev
	}
	return s
}

func (m *Match) phase() model.Phase {
	switch {
	case m.settling > 0:
		return model.PhaseSettling
	case m.machine.GameOver() && m.sim.Phase() != model.PhaseRolling:
		return model.PhaseSettled
	}
	return m.sim.Phase()
}
