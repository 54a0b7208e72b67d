package game

import "time"

// resolveDamage applies blasts to whoever stands on an explosion cell. It runs
// after detonation and expiry so a blast written this tick already counts.
func (s *Session) resolveDamage(now time.Duration) {
	s.damagePlayer(now)
	s.eliminateAgents(now)
}

func (s *Session) damagePlayer(now time.Duration) {
	p := s.Registry.Player
	if !s.Board.At(p.Pos).IsExplosion() {
		return
	}

	hitAt := p.Pos
	p.Lives--
	s.emit(Event{Kind: EventPlayerHit, At: now, Pos: hitAt})
	if p.Lives <= 0 {
		p.Lives = 0
		s.finish(StatusLost, now)
		return
	}

	p.Pos = SpawnPositions(s.Config.Width, s.Config.Height)[0]
	p.Facing = DirNone
	s.hooks.log.Debug().
		Str("session", s.ID).
		Int("lives", p.Lives).
		Msg("player hit")
}

func (s *Session) eliminateAgents(now time.Duration) {
	if len(s.Registry.Agents) == 0 {
		return
	}
	removed := s.Registry.RemoveAgents(func(a *Agent) bool {
		return s.Board.At(a.Pos).IsExplosion()
	})
	for _, a := range removed {
		s.tally.kills++
		s.tally.score += killPoints
		s.emit(Event{Kind: EventAgentEliminated, At: now, Pos: a.Pos, Owner: a.ID})
		s.hooks.log.Debug().
			Str("session", s.ID).
			Int("agent", int(a.ID)).
			Msg("agent eliminated")
	}

	// A player who died on the same tick has already ended the session.
	if len(removed) > 0 && len(s.Registry.Agents) == 0 {
		s.finish(StatusWon, now)
	}
}
