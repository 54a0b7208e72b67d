package game

import "time"

// movePlayer steps the player one cell. It is a no-op when the target is not
// passable or when the previous move was less than one speed interval ago.
func (s *Session) movePlayer(dir Direction, now time.Duration) bool {
	p := s.Registry.Player
	if dir == DirNone {
		return false
	}
	if p.Moved && now-p.LastMoveAt < p.MoveInterval() {
		return false
	}
	target := p.Pos.Step(dir)
	if !s.Board.IsPassable(target.X, target.Y) {
		return false
	}
	p.Pos = target
	p.Facing = dir
	p.LastMoveAt, p.Moved = now, true
	s.collect(PlayerOwner, target, now)
	return true
}

// collect consumes a power-up under pos for owner. Agents only benefit from
// range pickups: they have no bomb quota and a fixed move interval.
func (s *Session) collect(owner OwnerID, pos Position, now time.Duration) {
	t, ok := PowerUpFromCell(s.Board.At(pos))
	if !ok {
		return
	}
	s.Board.Set(pos, CellEmpty)
	if owner == PlayerOwner {
		s.Registry.Player.PowerUps.Apply(t)
		s.play(CuePowerUp)
	} else if a := s.Registry.Agent(owner); a != nil && t == PowerUpRange {
		a.BlastRadius += BlastRadiusBonus
	}
	s.emit(Event{Kind: EventPowerUpCollected, At: now, Pos: pos, Owner: owner, PowerUp: t})
}

// moveAgent steps an agent onto a neighbour already known to be passable.
func (s *Session) moveAgent(a *Agent, dir Direction, now time.Duration) {
	a.Pos = a.Pos.Step(dir)
	a.Facing = dir
	a.LastMoveAt = now
	s.collect(a.ID, a.Pos, now)
}
