package game

import (
	"math"
	"time"
)

// ray is one of the four blast directions with its cell shapes.
type ray struct {
	dir Direction
	arm CellKind
	tip CellKind
}

var rays = []ray{
	{dir: DirRight, arm: CellExplosionHorizontal, tip: CellExplosionTipRight},
	{dir: DirLeft, arm: CellExplosionHorizontal, tip: CellExplosionTipLeft},
	{dir: DirDown, arm: CellExplosionVertical, tip: CellExplosionTipDown},
	{dir: DirUp, arm: CellExplosionVertical, tip: CellExplosionTipUp},
}

// tickBombs detonates every live bomb whose countdown has run out.
// Bombs chained by an earlier detonation in this loop are already marked
// exploded and are skipped.
func (s *Session) tickBombs(now time.Duration) {
	s.absorbed = nil
	for _, b := range s.Registry.Bombs {
		if !b.Exploded && now-b.PlacedAt >= s.Config.BombCountdown {
			s.detonate(b, now, false)
		}
	}
}

// detonate converts a bomb into an explosion. It is idempotent per bomb:
// a bomb reached again through a chain is never detonated twice.
//
// Each ray walks up to the bomb's captured radius:
//   - walls and the grid edge stop the ray without being marked
//   - a destructible is marked, may seed a power-up, and stops the ray;
//     a bomb chained later in the same pass still sees the broken block
//     and stops there too
//   - another live bomb is detonated first (same now), then the ray goes on
//   - anything else is marked and the ray goes on
//
// The last cell marked on a ray is a directional tip, the others are arms.
func (s *Session) detonate(b *Bomb, now time.Duration, chained bool) *Explosion {
	if b.Exploded {
		return nil
	}
	b.Exploded = true
	s.Board.Set(b.Pos, CellExplosionCenter)

	cells := []Position{b.Pos}
	destroyed := 0
	for _, r := range rays {
		d := r.dir.Delta()
		var placed []Position
		for i := 1; i <= b.Radius; i++ {
			pos := Position{
				X: b.Pos.X + d.X*i,
				Y: b.Pos.Y + d.Y*i,
			}

			kind := s.Board.At(pos)
			if kind == CellOutOfBounds || kind == CellWall {
				break
			}

			if chained && s.absorbed[pos] {
				s.markRay(pos, r.arm)
				placed = append(placed, pos)
				break
			}

			if kind == CellDestructible {
				if s.absorbed == nil {
					s.absorbed = make(map[Position]bool)
				}
				s.absorbed[pos] = true
				s.markRay(pos, r.arm)
				placed = append(placed, pos)
				destroyed++
				s.emit(Event{Kind: EventBlockDestroyed, At: now, Pos: pos, Owner: b.Owner})
				if t, ok := RollPowerUp(s.rng, s.Config.PowerUpChance); ok {
					at := now + s.Config.ExplosionDuration + s.Config.PowerUpSeedBuffer
					s.Scheduler.Schedule(at, pos, t)
				}
				break
			}

			// Chain reaction: the other bomb's blast is computed on its own
			// and may reach further than this ray.
			if other := s.Registry.LiveBombAt(pos); other != nil {
				s.detonate(other, now, true)
			}

			s.markRay(pos, r.arm)
			placed = append(placed, pos)
		}
		if n := len(placed); n > 0 {
			s.markRay(placed[n-1], r.tip)
		}
		cells = append(cells, placed...)
	}

	ex := s.Registry.AddExplosion(b, cells, now)

	if b.Owner == PlayerOwner && destroyed > 0 {
		s.tally.blocks += destroyed
		s.tally.score += blockScore(destroyed)
	}

	s.play(CueExplosion)
	s.emit(Event{Kind: EventDetonation, At: now, Pos: b.Pos, Owner: b.Owner, Chain: chained})
	s.hooks.log.Debug().
		Str("session", s.ID).
		Int("bomb", b.ID).
		Int("x", b.Pos.X).
		Int("y", b.Pos.Y).
		Int("cells", len(cells)).
		Bool("chain", chained).
		Msg("bomb detonated")
	return ex
}

// markRay writes an arm or tip shape unless the cell is the centre of another
// bomb that went off in the same pass.
func (s *Session) markRay(pos Position, kind CellKind) {
	if s.Board.At(pos) == CellExplosionCenter {
		return
	}
	s.Board.Set(pos, kind)
}

// blockScore applies the multi-block multiplier of a single detonation.
func blockScore(blocks int) int {
	multiplier := 1.0
	switch {
	case blocks >= 4:
		multiplier = 2.0
	case blocks == 3:
		multiplier = 1.6
	case blocks == 2:
		multiplier = 1.2
	}
	return int(math.Round(float64(blocks*blockPoints) * multiplier))
}

// expireExplosions removes explosions whose visual window has elapsed. A cell
// goes back to empty only if no surviving explosion still covers it.
func (s *Session) expireExplosions(now time.Duration) {
	expired := s.Registry.RemoveExpired(now, s.Config.ExplosionDuration)
	if len(expired) == 0 {
		return
	}
	claimed := s.Registry.ClaimedCells()
	for _, ex := range expired {
		for _, c := range ex.Cells {
			if claimed[c] {
				continue
			}
			if s.Board.At(c).IsExplosion() {
				s.Board.Set(c, CellEmpty)
			}
		}
	}
}

// fireSeeds materializes power-ups whose delay has elapsed. A seed only lands
// on a cell that is empty at that instant; otherwise it is dropped.
func (s *Session) fireSeeds(now time.Duration) {
	for _, seed := range s.Scheduler.Due(now) {
		if s.Board.At(seed.Pos) != CellEmpty {
			continue
		}
		s.Board.Set(seed.Pos, seed.Type.Cell())
		s.emit(Event{Kind: EventPowerUpSeeded, At: now, Pos: seed.Pos, PowerUp: seed.Type})

		// Someone already standing there picks it up straight away.
		if s.Registry.Player.Pos == seed.Pos {
			s.collect(PlayerOwner, seed.Pos, now)
			continue
		}
		for _, a := range s.Registry.Agents {
			if a.Pos == seed.Pos {
				s.collect(a.ID, seed.Pos, now)
				break
			}
		}
	}
}
