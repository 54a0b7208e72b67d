package game

import "time"

// updateAgents runs the decision policy of every agent whose move interval
// has elapsed. Each agent acts at most once per interval: it either drops a
// bomb, flees, chases the player or wanders.
func (s *Session) updateAgents(now time.Duration) {
	for _, a := range s.Registry.Agents {
		if now-a.LastMoveAt < a.MoveInterval {
			continue
		}

		if s.shouldPlaceBomb(a, now) {
			if _, ok := s.placeBomb(a.ID, a.Pos, now); ok {
				a.LastMoveAt = now
				continue
			}
		}

		moves := s.passableMoves(a.Pos)
		if len(moves) == 0 {
			// Boxed in: the attempt still counts for the cadence.
			a.LastMoveAt = now
			continue
		}

		var dir Direction
		switch {
		case s.inDanger(a.Pos):
			dir = s.escapeDirection(a.Pos, moves, now)
		case s.rng.Float64() < s.Config.AI.ChaseChance:
			dir = chaseDirection(a.Pos, moves, s.Registry.Player.Pos)
		default:
			dir = moves[s.rng.Intn(len(moves))]
		}
		s.moveAgent(a, dir, now)
	}
}

// passableMoves lists the directions an actor at pos can step into, in
// Directions order.
func (s *Session) passableMoves(pos Position) []Direction {
	var moves []Direction
	for _, d := range Directions {
		next := pos.Step(d)
		if s.Board.IsPassable(next.X, next.Y) {
			moves = append(moves, d)
		}
	}
	return moves
}

// inDanger reports whether a bomb or a live blast lies within the danger
// square around pos.
func (s *Session) inDanger(pos Position) bool {
	r := s.Config.AI.DangerRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			k := s.Board.CellAt(pos.X+dx, pos.Y+dy)
			if k == CellBomb || k.IsExplosion() {
				return true
			}
		}
	}
	return false
}

// dangerScore rates how exposed pos is. Live bombs whose blast line crosses
// pos weigh more the closer they are to going off; live explosion cells weigh
// more the closer they are to pos.
func (s *Session) dangerScore(pos Position, now time.Duration) float64 {
	ai := s.Config.AI
	countdown := s.Config.BombCountdown
	score := 0.0

	for _, b := range s.Registry.Bombs {
		if b.Exploded {
			continue
		}
		inLine := (b.Pos.X == pos.X && abs(b.Pos.Y-pos.Y) <= b.Radius) ||
			(b.Pos.Y == pos.Y && abs(b.Pos.X-pos.X) <= b.Radius)
		if !inLine {
			continue
		}
		if countdown <= 0 {
			score += ai.BombDangerWeight
			continue
		}
		until := countdown - (now - b.PlacedAt)
		if until < 0 {
			until = 0
		}
		score += ai.BombDangerWeight * (1 - float64(until)/float64(countdown))
	}

	r := ai.DangerRadius
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if s.Board.CellAt(pos.X+dx, pos.Y+dy).IsExplosion() {
				score += ai.ExplosionDangerMax / float64(abs(dx)+abs(dy)+1)
			}
		}
	}
	return score
}

// escapeDirection picks the least dangerous move. Ties go to the earlier
// direction.
func (s *Session) escapeDirection(from Position, moves []Direction, now time.Duration) Direction {
	best := moves[0]
	bestScore := s.dangerScore(from.Step(best), now)
	for _, d := range moves[1:] {
		if score := s.dangerScore(from.Step(d), now); score < bestScore {
			best, bestScore = d, score
		}
	}
	return best
}

// chaseDirection greedily closes the Manhattan distance to target.
func chaseDirection(from Position, moves []Direction, target Position) Direction {
	best := moves[0]
	bestDist := from.Step(best).Manhattan(target)
	for _, d := range moves[1:] {
		if dist := from.Step(d).Manhattan(target); dist < bestDist {
			best, bestDist = d, dist
		}
	}
	return best
}

// shouldPlaceBomb decides whether the agent drops a bomb this interval. Outside
// its cooldown an agent attacks a player it has a clear line to. When there is
// no such target, or the attack roll fails, it may break an adjacent block.
func (s *Session) shouldPlaceBomb(a *Agent, now time.Duration) bool {
	if a.Bombed && now-a.LastBombAt < a.BombCooldown {
		return false
	}

	ai := s.Config.AI
	target := s.Registry.Player.Pos
	aligned := target.X == a.Pos.X || target.Y == a.Pos.Y
	if aligned && a.Pos.Manhattan(target) <= a.BlastRadius+ai.AttackReach && s.clearLine(a.Pos, target) {
		if s.rng.Float64() < ai.AttackChance {
			return true
		}
	}

	for _, d := range Directions {
		if s.Board.At(a.Pos.Step(d)) == CellDestructible {
			return s.rng.Float64() < ai.BreakChance
		}
	}
	return false
}

// clearLine reports whether no wall or bomb lies strictly between two aligned
// positions.
func (s *Session) clearLine(from, to Position) bool {
	step := Position{X: sign(to.X - from.X), Y: sign(to.Y - from.Y)}
	for p := (Position{X: from.X + step.X, Y: from.Y + step.Y}); p != to; p = (Position{X: p.X + step.X, Y: p.Y + step.Y}) {
		if k := s.Board.At(p); k == CellWall || k == CellBomb {
			return false
		}
	}
	return true
}

func sign(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	}
	return 0
}
