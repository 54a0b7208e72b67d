package game

import "time"

// PlayerView is the read-only player state exposed to collaborators.
type PlayerView struct {
	Pos      Position  `json:"pos"`
	Facing   Direction `json:"facing"`
	Lives    int       `json:"lives"`
	PowerUps PowerUps  `json:"powerups"`
}

// AgentView is the read-only state of one agent.
type AgentView struct {
	ID          OwnerID   `json:"id"`
	Pos         Position  `json:"pos"`
	Facing      Direction `json:"facing"`
	BlastRadius int       `json:"blast_radius"`
}

// BombView is a live bomb together with its remaining countdown.
type BombView struct {
	ID        int           `json:"id"`
	Owner     OwnerID       `json:"owner"`
	Pos       Position      `json:"pos"`
	Radius    int           `json:"radius"`
	Remaining time.Duration `json:"remaining"`
}

// ExplosionView is the footprint of a live explosion.
type ExplosionView struct {
	ID        int           `json:"id"`
	Origin    Position      `json:"origin"`
	Cells     []Position    `json:"cells"`
	Remaining time.Duration `json:"remaining"`
}

// Snapshot is a deep copy of the session, safe to hand to other goroutines.
type Snapshot struct {
	SessionID  string          `json:"session_id"`
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Board      [][]CellKind    `json:"board"`
	Player     PlayerView      `json:"player"`
	Agents     []AgentView     `json:"agents"`
	Bombs      []BombView      `json:"bombs"`
	Explosions []ExplosionView `json:"explosions"`
	GameTime   time.Duration   `json:"game_time"`
	Status     GameStatus      `json:"status"`
}

// Terminal reports whether the snapshot shows a finished session.
func (s Snapshot) Terminal() bool {
	return s.Status.Terminal()
}

// CellAt returns the cell kind at (x, y), or CellOutOfBounds.
func (s Snapshot) CellAt(x, y int) CellKind {
	if y < 0 || y >= len(s.Board) || x < 0 || x >= len(s.Board[y]) {
		return CellOutOfBounds
	}
	return s.Board[y][x]
}

// snapshot copies the session state. Nothing in the result aliases the session.
func (s *Session) snapshot() Snapshot {
	now := s.Clock.Now()
	p := s.Registry.Player

	snap := Snapshot{
		SessionID: s.ID,
		Width:     s.Board.Width,
		Height:    s.Board.Height,
		Board:     s.Board.Rows(),
		Player: PlayerView{
			Pos:      p.Pos,
			Facing:   p.Facing,
			Lives:    p.Lives,
			PowerUps: p.PowerUps,
		},
		Agents:     make([]AgentView, 0, len(s.Registry.Agents)),
		Bombs:      make([]BombView, 0, len(s.Registry.Bombs)),
		Explosions: make([]ExplosionView, 0, len(s.Registry.Explosions)),
		GameTime:   now,
		Status:     s.Status,
	}

	for _, a := range s.Registry.Agents {
		snap.Agents = append(snap.Agents, AgentView{
			ID:          a.ID,
			Pos:         a.Pos,
			Facing:      a.Facing,
			BlastRadius: a.BlastRadius,
		})
	}
	for _, b := range s.Registry.Bombs {
		if b.Exploded {
			continue
		}
		snap.Bombs = append(snap.Bombs, BombView{
			ID:        b.ID,
			Owner:     b.Owner,
			Pos:       b.Pos,
			Radius:    b.Radius,
			Remaining: remaining(s.Config.BombCountdown, now-b.PlacedAt),
		})
	}
	for _, ex := range s.Registry.Explosions {
		cells := make([]Position, len(ex.Cells))
		copy(cells, ex.Cells)
		snap.Explosions = append(snap.Explosions, ExplosionView{
			ID:        ex.ID,
			Origin:    ex.Origin,
			Cells:     cells,
			Remaining: remaining(s.Config.ExplosionDuration, now-ex.CreatedAt),
		})
	}
	return snap
}

func remaining(total, age time.Duration) time.Duration {
	if age >= total {
		return 0
	}
	return total - age
}
