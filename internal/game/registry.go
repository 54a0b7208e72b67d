package game

import "time"

// OwnerID identifies who placed a bomb. The player is always PlayerOwner;
// agents are numbered from 1.
type OwnerID int

const PlayerOwner OwnerID = 0

// All timestamps below are simulated time since the session started.

// Bomb is a placed, ticking bomb. Radius is captured at placement.
type Bomb struct {
	ID       int           `json:"id"`
	Owner    OwnerID       `json:"owner"`
	Pos      Position      `json:"pos"`
	PlacedAt time.Duration `json:"placed_at"`
	Radius   int           `json:"radius"`
	Exploded bool          `json:"exploded"`
}

// Explosion is the visual and lethal footprint of one detonation.
type Explosion struct {
	ID        int           `json:"id"`
	BombID    int           `json:"bomb_id"`
	Owner     OwnerID       `json:"owner"`
	Origin    Position      `json:"origin"`
	CreatedAt time.Duration `json:"created_at"`
	Radius    int           `json:"radius"`
	Cells     []Position    `json:"cells"`
}

// Player is the human-controlled character.
type Player struct {
	Pos        Position      `json:"pos"`
	Facing     Direction     `json:"facing"`
	Lives      int           `json:"lives"`
	PowerUps   PowerUps      `json:"powerups"`
	LastMoveAt time.Duration `json:"last_move_at"`
	Moved      bool          `json:"moved"`
	LastBombAt time.Duration `json:"last_bomb_at"`
	Bombed     bool          `json:"bombed"`
}

// MoveInterval is the minimum simulated time between two accepted moves.
func (p *Player) MoveInterval() time.Duration {
	if p.PowerUps.Speed <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / p.PowerUps.Speed)
}

// Agent is a computer-controlled opponent. One hit eliminates it.
type Agent struct {
	ID           OwnerID       `json:"id"`
	Pos          Position      `json:"pos"`
	Facing       Direction     `json:"facing"`
	LastMoveAt   time.Duration `json:"last_move_at"`
	MoveInterval time.Duration `json:"move_interval"`
	BombCooldown time.Duration `json:"bomb_cooldown"`
	LastBombAt   time.Duration `json:"last_bomb_at"`
	Bombed       bool          `json:"bombed"` // LastBombAt is meaningful only when set
	BlastRadius  int           `json:"blast_radius"`
}

// Registry owns every live entity of one session.
type Registry struct {
	Bombs      []*Bomb
	Explosions []*Explosion
	Player     *Player
	Agents     []*Agent

	placementCooldown time.Duration
	nextBombID        int
	nextExplosionID   int
}

// NewRegistry spawns the player and the agent roster for a fresh session.
func NewRegistry(config GameConfig) *Registry {
	spawns := SpawnPositions(config.Width, config.Height)
	r := &Registry{
		Player: &Player{
			Pos:   spawns[0],
			Lives: config.StartingLives,
			PowerUps: PowerUps{
				BombCapacity: config.BombCapacity,
				BlastRadius:  config.BlastRadius,
				Speed:        config.Speed,
			},
		},
		placementCooldown: config.PlacementCooldown,
	}

	n := config.AI.Agents
	if n > len(spawns)-1 {
		n = len(spawns) - 1
	}
	for i := 0; i < n; i++ {
		r.Agents = append(r.Agents, &Agent{
			ID:           OwnerID(i + 1),
			Pos:          spawns[i+1],
			MoveInterval: config.AI.MoveInterval - time.Duration(i)*config.AI.MoveIntervalStep,
			BombCooldown: config.AI.BombCooldown + time.Duration(i)*config.AI.BombCooldownStep,
			BlastRadius:  config.BlastRadius,
		})
	}
	return r
}

// LiveBombAt returns the not-yet-exploded bomb at pos, if any.
func (r *Registry) LiveBombAt(pos Position) *Bomb {
	for _, b := range r.Bombs {
		if !b.Exploded && b.Pos == pos {
			return b
		}
	}
	return nil
}

// ActiveBombs counts the owner's bombs that have not exploded yet.
func (r *Registry) ActiveBombs(owner OwnerID) int {
	n := 0
	for _, b := range r.Bombs {
		if b.Owner == owner && !b.Exploded {
			n++
		}
	}
	return n
}

// Agent returns the agent with the given id, or nil once it has been eliminated.
func (r *Registry) Agent(id OwnerID) *Agent {
	for _, a := range r.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// AddBomb creates a bomb for owner at pos. It is rejected when:
//   - another live bomb already occupies pos
//   - the owner is still inside its placement cooldown
//   - the player is at its bomb capacity (agents have no cap)
func (r *Registry) AddBomb(owner OwnerID, pos Position, now time.Duration) (*Bomb, bool) {
	if r.LiveBombAt(pos) != nil {
		return nil, false
	}

	var radius int
	if owner == PlayerOwner {
		p := r.Player
		if p.Bombed && now-p.LastBombAt < r.placementCooldown {
			return nil, false
		}
		if r.ActiveBombs(owner) >= p.PowerUps.BombCapacity {
			return nil, false
		}
		radius = p.PowerUps.BlastRadius
		p.LastBombAt, p.Bombed = now, true
	} else {
		a := r.Agent(owner)
		if a == nil {
			return nil, false
		}
		if a.Bombed && now-a.LastBombAt < a.BombCooldown {
			return nil, false
		}
		radius = a.BlastRadius
		a.LastBombAt, a.Bombed = now, true
	}

	b := &Bomb{
		ID:       r.nextBombID,
		Owner:    owner,
		Pos:      pos,
		PlacedAt: now,
		Radius:   radius,
	}
	r.nextBombID++
	r.Bombs = append(r.Bombs, b)
	return b, true
}

// AddExplosion records the footprint of a detonated bomb.
func (r *Registry) AddExplosion(b *Bomb, cells []Position, now time.Duration) *Explosion {
	ex := &Explosion{
		ID:        r.nextExplosionID,
		BombID:    b.ID,
		Owner:     b.Owner,
		Origin:    b.Pos,
		CreatedAt: now,
		Radius:    b.Radius,
		Cells:     cells,
	}
	r.nextExplosionID++
	r.Explosions = append(r.Explosions, ex)
	return ex
}

// RemoveExpired drops every explosion at least ttl old, together with the bomb
// that produced it. The removed explosions are returned in creation order.
func (r *Registry) RemoveExpired(now, ttl time.Duration) []*Explosion {
	var expired []*Explosion
	remaining := r.Explosions[:0]
	for _, ex := range r.Explosions {
		if now-ex.CreatedAt >= ttl {
			expired = append(expired, ex)
		} else {
			remaining = append(remaining, ex)
		}
	}
	r.Explosions = remaining
	if len(expired) == 0 {
		return nil
	}

	gone := make(map[int]bool, len(expired))
	for _, ex := range expired {
		gone[ex.BombID] = true
	}
	bombs := r.Bombs[:0]
	for _, b := range r.Bombs {
		if !(b.Exploded && gone[b.ID]) {
			bombs = append(bombs, b)
		}
	}
	r.Bombs = bombs
	return expired
}

// ClaimedCells returns the set of cells covered by live explosions.
func (r *Registry) ClaimedCells() map[Position]bool {
	claimed := make(map[Position]bool)
	for _, ex := range r.Explosions {
		for _, c := range ex.Cells {
			claimed[c] = true
		}
	}
	return claimed
}

// RemoveAgents drops every agent for which hit returns true and returns them.
func (r *Registry) RemoveAgents(hit func(*Agent) bool) []*Agent {
	var removed []*Agent
	remaining := r.Agents[:0]
	for _, a := range r.Agents {
		if hit(a) {
			removed = append(removed, a)
		} else {
			remaining = append(remaining, a)
		}
	}
	r.Agents = remaining
	return removed
}
