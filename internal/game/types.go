package game

import (
	"time"
)

// CellKind represents the content of a single cell on the board.
type CellKind int

const (
	CellEmpty        CellKind = iota
	CellWall                  // Indestructible
	CellDestructible          // Destroyed by blasts
	CellBomb
	CellExplosionCenter
	CellExplosionHorizontal
	CellExplosionVertical
	CellExplosionTipLeft
	CellExplosionTipRight
	CellExplosionTipUp
	CellExplosionTipDown
	CellPowerUpBomb
	CellPowerUpRange
	CellPowerUpSpeed

	// CellOutOfBounds is returned by lookups outside the grid. It is never stored.
	CellOutOfBounds CellKind = -1
)

var cellNames = map[CellKind]string{
	CellEmpty:               "empty",
	CellWall:                "wall",
	CellDestructible:        "destructible",
	CellBomb:                "bomb",
	CellExplosionCenter:     "explosion-center",
	CellExplosionHorizontal: "explosion-horizontal",
	CellExplosionVertical:   "explosion-vertical",
	CellExplosionTipLeft:    "explosion-tip-left",
	CellExplosionTipRight:   "explosion-tip-right",
	CellExplosionTipUp:      "explosion-tip-up",
	CellExplosionTipDown:    "explosion-tip-down",
	CellPowerUpBomb:         "powerup-bomb",
	CellPowerUpRange:        "powerup-range",
	CellPowerUpSpeed:        "powerup-speed",
	CellOutOfBounds:         "out-of-bounds",
}

func (k CellKind) String() string {
	if name, ok := cellNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsExplosion reports whether the cell is any of the transient blast overlays.
func (k CellKind) IsExplosion() bool {
	return k >= CellExplosionCenter && k <= CellExplosionTipDown
}

// IsPowerUp reports whether the cell holds a collectible power-up.
func (k CellKind) IsPowerUp() bool {
	return k >= CellPowerUpBomb && k <= CellPowerUpSpeed
}

// Direction represents a movement direction.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

// Directions lists the four axis directions in the order agents evaluate them.
var Directions = []Direction{DirUp, DirDown, DirLeft, DirRight}

// Delta returns the unit offset for the direction.
func (d Direction) Delta() Position {
	switch d {
	case DirUp:
		return Position{X: 0, Y: -1}
	case DirDown:
		return Position{X: 0, Y: 1}
	case DirLeft:
		return Position{X: -1, Y: 0}
	case DirRight:
		return Position{X: 1, Y: 0}
	}
	return Position{}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	}
	return "none"
}

// Position represents a coordinate on the board.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Step returns the neighbouring position in the given direction.
func (p Position) Step(d Direction) Position {
	delta := d.Delta()
	return Position{X: p.X + delta.X, Y: p.Y + delta.Y}
}

// Manhattan returns the grid distance between two positions.
func (p Position) Manhattan(o Position) int {
	return abs(p.X-o.X) + abs(p.Y-o.Y)
}

// GameStatus represents the current game phase.
type GameStatus int

const (
	StatusIdle    GameStatus = iota // Board generated, waiting for start
	StatusRunning                   // Ticks advance the simulation
	StatusPaused                    // Ticks are ignored, state preserved
	StatusLost                      // Player ran out of lives
	StatusWon                       // Every agent eliminated
)

func (s GameStatus) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusLost:
		return "lost"
	case StatusWon:
		return "won"
	}
	return "unknown"
}

// Terminal reports whether the session has ended.
func (s GameStatus) Terminal() bool {
	return s == StatusLost || s == StatusWon
}

// AIConfig holds the parameters of the computer-controlled roster.
type AIConfig struct {
	Agents             int           `json:"agents" mapstructure:"agents"`
	MoveInterval       time.Duration `json:"move_interval" mapstructure:"moveInterval"`
	MoveIntervalStep   time.Duration `json:"move_interval_step" mapstructure:"moveIntervalStep"`
	BombCooldown       time.Duration `json:"bomb_cooldown" mapstructure:"bombCooldown"`
	BombCooldownStep   time.Duration `json:"bomb_cooldown_step" mapstructure:"bombCooldownStep"`
	DangerRadius       int           `json:"danger_radius" mapstructure:"dangerRadius"`
	ChaseChance        float64       `json:"chase_chance" mapstructure:"chaseChance"`
	AttackChance       float64       `json:"attack_chance" mapstructure:"attackChance"`
	AttackReach        int           `json:"attack_reach" mapstructure:"attackReach"` // Added to the agent's blast radius
	BreakChance        float64       `json:"break_chance" mapstructure:"breakChance"`
	BombDangerWeight   float64       `json:"bomb_danger_weight" mapstructure:"bombDangerWeight"`
	ExplosionDangerMax float64       `json:"explosion_danger_max" mapstructure:"explosionDangerMax"`
}

// GameConfig holds configurable parameters for a game session.
type GameConfig struct {
	Width               int           `json:"width" mapstructure:"width"`
	Height              int           `json:"height" mapstructure:"height"`
	BombCountdown       time.Duration `json:"bomb_countdown" mapstructure:"bombCountdown"`
	ExplosionDuration   time.Duration `json:"explosion_duration" mapstructure:"explosionDuration"`
	PowerUpSeedBuffer   time.Duration `json:"powerup_seed_buffer" mapstructure:"powerUpSeedBuffer"`
	PlacementCooldown   time.Duration `json:"placement_cooldown" mapstructure:"placementCooldown"`
	StartingLives       int           `json:"starting_lives" mapstructure:"startingLives"`
	BombCapacity        int           `json:"bomb_capacity" mapstructure:"bombCapacity"`
	BlastRadius         int           `json:"blast_radius" mapstructure:"blastRadius"`
	Speed               float64       `json:"speed" mapstructure:"speed"` // Cells per second
	DestructibleDensity float64       `json:"destructible_density" mapstructure:"destructibleDensity"`
	PowerUpChance       float64       `json:"powerup_chance" mapstructure:"powerUpChance"`
	TickRate            int           `json:"tick_rate" mapstructure:"tickRate"` // Frames per second for self-driven loops
	Seed                int64         `json:"seed" mapstructure:"seed"`          // 0 picks a time-based seed
	AI                  AIConfig      `json:"ai" mapstructure:"ai"`
}

// DefaultConfig returns the classic single-player configuration.
func DefaultConfig() GameConfig {
	return GameConfig{
		Width:               15,
		Height:              13,
		BombCountdown:       2000 * time.Millisecond,
		ExplosionDuration:   1000 * time.Millisecond,
		PowerUpSeedBuffer:   100 * time.Millisecond,
		PlacementCooldown:   1500 * time.Millisecond,
		StartingLives:       3,
		BombCapacity:        1,
		BlastRadius:         2,
		Speed:               4,
		DestructibleDensity: 0.4,
		PowerUpChance:       0.3,
		TickRate:            60,
		AI: AIConfig{
			Agents:             3,
			MoveInterval:       800 * time.Millisecond,
			MoveIntervalStep:   100 * time.Millisecond,
			BombCooldown:       3000 * time.Millisecond,
			BombCooldownStep:   500 * time.Millisecond,
			DangerRadius:       2,
			ChaseChance:        0.7,
			AttackChance:       0.7,
			AttackReach:        2,
			BreakChance:        0.2,
			BombDangerWeight:   10,
			ExplosionDangerMax: 50,
		},
	}
}

// SpawnPositions returns the four corner spawn positions.
// Index 0 belongs to the player, the rest to agents.
func SpawnPositions(width, height int) []Position {
	return []Position{
		{X: 1, Y: 1},                  // Top-left
		{X: width - 2, Y: 1},          // Top-right
		{X: 1, Y: height - 2},         // Bottom-left
		{X: width - 2, Y: height - 2}, // Bottom-right
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
