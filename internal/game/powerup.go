package game

import "math/rand"

// PowerUpType identifies a collectible effect.
type PowerUpType int

const (
	PowerUpBomb  PowerUpType = iota // +1 bomb capacity
	PowerUpRange                    // +1 blast radius
	PowerUpSpeed                    // +0.5 cells/second
)

var powerUpTypes = []PowerUpType{PowerUpBomb, PowerUpRange, PowerUpSpeed}

func (t PowerUpType) String() string {
	switch t {
	case PowerUpBomb:
		return "bomb"
	case PowerUpRange:
		return "range"
	case PowerUpSpeed:
		return "speed"
	}
	return "unknown"
}

// Effect magnitudes per power-up type.
const (
	BombCapacityBonus = 1
	BlastRadiusBonus  = 1
	SpeedBonus        = 0.5
)

// Cell returns the board cell that displays the power-up.
func (t PowerUpType) Cell() CellKind {
	switch t {
	case PowerUpRange:
		return CellPowerUpRange
	case PowerUpSpeed:
		return CellPowerUpSpeed
	}
	return CellPowerUpBomb
}

// PowerUpFromCell maps a power-up cell back to its type.
func PowerUpFromCell(kind CellKind) (PowerUpType, bool) {
	switch kind {
	case CellPowerUpBomb:
		return PowerUpBomb, true
	case CellPowerUpRange:
		return PowerUpRange, true
	case CellPowerUpSpeed:
		return PowerUpSpeed, true
	}
	return 0, false
}

// RollPowerUp decides whether a destroyed block drops a power-up and which one.
func RollPowerUp(rng *rand.Rand, chance float64) (PowerUpType, bool) {
	if rng.Float64() >= chance {
		return 0, false
	}
	return powerUpTypes[rng.Intn(len(powerUpTypes))], true
}

// PowerUps holds an actor's power-up levels. Levels only grow within a session.
type PowerUps struct {
	BombCapacity int     `json:"bomb_capacity"`
	BlastRadius  int     `json:"blast_radius"`
	Speed        float64 `json:"speed"`
}

// Apply raises the level matching t.
func (p *PowerUps) Apply(t PowerUpType) {
	switch t {
	case PowerUpBomb:
		p.BombCapacity += BombCapacityBonus
	case PowerUpRange:
		p.BlastRadius += BlastRadiusBonus
	case PowerUpSpeed:
		p.Speed += SpeedBonus
	}
}
