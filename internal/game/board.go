package game

import (
	"math/rand"
)

// Board is a fixed-size grid of cell kinds, indexed [y][x].
// It is owned by a single session and mutated in place.
type Board struct {
	Width  int
	Height int
	cells  [][]CellKind
}

// NewEmptyBoard returns a board with only the permanent wall layout:
//   - Border is all wall
//   - Wall at every interior position where both X and Y are even
func NewEmptyBoard(width, height int) *Board {
	b := &Board{
		Width:  width,
		Height: height,
		cells:  make([][]CellKind, height),
	}
	for y := 0; y < height; y++ {
		b.cells[y] = make([]CellKind, width)
		for x := 0; x < width; x++ {
			switch {
			case x == 0 || y == 0 || x == width-1 || y == height-1:
				b.cells[y][x] = CellWall
			case x%2 == 0 && y%2 == 0:
				// Interior pillar pattern
				b.cells[y][x] = CellWall
			default:
				b.cells[y][x] = CellEmpty
			}
		}
	}
	return b
}

// GenerateBoard builds a fresh board for a new session. Destructible blocks are
// scattered at config.DestructibleDensity over every open cell outside the
// spawn safe zones. Generation always succeeds.
func GenerateBoard(config GameConfig, rng *rand.Rand) *Board {
	b := NewEmptyBoard(config.Width, config.Height)
	safe := SafeZone(config.Width, config.Height)

	for y := 1; y < config.Height-1; y++ {
		for x := 1; x < config.Width-1; x++ {
			if b.cells[y][x] != CellEmpty {
				continue
			}
			if safe[Position{X: x, Y: y}] {
				continue
			}
			if rng.Float64() < config.DestructibleDensity {
				b.cells[y][x] = CellDestructible
			}
		}
	}
	return b
}

// SafeZone returns the cells that must stay clear of destructible blocks.
// Each spawn corner keeps an L of 3 tiles: the corner plus its two inward neighbours.
func SafeZone(width, height int) map[Position]bool {
	safe := make(map[Position]bool)
	for _, sp := range SpawnPositions(width, height) {
		safe[sp] = true
		safe[Position{X: sp.X + inward(sp.X, width), Y: sp.Y}] = true
		safe[Position{X: sp.X, Y: sp.Y + inward(sp.Y, height)}] = true
	}
	return safe
}

func inward(coord, size int) int {
	if coord < size/2 {
		return 1
	}
	return -1
}

// InBounds reports whether the position lies on the grid.
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.Width && p.Y >= 0 && p.Y < b.Height
}

// CellAt returns the kind at (x, y), or CellOutOfBounds.
func (b *Board) CellAt(x, y int) CellKind {
	if !b.InBounds(Position{X: x, Y: y}) {
		return CellOutOfBounds
	}
	return b.cells[y][x]
}

// At is CellAt for a Position.
func (b *Board) At(p Position) CellKind {
	return b.CellAt(p.X, p.Y)
}

// IsPassable reports whether an actor may enter (x, y).
// Walls, destructibles, bombs and the outside of the grid block movement.
func (b *Board) IsPassable(x, y int) bool {
	switch b.CellAt(x, y) {
	case CellOutOfBounds, CellWall, CellDestructible, CellBomb:
		return false
	}
	return true
}

// Set writes a cell. Writes outside the grid and writes over walls are ignored:
// walls are permanent for the lifetime of a board.
func (b *Board) Set(p Position, kind CellKind) {
	if !b.InBounds(p) || b.cells[p.Y][p.X] == CellWall {
		return
	}
	b.cells[p.Y][p.X] = kind
}

// Rows returns a deep copy of the grid.
func (b *Board) Rows() [][]CellKind {
	rows := make([][]CellKind, b.Height)
	for y := range rows {
		rows[y] = make([]CellKind, b.Width)
		copy(rows[y], b.cells[y])
	}
	return rows
}
