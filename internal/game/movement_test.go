package game

import "testing"

func TestMovePlayer(t *testing.T) {
	s, _ := newTestSession(testConfig())
	p := s.Registry.Player

	if p.Pos != pos(1, 1) {
		t.Fatalf("expected start at (1,1), got (%d,%d)", p.Pos.X, p.Pos.Y)
	}

	// Move right to (2,1): should succeed
	if !s.movePlayer(DirRight, 0) || p.Pos != pos(2, 1) {
		t.Errorf("after move right: expected (2,1), got (%d,%d)", p.Pos.X, p.Pos.Y)
	}
	if p.Facing != DirRight {
		t.Errorf("expected facing right, got %s", p.Facing)
	}

	// Move down from (2,1) to (2,2): should be BLOCKED (pillar at even,even)
	if s.movePlayer(DirDown, ms(1000)) || p.Pos != pos(2, 1) {
		t.Errorf("move down from (2,1) should be blocked by pillar at (2,2), got (%d,%d)", p.Pos.X, p.Pos.Y)
	}

	if !s.movePlayer(DirRight, ms(2000)) || !s.movePlayer(DirDown, ms(3000)) {
		t.Fatal("moves through open cells should succeed")
	}
	if p.Pos != pos(3, 2) {
		t.Errorf("expected (3,2), got (%d,%d)", p.Pos.X, p.Pos.Y)
	}
}

func TestMovePlayerBlocked(t *testing.T) {
	s, _ := newTestSession(testConfig())
	p := s.Registry.Player

	if s.movePlayer(DirUp, 0) || s.movePlayer(DirLeft, ms(1000)) {
		t.Error("border walls should block the move")
	}

	s.Board.Set(pos(2, 1), CellDestructible)
	if s.movePlayer(DirRight, ms(2000)) {
		t.Error("destructible block should block the move")
	}

	s.Board.Set(pos(2, 1), CellBomb)
	if s.movePlayer(DirRight, ms(3000)) {
		t.Error("bomb should block the move")
	}

	if p.Pos != pos(1, 1) {
		t.Errorf("expected to stay at (1,1), got (%d,%d)", p.Pos.X, p.Pos.Y)
	}
}

func TestMoveThrottle(t *testing.T) {
	s, _ := newTestSession(testConfig())
	p := s.Registry.Player

	// Speed 4 cells/s: one move per 250ms.
	if !s.movePlayer(DirRight, ms(0)) {
		t.Fatal("first move should succeed")
	}
	if s.movePlayer(DirRight, ms(249)) {
		t.Error("move inside the interval should be rejected")
	}
	if !s.movePlayer(DirRight, ms(250)) {
		t.Error("move after the interval should succeed")
	}
	if p.Pos != pos(3, 1) {
		t.Errorf("expected (3,1), got (%d,%d)", p.Pos.X, p.Pos.Y)
	}

	// Speed 6: one move per ~166ms.
	p.PowerUps.Apply(PowerUpSpeed)
	p.PowerUps.Apply(PowerUpSpeed)
	p.PowerUps.Apply(PowerUpSpeed)
	p.PowerUps.Apply(PowerUpSpeed)
	if !s.movePlayer(DirLeft, ms(250+170)) {
		t.Error("faster player should move again after 170ms")
	}
}

func TestPlayerCollectsPowerUp(t *testing.T) {
	s, rec := newTestSession(testConfig())
	s.Board.Set(pos(2, 1), CellPowerUpBomb)
	s.Board.Set(pos(3, 1), CellPowerUpRange)

	s.movePlayer(DirRight, 0)
	s.movePlayer(DirRight, ms(500))

	pu := s.Registry.Player.PowerUps
	if pu.BombCapacity != 2 || pu.BlastRadius != 3 {
		t.Errorf("expected capacity 2 / radius 3, got %d / %d", pu.BombCapacity, pu.BlastRadius)
	}
	if s.Board.At(pos(2, 1)) != CellEmpty || s.Board.At(pos(3, 1)) != CellEmpty {
		t.Error("collected power-ups should leave empty cells")
	}
	if rec.played(CuePowerUp) != 2 {
		t.Errorf("expected 2 power-up cues, got %d", rec.played(CuePowerUp))
	}
}

func TestPlaceBombRejections(t *testing.T) {
	s, _ := newTestSession(testConfig())

	if _, ok := s.placeBomb(PlayerOwner, pos(1, 1), 0); !ok {
		t.Fatal("first bomb should be accepted")
	}
	if s.Board.At(pos(1, 1)) != CellBomb {
		t.Errorf("expected bomb cell, got %s", s.Board.At(pos(1, 1)))
	}

	// Same cell, a different placer without any cooldown.
	s.Registry.placementCooldown = 0
	s.Registry.Player.PowerUps.BombCapacity = 5
	before := len(s.Registry.Bombs)
	if _, ok := s.Registry.AddBomb(PlayerOwner, pos(1, 1), ms(10)); ok {
		t.Error("second bomb on an occupied cell should be rejected")
	}
	if len(s.Registry.Bombs) != before {
		t.Errorf("bomb count changed from %d to %d", before, len(s.Registry.Bombs))
	}

	if _, ok := s.placeBomb(PlayerOwner, pos(0, 0), ms(20)); ok {
		t.Error("bomb on a wall should be rejected")
	}
	if _, ok := s.placeBomb(PlayerOwner, pos(-1, 4), ms(30)); ok {
		t.Error("bomb outside the board should be rejected")
	}
}

func TestPlacementCapacityAndCooldown(t *testing.T) {
	s, rec := newTestSession(testConfig())

	if _, ok := s.placeBomb(PlayerOwner, pos(1, 1), 0); !ok {
		t.Fatal("first bomb should be accepted")
	}
	if _, ok := s.placeBomb(PlayerOwner, pos(3, 1), ms(1600)); ok {
		t.Error("capacity 1 should reject a second live bomb")
	}

	s.Registry.Player.PowerUps.BombCapacity = 2
	if _, ok := s.placeBomb(PlayerOwner, pos(3, 1), ms(1000)); ok {
		t.Error("placement inside the cooldown should be rejected")
	}
	if _, ok := s.placeBomb(PlayerOwner, pos(3, 1), ms(1500)); !ok {
		t.Error("placement after the cooldown should be accepted")
	}
	if rec.played(CueBombPlaced) != 2 {
		t.Errorf("expected 2 placement cues, got %d", rec.played(CueBombPlaced))
	}
}

func TestBombRadiusCapturedAtPlacement(t *testing.T) {
	s, _ := newTestSession(testConfig())
	b, ok := s.placeBomb(PlayerOwner, pos(3, 3), 0)
	if !ok {
		t.Fatal("bomb rejected")
	}
	s.Registry.Player.PowerUps.Apply(PowerUpRange)

	ex := s.detonate(b, ms(2000), false)
	if b.Radius != 2 || len(ex.Cells) != 9 {
		t.Errorf("expected radius 2 and 9 cells, got %d and %d", b.Radius, len(ex.Cells))
	}
}
