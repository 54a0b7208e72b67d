package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Score values reported in the session summary.
const (
	blockPoints = 10
	killPoints  = 250
	winBonus    = 1000
)

// hooks are the outward-facing collaborators a session reports to.
type hooks struct {
	log      zerolog.Logger
	sound    SoundSink
	observer Observer
}

// tally accumulates the player's end-of-session aggregates.
type tally struct {
	kills  int
	blocks int
	score  int
}

// Session is the simulation context of one game: it exclusively owns the
// board, the entity registry, the deferred-seed queue and the clock. A reset
// replaces the whole session; nothing is shared between sessions.
type Session struct {
	ID        string
	Config    GameConfig
	Board     *Board
	Registry  *Registry
	Scheduler *Scheduler
	Clock     Clock
	Status    GameStatus

	rng         *rand.Rand
	hooks       hooks
	absorbed    map[Position]bool // Blocks broken this tick, still solid to chained bombs
	tally       tally
	summarySent bool
}

func newSession(config GameConfig, rng *rand.Rand, h hooks) *Session {
	return &Session{
		ID:        uuid.NewString(),
		Config:    config,
		Board:     GenerateBoard(config, rng),
		Registry:  NewRegistry(config),
		Scheduler: &Scheduler{},
		Status:    StatusIdle,
		rng:       rng,
		hooks:     h,
	}
}

// step runs one tick at simulated time now. Order matters: blasts are written
// to the board before damage is read, and damage is settled before any agent
// gets to move.
func (s *Session) step(now time.Duration) {
	if s.Status != StatusRunning {
		return
	}
	s.tickBombs(now)
	s.expireExplosions(now)
	s.fireSeeds(now)
	s.resolveDamage(now)
	if s.Status != StatusRunning {
		return
	}
	s.updateAgents(now)
}

// finish moves the session into a terminal state. Pending seeds are dropped so
// nothing is written after the session ends.
func (s *Session) finish(status GameStatus, now time.Duration) {
	if s.Status.Terminal() {
		return
	}
	s.Status = status
	s.Scheduler.Cancel()
	s.Clock.Suspend()

	kind := EventSessionLost
	if status == StatusWon {
		kind = EventSessionWon
		s.tally.score += winBonus
	}
	s.emit(Event{Kind: kind, At: now, Pos: s.Registry.Player.Pos})
	s.hooks.log.Info().
		Str("session", s.ID).
		Str("outcome", status.String()).
		Dur("game_time", now).
		Int("score", s.tally.score).
		Msg("session finished")
}

// Summary returns the end-of-session aggregate.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		SessionID:       s.ID,
		Outcome:         s.Status,
		Kills:           s.tally.kills,
		BlocksDestroyed: s.tally.blocks,
		Score:           s.tally.score,
		Duration:        s.Clock.Now(),
	}
}

func (s *Session) emit(ev Event) {
	if s.hooks.observer != nil {
		s.hooks.observer.OnEvent(ev)
	}
}

func (s *Session) play(cue Cue) {
	if s.hooks.sound != nil {
		s.hooks.sound.Play(cue)
	}
}

// placeBomb drops a bomb for owner at pos. Rejections are silent.
func (s *Session) placeBomb(owner OwnerID, pos Position, now time.Duration) (*Bomb, bool) {
	if s.Board.At(pos) != CellEmpty {
		return nil, false
	}
	b, ok := s.Registry.AddBomb(owner, pos, now)
	if !ok {
		return nil, false
	}
	s.Board.Set(pos, CellBomb)
	s.play(CueBombPlaced)
	s.emit(Event{Kind: EventBombPlaced, At: now, Pos: pos, Owner: owner})
	return b, true
}
