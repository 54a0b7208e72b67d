package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Engine owns the current session and serializes every access to it. Frames
// come from an external timestamp source through Tick; Run is a convenience
// driver for headless use.
type Engine struct {
	Config GameConfig

	session  *Session
	rng      *rand.Rand
	log      zerolog.Logger
	sound    SoundSink
	stats    StatsSink
	observer Observer

	commands chan Command
	mu       sync.Mutex
	onTick   func(Snapshot) // Callback after each tick with a COPY of state
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the random source used for board generation, power-up rolls
// and agent decisions.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) { e.rng = rng }
}

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

func WithSound(sink SoundSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.sound = sink
		}
	}
}

func WithStats(sink StatsSink) Option {
	return func(e *Engine) {
		if sink != nil {
			e.stats = sink
		}
	}
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// NewEngine creates an engine holding a fresh, idle session.
func NewEngine(config GameConfig, opts ...Option) *Engine {
	e := &Engine{
		Config:   config,
		log:      zerolog.Nop(),
		sound:    nopSound{},
		stats:    nopStats{},
		commands: make(chan Command, 256),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		seed := config.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e.rng = rand.New(rand.NewSource(seed))
	}
	e.session = e.newSession()
	return e
}

func (e *Engine) newSession() *Session {
	return newSession(e.Config, e.rng, hooks{
		log:      e.log,
		sound:    e.sound,
		observer: e.observer,
	})
}

// OnTick sets a callback that is invoked after every tick with a snapshot.
// The engine lock is released before the callback runs.
func (e *Engine) OnTick(fn func(Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTick = fn
}

// Enqueue queues a command for the next tick. It never blocks; commands are
// dropped when the buffer is full.
func (e *Engine) Enqueue(cmd Command) {
	select {
	case e.commands <- cmd:
	default:
	}
}

// Dispatch applies a command immediately. Commands that are not valid in the
// current state are silent no-ops.
func (e *Engine) Dispatch(cmd Command) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.dispatchLocked(cmd)
}

// dispatchLocked MUST be called while e.mu is held.
func (e *Engine) dispatchLocked(cmd Command) {
	s := e.session
	switch cmd.Kind {
	case CmdStart:
		if s.Status != StatusIdle && s.Status != StatusPaused {
			return
		}
		resumed := s.Status == StatusPaused
		s.Status = StatusRunning
		e.log.Info().Str("session", s.ID).Bool("resumed", resumed).Msg("session started")

	case CmdPause:
		if s.Status != StatusRunning {
			return
		}
		s.Status = StatusPaused
		s.Clock.Suspend()
		e.log.Info().Str("session", s.ID).Dur("game_time", s.Clock.Now()).Msg("session paused")

	case CmdReset:
		s.Scheduler.Cancel()
		s.Clock.Suspend()
		e.session = e.newSession()
		e.log.Info().
			Str("previous", s.ID).
			Str("session", e.session.ID).
			Msg("session reset")

	case CmdMove:
		if s.Status == StatusRunning {
			s.movePlayer(cmd.Dir, s.Clock.Now())
		}

	case CmdPlaceBomb:
		if s.Status == StatusRunning {
			s.placeBomb(PlayerOwner, s.Registry.Player.Pos, s.Clock.Now())
		}
	}
}

// drainCommands processes all queued commands.
func (e *Engine) drainCommands() {
	for {
		select {
		case cmd := <-e.commands:
			e.dispatchLocked(cmd)
		default:
			return
		}
	}
}

// Tick processes one frame: drain commands, advance the clock and run one
// simulation step. A session reaching a terminal state hands its summary to
// the stats sink exactly once.
// IMPORTANT: the snapshot is copied while holding the lock, and every
// collaborator is called after the lock is released.
func (e *Engine) Tick(ts time.Time) {
	start := time.Now()
	e.mu.Lock()

	e.drainCommands()
	s := e.session
	if s.Status == StatusRunning {
		now, _ := s.Clock.Advance(ts)
		s.step(now)
	}

	var summary *SessionSummary
	if s.Status.Terminal() && !s.summarySent {
		sum := s.Summary()
		summary = &sum
		s.summarySent = true
	}

	fn := e.onTick
	var snap Snapshot
	if fn != nil {
		snap = s.snapshot()
	}

	e.mu.Unlock()

	if summary != nil {
		e.stats.Submit(*summary)
	}
	if e.observer != nil {
		e.observer.OnTick(time.Since(start))
	}
	if fn != nil {
		fn(snap)
	}
}

// Run drives Tick from a ticker at rate frames per second (the configured
// tick rate when rate <= 0) until ctx is done.
func (e *Engine) Run(ctx context.Context, rate int) error {
	if rate <= 0 {
		rate = e.Config.TickRate
	}
	if rate <= 0 {
		rate = DefaultConfig().TickRate
	}
	ticker := time.NewTicker(time.Second / time.Duration(rate))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			e.Tick(ts)
		}
	}
}

// Snapshot returns a deep copy of the current session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.snapshot()
}

// Status returns the current session status.
func (e *Engine) Status() GameStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Status
}

// Summary returns the aggregate of the current session so far.
func (e *Engine) Summary() SessionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Summary()
}
