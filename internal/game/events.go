package game

import "time"

// Cue names a sound effect. Sinks play cues fire-and-forget.
type Cue string

const (
	CueBombPlaced Cue = "bomb-placed"
	CueExplosion  Cue = "explosion"
	CuePowerUp    Cue = "powerup-collected"
)

// SoundSink receives sound cues. Play must not block the simulation.
type SoundSink interface {
	Play(cue Cue)
}

// StatsSink receives one summary per finished session. Submit must not block;
// persistence and its failures belong to the sink.
type StatsSink interface {
	Submit(summary SessionSummary)
}

// Observer sees every tick and every simulation event. It must not mutate state.
type Observer interface {
	OnTick(elapsed time.Duration)
	OnEvent(ev Event)
}

// EventKind classifies simulation events.
type EventKind int

const (
	EventBombPlaced EventKind = iota
	EventDetonation
	EventBlockDestroyed
	EventPowerUpSeeded
	EventPowerUpCollected
	EventPlayerHit
	EventAgentEliminated
	EventSessionWon
	EventSessionLost
)

func (k EventKind) String() string {
	switch k {
	case EventBombPlaced:
		return "bomb_placed"
	case EventDetonation:
		return "detonation"
	case EventBlockDestroyed:
		return "block_destroyed"
	case EventPowerUpSeeded:
		return "powerup_seeded"
	case EventPowerUpCollected:
		return "powerup_collected"
	case EventPlayerHit:
		return "player_hit"
	case EventAgentEliminated:
		return "agent_eliminated"
	case EventSessionWon:
		return "session_won"
	case EventSessionLost:
		return "session_lost"
	}
	return "unknown"
}

// Event is a single state transition worth reporting.
type Event struct {
	Kind    EventKind
	At      time.Duration
	Pos     Position
	Owner   OwnerID
	Chain   bool        // Detonation triggered by another bomb
	PowerUp PowerUpType // Seeded/collected type
}

// SessionSummary is the end-of-session aggregate handed to the stats sink.
type SessionSummary struct {
	SessionID       string        `json:"session_id"`
	Outcome         GameStatus    `json:"outcome"`
	Kills           int           `json:"kills"`
	BlocksDestroyed int           `json:"blocks_destroyed"`
	Score           int           `json:"score"`
	Duration        time.Duration `json:"duration"`
}

// Won reports whether the session ended in victory.
func (s SessionSummary) Won() bool {
	return s.Outcome == StatusWon
}

type nopSound struct{}

func (nopSound) Play(Cue) {}

type nopStats struct{}

func (nopStats) Submit(SessionSummary) {}
