package game

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
)

// testConfig is the default game on an open board with no agents and no
// power-up drops, so tests control every entity explicitly.
func testConfig() GameConfig {
	config := DefaultConfig()
	config.DestructibleDensity = 0
	config.PowerUpChance = 0
	config.AI.Agents = 0
	config.Seed = 1
	return config
}

type recorder struct {
	events    []Event
	ticks     int
	cues      []Cue
	summaries []SessionSummary
}

func (r *recorder) OnTick(time.Duration) { r.ticks++ }
func (r *recorder) OnEvent(ev Event) { r.events = append(r.events, ev) }
func (r *recorder) Play(cue Cue) { r.cues = append(r.cues, cue) }
func (r *recorder) Submit(sum SessionSummary) { r.summaries = append(r.summaries, sum) }

func (r *recorder) count(kind EventKind) int {
	n := 0
	for _, ev := range r.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recorder) played(cue Cue) int {
	n := 0
	for _, c := range r.cues {
		if c == cue {
			n++
		}
	}
	return n
}

// newTestSession returns a running session wired to a recorder.
func newTestSession(config GameConfig) (*Session, *recorder) {
	rec := &recorder{}
	s := newSession(config, rand.New(rand.NewSource(1)), hooks{
		log:      zerolog.Nop(),
		sound:    rec,
		observer: rec,
	})
	s.Status = StatusRunning
	return s, rec
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}

func pos(x, y int) Position {
	return Position{X: x, Y: y}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(1))
}
