package game

import (
	"sort"
	"time"
)

// powerUpSeed is a deferred write of a power-up cell.
type powerUpSeed struct {
	At   time.Duration
	Pos  Position
	Type PowerUpType
	seq  int
}

// Scheduler is the session-owned queue of deferred power-up seeds.
// It is drained once per tick; nothing fires outside a tick.
type Scheduler struct {
	pending []powerUpSeed
	seq     int
}

// Schedule queues a seed to fire at simulated time at.
func (s *Scheduler) Schedule(at time.Duration, pos Position, t PowerUpType) {
	s.pending = append(s.pending, powerUpSeed{At: at, Pos: pos, Type: t, seq: s.seq})
	s.seq++
}

// Due removes and returns every seed with At <= now, ordered by fire time and
// then by scheduling order.
func (s *Scheduler) Due(now time.Duration) []powerUpSeed {
	var due []powerUpSeed
	remaining := s.pending[:0]
	for _, e := range s.pending {
		if e.At <= now {
			due = append(due, e)
		} else {
			remaining = append(remaining, e)
		}
	}
	s.pending = remaining
	sort.Slice(due, func(i, j int) bool {
		if due[i].At != due[j].At {
			return due[i].At < due[j].At
		}
		return due[i].seq < due[j].seq
	})
	return due
}

// Cancel discards every pending seed.
func (s *Scheduler) Cancel() {
	s.pending = nil
}

// Len returns the number of pending seeds.
func (s *Scheduler) Len() int {
	return len(s.pending)
}
