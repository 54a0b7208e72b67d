package stats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/amalg/bombarena/internal/game"
)

// ErrQueueFull is reported when a summary is dropped because the recorder is
// backed up.
var ErrQueueFull = errors.New("stats: queue full, summary dropped")

// Saver persists one session summary. *Store implements it.
type Saver interface {
	Record(ctx context.Context, profile string, sum game.SessionSummary) (Profile, error)
}

// Recorder is the engine's stats sink. Submit hands summaries to a background
// worker; failures are reported on Errors and never reach the simulation.
type Recorder struct {
	saver   Saver
	profile string
	timeout time.Duration
	log     zerolog.Logger

	queue chan game.SessionSummary
	errs  chan error
	wg    sync.WaitGroup

	mu     sync.Mutex
	closed bool
	latest Profile
	saved  bool
}

var _ game.StatsSink = (*Recorder)(nil)

// NewRecorder starts a recorder with a queue of size summaries.
func NewRecorder(saver Saver, profile string, size int, log zerolog.Logger) *Recorder {
	if size <= 0 {
		size = 1
	}
	r := &Recorder{
		saver:   saver,
		profile: profile,
		timeout: 5 * time.Second,
		log:     log,
		queue:   make(chan game.SessionSummary, size),
		errs:    make(chan error, size),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Submit queues a summary. It never blocks.
func (r *Recorder) Submit(sum game.SessionSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	select {
	case r.queue <- sum:
	default:
		r.log.Warn().Str("session", sum.SessionID).Msg("stats queue full")
		r.report(fmt.Errorf("%w: %s", ErrQueueFull, sum.SessionID))
	}
}

// Errors reports persistence failures. Errors are dropped when nobody reads.
func (r *Recorder) Errors() <-chan error {
	return r.errs
}

// Latest returns the profile aggregates after the last successful save.
func (r *Recorder) Latest() (Profile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.saved
}

// SetLatest primes Latest with previously stored aggregates. It has no effect
// once a save has completed.
func (r *Recorder) SetLatest(p Profile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.saved {
		r.latest, r.saved = p, true
	}
}

// Close stops accepting summaries and waits for the queued ones to be saved.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for sum := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		p, err := r.saver.Record(ctx, r.profile, sum)
		cancel()
		if err != nil {
			r.log.Error().Err(err).Str("session", sum.SessionID).Msg("failed to save session stats")
			r.report(err)
			continue
		}

		r.mu.Lock()
		r.latest, r.saved = p, true
		r.mu.Unlock()
	}
}

func (r *Recorder) report(err error) {
	select {
	case r.errs <- err:
	default:
	}
}
