package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/amalg/bombarena/internal/game"
)

const sampleRate = beep.SampleRate(44100)

// Synth plays game cues through the system speaker. Every cue is synthesized
// on the fly and mixed into a single output stream.
type Synth struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	log         zerolog.Logger
	initialized bool
}

var _ game.SoundSink = (*Synth)(nil)

// NewSynth creates a synthesizer. Nothing is played until Init succeeds.
func NewSynth(volume float64, log zerolog.Logger) *Synth {
	return &Synth{
		mixer:  &beep.Mixer{},
		volume: volume,
		log:    log,
	}
}

// Init opens the speaker.
func (s *Synth) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(s.mixer)
	s.initialized = true
	return nil
}

// Play mixes the cue into the output. It returns immediately.
func (s *Synth) Play(cue game.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	st := Sound(cue, sampleRate, s.volume)
	if st == nil {
		s.log.Debug().Str("cue", string(cue)).Msg("no sound for cue")
		return
	}
	speaker.Lock()
	s.mixer.Add(st)
	speaker.Unlock()
}

// Close stops all sounds and releases the speaker.
func (s *Synth) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	s.initialized = false
}

// Nop discards every cue.
type Nop struct{}

func (Nop) Play(game.Cue) {}

// Open returns a speaker-backed sink when enabled. A missing audio device
// degrades to Nop; the returned func releases the device.
func Open(enabled bool, volume float64, log zerolog.Logger) (game.SoundSink, func()) {
	if !enabled {
		return Nop{}, func() {}
	}
	s := NewSynth(volume, log)
	if err := s.Init(); err != nil {
		log.Warn().Err(err).Msg("audio disabled")
		return Nop{}, func() {}
	}
	log.Info().Int("sample_rate", int(sampleRate)).Msg("audio ready")
	return s, s.Close
}
