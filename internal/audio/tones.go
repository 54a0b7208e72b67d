package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/amalg/bombarena/internal/game"
)

// Wave is an oscillator shape.
type Wave int

const (
	WaveSine Wave = iota
	WaveSquare
	WaveNoise
)

// Cue timings.
const (
	placedDuration    = 120 * time.Millisecond
	explosionDuration = 450 * time.Millisecond
	noteDuration      = 90 * time.Millisecond
	attack            = 5 * time.Millisecond
)

// tone is a fixed-length oscillator.
type tone struct {
	freq     float64
	phase    float64
	length   int
	position int
	wave     Wave
	rate     beep.SampleRate
}

func newTone(freq float64, d time.Duration, wave Wave, rate beep.SampleRate) beep.Streamer {
	return &tone{freq: freq, length: rate.N(d), wave: wave, rate: rate}
}

func (o *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.length {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *tone) Err() error { return nil }

// shape applies a linear attack and a linear release over the rest of the
// stream.
type shape struct {
	streamer beep.Streamer
	position int
	attack   int
	total    int
}

func newShape(s beep.Streamer, d, att time.Duration, rate beep.SampleRate) beep.Streamer {
	return &shape{streamer: s, attack: rate.N(att), total: rate.N(d)}
}

func (e *shape) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		switch {
		case e.position < e.attack:
			vol = float64(e.position) / float64(e.attack)
		case e.total > e.attack:
			vol = float64(e.total-e.position) / float64(e.total-e.attack)
		}
		if vol < 0 {
			vol = 0
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *shape) Err() error { return e.streamer.Err() }

// withVolume scales a stream linearly; 0 or less is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// Sound builds the streamer for a cue, or nil for an unknown cue. The stream
// drains after exactly Length(cue, rate) samples.
func Sound(cue game.Cue, rate beep.SampleRate, volume float64) beep.Streamer {
	var s beep.Streamer
	switch cue {
	case game.CueBombPlaced:
		// Low square thunk
		s = newShape(newTone(180, placedDuration, WaveSquare, rate), placedDuration, attack, rate)
		s = withVolume(s, 0.4)

	case game.CueExplosion:
		// Noise burst over a low rumble
		noise := newShape(newTone(0, explosionDuration, WaveNoise, rate), explosionDuration, attack, rate)
		rumble := newShape(newTone(55, explosionDuration, WaveSine, rate), explosionDuration, attack, rate)
		s = beep.Mix(withVolume(noise, 0.6), withVolume(rumble, 0.4))

	case game.CuePowerUp:
		// Rising two-note chime (E5, B5)
		first := newShape(newTone(659.25, noteDuration, WaveSine, rate), noteDuration, attack, rate)
		second := newShape(newTone(987.77, noteDuration, WaveSine, rate), noteDuration, attack, rate)
		s = withVolume(beep.Seq(first, second), 0.5)

	default:
		return nil
	}
	return beep.Take(Length(cue, rate), withVolume(s, volume))
}

// Length returns the number of samples a cue plays for at rate.
func Length(cue game.Cue, rate beep.SampleRate) int {
	switch cue {
	case game.CueBombPlaced:
		return rate.N(placedDuration)
	case game.CueExplosion:
		return rate.N(explosionDuration)
	case game.CuePowerUp:
		return 2 * rate.N(noteDuration)
	}
	return 0
}
