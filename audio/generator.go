package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is an endless sine oscillator. amp is the peak amplitude.
type tone struct {
	sr   beep.SampleRate
	freq float64
	amp  float64
	pos  int
}

func newTone(sr beep.SampleRate, freq, amp float64) *tone {
	return &tone{sr: sr, freq: freq, amp: amp}
}

func (g *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		v := g.amp * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *tone) Err() error { return nil }

// melody repeats a sequence of notes forever. A zero frequency is a rest.
// Each note fades out over its length so consecutive notes do not click.
type melody struct {
	sr    beep.SampleRate
	notes []float64
	step  int
	amp   float64
	bass  float64
	pos   int
}

func newMelody(sr beep.SampleRate, step time.Duration, amp, bass float64, notes ...float64) *melody {
	return &melody{sr: sr, notes: notes, step: sr.N(step), amp: amp, bass: bass}
}

func (g *melody) Stream(samples [][2]float64) (n int, ok bool) {
	if len(g.notes) == 0 || g.step <= 0 {
		clear(samples)
		return len(samples), true
	}
	for i := range samples {
		note := g.notes[(g.pos/g.step)%len(g.notes)]
		inNote := g.pos % g.step
		t := float64(g.pos) / float64(g.sr)

		v := 0.0
		if note > 0 {
			env := 1 - float64(inNote)/float64(g.step)
			v = g.amp * env * triangle(note*t)
		}
		if g.bass > 0 {
			v += g.bass * math.Sin(2*math.Pi*g.notes[0]/4*t)
		}

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *melody) Err() error { return nil }

// triangle is a unit triangle wave of the given phase in cycles.
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4*math.Abs(p-0.5) - 1
}

// sweep glides from one frequency to another with an exponential decay.
// It never ends; wrap it in beep.Take.
type sweep struct {
	sr       beep.SampleRate
	from, to float64
	length   int
	decay    float64
	amp      float64
	phase    float64
	pos      int
}

func newSweep(sr beep.SampleRate, from, to float64, length time.Duration, decay, amp float64) *sweep {
	return &sweep{sr: sr, from: from, to: to, length: max(sr.N(length), 1), decay: decay, amp: amp}
}

func (g *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		progress := min(float64(g.pos)/float64(g.length), 1)
		freq := g.from + (g.to-g.from)*progress
		t := float64(g.pos) / float64(g.sr)

		v := g.amp * math.Exp(-t*g.decay) * math.Sin(2*math.Pi*g.phase)
		g.phase += freq / float64(g.sr)
		g.phase -= math.Floor(g.phase)

		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }

// noise is a decaying burst of white noise over a low rumble.
type noise struct {
	sr    beep.SampleRate
	seed  uint32
	decay float64
	amp   float64
	pos   int
}

func newNoise(sr beep.SampleRate, seed uint32, decay, amp float64) *noise {
	return &noise{sr: sr, seed: seed, decay: decay, amp: amp}
}

func (g *noise) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		g.seed = g.seed*1664525 + 1013904223
		white := float64(g.seed)/math.MaxUint32*2 - 1
		rumble := 0.4 * math.Sin(2*math.Pi*70*t)

		v := g.amp * math.Exp(-t*g.decay) * (0.6*white + rumble)
		samples[i][0] = v
		samples[i][1] = v
		g.pos++
	}
	return len(samples), true
}

func (g *noise) Err() error { return nil }
