// Package audio plays short tones when entities spawn or are removed.
package audio

import (
	"math"
	"sync"
	"time"

	"github.com/ballpit/ballpit/internal/config"
	"github.com/ballpit/ballpit/internal/core/event"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"go.uber.org/zap"
)

const (
	spawnFreq  = 660.0
	removeFreq = 330.0
	cueLength  = 60 * time.Millisecond
)

// Cues mixes one tone per spawn or removal into the speaker.
type Cues struct {
	mu      sync.Mutex
	sr      beep.SampleRate
	volume  float64
	mixer   *beep.Mixer
	enabled bool
	played  int
	log     *zap.Logger
}

func NewCues(cfg config.AudioConfig, log *zap.Logger) *Cues {
	sr := cfg.SampleRate
	if sr <= 0 {
		sr = 44100
	}
	return &Cues{
		sr:     beep.SampleRate(sr),
		volume: cfg.Volume,
		mixer:  &beep.Mixer{},
		log:    log,
	}
}

// Initialize opens the speaker. Failure leaves cues silent and is returned
// for the caller to log; the simulation runs without sound.
func (c *Cues) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		return nil
	}
	if err := speaker.Init(c.sr, c.sr.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.enabled = true
	return nil
}

// Subscribe hooks the cues to entity lifecycle events.
func (c *Cues) Subscribe(bus *event.Bus) {
	event.Subscribe(bus, func(event.EntitySpawned) { c.play(spawnFreq) })
	event.Subscribe(bus, func(event.EntityRemoved) { c.play(removeFreq) })
}

func (c *Cues) play(freq float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	tone := beep.Take(c.sr.N(cueLength), newTone(c.sr, freq))
	c.mixer.Add(&effects.Volume{Streamer: tone, Base: 2, Volume: c.volume})
	c.played++
}

// Played counts cues queued since start.
func (c *Cues) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

// Close drops queued cues.
func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	speaker.Clear()
	c.mixer.Clear()
	c.enabled = false
}

// tone is a sine with a linear fade-out over its cue length.
type tone struct {
	sr    beep.SampleRate
	freq  float64
	pos   int
	total int
}

func newTone(sr beep.SampleRate, freq float64) *tone {
	return &tone{sr: sr, freq: freq, total: sr.N(cueLength)}
}

func (g *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		env := 1 - float64(g.pos)/float64(g.total)
		if env < 0 {
			env = 0
		}
		v := 0.3 * env * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0], samples[i][1] = v, v
		g.pos++
	}
	return len(samples), true
}

func (g *tone) Err() error { return nil }
