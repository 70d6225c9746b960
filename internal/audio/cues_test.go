package audio

import (
	"testing"

	"github.com/ballpit/ballpit/internal/config"
	"github.com/ballpit/ballpit/internal/core/event"
	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

func TestCuesSilentUntilInitialized(t *testing.T) {
	c := NewCues(config.Default().Audio, zaptest.NewLogger(t))
	bus := event.NewBus()
	c.Subscribe(bus)

	event.Emit(bus, event.EntitySpawned{ID: 1})
	bus.Swap()
	bus.Deliver()
	assert.Zero(t, c.Played())
	assert.Zero(t, c.mixer.Len())
}

func TestCuesQueueOnLifecycleEvents(t *testing.T) {
	c := NewCues(config.Default().Audio, zaptest.NewLogger(t))
	c.enabled = true // skip the speaker
	bus := event.NewBus()
	c.Subscribe(bus)

	event.Emit(bus, event.EntitySpawned{ID: 1})
	event.Emit(bus, event.EntityRemoved{ID: 1})
	bus.Swap()
	bus.Deliver()
	assert.Equal(t, 2, c.Played())
	assert.Equal(t, 2, c.mixer.Len())
}

func TestToneFadesOut(t *testing.T) {
	sr := beep.SampleRate(8000)
	g := newTone(sr, 440)
	buf := make([][2]float64, sr.N(cueLength)+10)
	n, ok := g.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, len(buf), n)

	var peak float64
	for _, s := range buf[:100] {
		peak = max(peak, s[0])
	}
	assert.Greater(t, peak, 0.0)
	for _, s := range buf[len(buf)-10:] {
		assert.Zero(t, s[0])
	}
}
