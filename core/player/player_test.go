package player

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "stopped", Stopped.String())
	assert.Equal(t, "playing", Playing.String())
	assert.Equal(t, "paused", Paused.String())
}

func TestStateIsActive(t *testing.T) {
	assert.False(t, Stopped.IsActive())
	assert.True(t, Playing.IsActive())
	assert.True(t, Paused.IsActive())
}

func TestPercentToVolume(t *testing.T) {
	assert.InDelta(t, 0, percentToVolume(100), 0.001)
	assert.InDelta(t, -1, percentToVolume(50), 0.001)
	assert.InDelta(t, math.Log2(0.25), percentToVolume(25), 0.001)
	assert.Equal(t, -10.0, percentToVolume(0))
	assert.Equal(t, -10.0, percentToVolume(-5))
}

func TestMockLifecycle(t *testing.T) {
	m := NewMock()
	assert.Equal(t, Stopped, m.State())

	assert.NoError(t, m.Play("http://x/a.mp3"))
	assert.Equal(t, Playing, m.State())

	m.Pause()
	assert.Equal(t, Paused, m.State())
	m.Resume()
	assert.Equal(t, Playing, m.State())
	m.Stop()
	assert.Equal(t, Stopped, m.State())

	assert.Equal(t, []string{"http://x/a.mp3"}, m.PlayCalls())
}

// The finished event must be delivered outside any player-internal lock:
// handlers seek, stop and restart through the player, the way the engine
// does on repeat and on an exhausted queue.
func TestFinishedHandlerMayReenterPlayer(t *testing.T) {
	m := NewMock()
	assert.NoError(t, m.Play("http://x/a.mp3"))

	ran := false
	m.OnFinished(func() {
		m.SeekTo(0)
		m.Stop()
		assert.NoError(t, m.Play("http://x/a.mp3"))
		ran = true
	})

	m.SimulateFinished()
	assert.True(t, ran)
	assert.Equal(t, Playing, m.State())
	assert.Equal(t, "http://x/a.mp3", m.LoadedSrc())
}
