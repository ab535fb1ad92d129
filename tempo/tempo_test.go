package tempo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jsphweid/karadex/model"
)

func secondsAt(t *testing.T, m *Map, tick uint32) float64 {
	t.Helper()
	sec, err := m.TickToSeconds(tick)
	if err != nil {
		t.Fatalf("TickToSeconds(%d): %v", tick, err)
	}
	return sec
}

func TestQuarterBeatTicks(t *testing.T) {
	// At 120 bpm one beat is 0.5s, so 4 ticks land exactly on it.
	var m Map
	assert.NoError(t, m.AddBreakpoint(0, 120))
	assert.Equal(t, 0.0, secondsAt(t, &m, 0))
	assert.Equal(t, 0.5, secondsAt(t, &m, 4))
	assert.Equal(t, 2.0, secondsAt(t, &m, 16))
}

func TestConstantTempoIsLinear(t *testing.T) {
	var m Map
	assert.NoError(t, m.AddBreakpoint(0, 87.3))
	for _, tick := range []uint32{1, 7, 32, 1024} {
		assert.InDelta(t, 2*secondsAt(t, &m, tick), secondsAt(t, &m, 2*tick), 1e-9)
	}
}

func TestMultipleBreakpoints(t *testing.T) {
	// 120 bpm for 8 ticks (1s), then 60 bpm (0.25s per tick).
	var m Map
	assert.NoError(t, m.AddBreakpoint(0, 120))
	assert.NoError(t, m.AddBreakpoint(8, 60))
	assert.Equal(t, 1.0, secondsAt(t, &m, 8))
	assert.Equal(t, 2.0, secondsAt(t, &m, 12))
	assert.InDelta(t, 0.5, secondsAt(t, &m, 4), 1e-9)
}

func TestGapOffset(t *testing.T) {
	m := Map{Gap: 1.5}
	assert.NoError(t, m.AddBreakpoint(0, 120))
	assert.Equal(t, 1.5, secondsAt(t, &m, 0))
	assert.Equal(t, 2.0, secondsAt(t, &m, 4))
}

func TestNegativeGapGoesNegative(t *testing.T) {
	m := Map{Gap: -1}
	assert.NoError(t, m.AddBreakpoint(0, 120))
	assert.Equal(t, -1.0, secondsAt(t, &m, 0))
}

func TestSameTickReplaces(t *testing.T) {
	var m Map
	assert.NoError(t, m.AddBreakpoint(0, 100))
	assert.NoError(t, m.AddBreakpoint(0, 120))
	assert.Equal(t, 0.5, secondsAt(t, &m, 4))
	assert.Equal(t, []model.TempoChange{{Tick: 0, BPM: 120}}, m.Changes())
}

func TestBackwardsTickRejected(t *testing.T) {
	var m Map
	assert.NoError(t, m.AddBreakpoint(8, 120))
	assert.Error(t, m.AddBreakpoint(4, 120))
}

func TestBPMRange(t *testing.T) {
	var m Map
	assert.Error(t, m.AddBreakpoint(0, 0))
	assert.Error(t, m.AddBreakpoint(0, 0.5))
	assert.Error(t, m.AddBreakpoint(0, 2e12))
	assert.NoError(t, m.AddBreakpoint(0, 1))
}

func TestEmptyMap(t *testing.T) {
	var m Map
	_, err := m.TickToSeconds(0)
	assert.ErrorIs(t, err, ErrNoTempo)
	_, err = m.SecondsToTick(0)
	assert.ErrorIs(t, err, ErrNoTempo)
}

func TestTicksBeforeFirstBreakpoint(t *testing.T) {
	// First breakpoint at tick 8: earlier ticks extrapolate backward.
	var m Map
	assert.NoError(t, m.AddBreakpoint(8, 120))
	assert.Equal(t, 0.0, secondsAt(t, &m, 8))
	assert.Equal(t, -0.5, secondsAt(t, &m, 4))
}

func TestSecondsToTickInverts(t *testing.T) {
	m := Map{Gap: 0.25}
	assert.NoError(t, m.AddBreakpoint(0, 120))
	assert.NoError(t, m.AddBreakpoint(8, 60))
	assert.NoError(t, m.AddBreakpoint(16, 240))
	for _, tick := range []uint32{0, 3, 8, 11, 16, 100} {
		sec := secondsAt(t, &m, tick)
		got, err := m.SecondsToTick(sec)
		assert.NoError(t, err)
		assert.InDelta(t, float64(tick), got, 1e-9)
	}
}

func TestRebuild(t *testing.T) {
	changes := []model.TempoChange{{Tick: 0, BPM: 120}, {Tick: 8, BPM: 60}}
	m, err := Rebuild(changes, 1.5)
	assert.NoError(t, err)
	assert.Equal(t, changes, m.Changes())
	assert.Equal(t, 2.5, secondsAt(t, m, 8))

	_, err = Rebuild([]model.TempoChange{{Tick: 8, BPM: 60}, {Tick: 0, BPM: 120}}, 0)
	assert.Error(t, err)
}
