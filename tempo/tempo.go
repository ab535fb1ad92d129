package tempo

import (
	"errors"
	"fmt"

	"github.com/jsphweid/karadex/constants"
	"github.com/jsphweid/karadex/model"
)

var ErrNoTempo = errors.New("no tempo information")

// breakpoint carries precomputed integration state for one tempo
// segment: begin is the gap-free time at tick, step the seconds per
// tick while the segment is in effect.
type breakpoint struct {
	tick  uint32
	bpm   float64
	begin float64
	step  float64
}

// Map converts chart ticks to absolute seconds over a piecewise-constant
// bpm timeline. Gap shifts every conversion and is applied exactly once.
// The zero value is an empty map with no gap.
type Map struct {
	Gap float64
	bps []breakpoint
}

func stepPerTick(bpm float64) float64 {
	return 60 / (bpm * constants.TicksPerBeat)
}

// AddBreakpoint appends a tempo change taking effect at tick. Ticks must
// not decrease; a change at the current last tick replaces its bpm, so a
// B directive at tick 0 overrides the header bpm.
func (m *Map) AddBreakpoint(tick uint32, bpm float64) error {
	if bpm < constants.MinBPM || bpm >= constants.MaxBPM {
		return fmt.Errorf("invalid bpm value %v", bpm)
	}
	bp := breakpoint{tick: tick, bpm: bpm, step: stepPerTick(bpm)}
	if len(m.bps) == 0 {
		m.bps = append(m.bps, bp)
		return nil
	}
	last := &m.bps[len(m.bps)-1]
	switch {
	case tick > last.tick:
		bp.begin = last.begin + float64(tick-last.tick)*last.step
		m.bps = append(m.bps, bp)
	case tick == last.tick:
		bp.begin = last.begin
		*last = bp
	default:
		return fmt.Errorf("tempo change at tick %d goes backwards from tick %d", tick, last.tick)
	}
	return nil
}

// TickToSeconds converts a tick to absolute seconds, gap included.
// Ticks before the first breakpoint extrapolate backward from it, which
// can yield negative times.
func (m *Map) TickToSeconds(tick uint32) (float64, error) {
	if len(m.bps) == 0 {
		return 0, ErrNoTempo
	}
	bp := m.bps[0]
	for i := len(m.bps) - 1; i >= 0; i-- {
		if m.bps[i].tick <= tick {
			bp = m.bps[i]
			break
		}
	}
	return m.Gap + bp.begin + float64(int64(tick)-int64(bp.tick))*bp.step, nil
}

// SecondsToTick inverts TickToSeconds over the same piecewise map. The
// result is fractional; callers round as needed.
func (m *Map) SecondsToTick(sec float64) (float64, error) {
	if len(m.bps) == 0 {
		return 0, ErrNoTempo
	}
	rel := sec - m.Gap
	bp := m.bps[0]
	for i := len(m.bps) - 1; i >= 0; i-- {
		if m.bps[i].begin <= rel {
			bp = m.bps[i]
			break
		}
	}
	return float64(bp.tick) + (rel-bp.begin)/bp.step, nil
}

// Changes returns the map's breakpoints as authored tick/bpm pairs.
func (m *Map) Changes() []model.TempoChange {
	res := make([]model.TempoChange, 0, len(m.bps))
	for _, bp := range m.bps {
		res = append(res, model.TempoChange{Tick: bp.tick, BPM: bp.bpm})
	}
	return res
}

// Rebuild reconstructs a map from a song's recorded tempo changes.
func Rebuild(changes []model.TempoChange, gap float64) (*Map, error) {
	m := &Map{Gap: gap}
	for _, c := range changes {
		if err := m.AddBreakpoint(c.Tick, c.BPM); err != nil {
			return nil, err
		}
	}
	return m, nil
}
