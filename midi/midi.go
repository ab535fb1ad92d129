package midi

import (
	"fmt"
	"math"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/karadex/constants"
	"github.com/jsphweid/karadex/model"
	"github.com/jsphweid/karadex/tempo"
	"github.com/jsphweid/karadex/util"
)

// resolution is the SMF pulses per quarter note. One chart tick is a
// quarter beat, so it spans resolution / TicksPerBeat pulses.
const resolution = 480

const pulsesPerChartTick = resolution / constants.TicksPerBeat

// Velocities encode the note kind so the chart survives a round trip
// through a sequencer.
const (
	velocityGolden    = 127
	velocityNormal    = 100
	velocityFreestyle = 40
)

// converter maps a note's absolute seconds back onto SMF pulses using
// the song's recorded tempo changes.
type converter struct {
	tm *tempo.Map
}

func newConverter(song *model.Song) (*converter, error) {
	if len(song.Tempo) == 0 {
		return nil, fmt.Errorf("song has no tempo information")
	}
	tm, err := tempo.Rebuild(song.Tempo, song.Gap)
	if err != nil {
		return nil, fmt.Errorf("could not rebuild tempo map: %v", err)
	}
	return &converter{tm: tm}, nil
}

func (c *converter) pulses(sec float64) (int64, error) {
	tick, err := c.tm.SecondsToTick(sec)
	if err != nil {
		return 0, err
	}
	return int64(math.Round(tick * pulsesPerChartTick)), nil
}

// SongSMF renders every vocal track of the song into one SMF1 file: a
// tempo track followed by one note track per voice.
func SongSMF(song *model.Song) (*smf.SMF, error) {
	conv, err := newConverter(song)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	s.Add(tempoTrack(song))
	for _, name := range song.VocalTrackNames() {
		track, err := noteTrack(song.GetVocalTrack(name), conv, 0)
		if err != nil {
			return nil, err
		}
		s.Add(track)
	}
	return s, nil
}

// TrackSMF renders a single vocal track, tempo track included.
func TrackSMF(song *model.Song, trackName string) (*smf.SMF, error) {
	vt := song.GetVocalTrack(trackName)
	if vt == nil {
		return nil, fmt.Errorf("song has no vocal track %q", trackName)
	}
	conv, err := newConverter(song)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	s.Add(tempoTrack(song))
	track, err := noteTrack(vt, conv, 0)
	if err != nil {
		return nil, err
	}
	s.Add(track)
	return s, nil
}

// WriteTrackFile renders trackName of the song to a .mid file at path.
func WriteTrackFile(song *model.Song, trackName string, path string) error {
	s, err := TrackSMF(song, trackName)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("could not write midi file: %v", err)
	}
	return nil
}

func tempoTrack(song *model.Song) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(song.String()))
	tr.Add(0, smf.MetaTimeSig(4, 4, 24, 8))

	var prev int64
	for _, change := range song.Tempo {
		at := int64(change.Tick) * pulsesPerChartTick
		tr.Add(uint32(at-prev), smf.MetaTempo(change.BPM))
		prev = at
	}
	tr.Close(0)
	return tr
}

// noteTrack renders the track's notes. base shifts every event left,
// so an excerpt can start at pulse zero.
func noteTrack(vt *model.VocalTrack, conv *converter, base int64) (smf.Track, error) {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(vt.Name))
	tr.Add(0, smf.MetaInstrument(vt.Name))

	var prev int64
	at := func(abs int64) uint32 {
		delta := abs - base - prev
		prev = abs - base
		return uint32(delta)
	}

	for _, n := range vt.Notes {
		end, err := conv.pulses(n.End)
		if err != nil {
			return nil, err
		}
		if n.Type == model.NoteSleep {
			if n.LineBreak {
				// Only possible for back to back sleeps; the marker
				// still closes the phrase.
				tr.Add(at(end), smf.MetaMarker("line"))
			}
			continue
		}
		begin, err := conv.pulses(n.Begin)
		if err != nil {
			return nil, err
		}

		key := uint8(util.Clamp(60+n.Pitch, 0, 127))
		velocity := uint8(velocityNormal)
		switch n.Type {
		case model.NoteGolden:
			velocity = velocityGolden
		case model.NoteFreestyle:
			velocity = velocityFreestyle
		}

		if n.Syllable != "" {
			tr.Add(at(begin), smf.MetaLyric(n.Syllable))
		}
		tr.Add(at(begin), midi.NoteOn(0, key, velocity))
		tr.Add(at(end), midi.NoteOff(0, key))
		if n.LineBreak {
			tr.Add(at(end), smf.MetaMarker("line"))
		}
	}
	tr.Close(0)
	return tr, nil
}
