package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/karadex/model"
)

// maxPreviewNotes caps an excerpt at roughly two sung lines.
const maxPreviewNotes = 16

// PreviewSMF renders a short excerpt of one vocal track, starting at
// the chart's preview marker, for browsing a library by ear. The
// excerpt is rebased so playback starts immediately.
func PreviewSMF(song *model.Song, trackName string) (*smf.SMF, error) {
	vt := song.GetVocalTrack(trackName)
	if vt == nil {
		return nil, fmt.Errorf("song has no vocal track %q", trackName)
	}
	conv, err := newConverter(song)
	if err != nil {
		return nil, err
	}

	cut := previewCut(vt, song.PreviewStart)
	if len(cut.Notes) == 0 {
		return nil, fmt.Errorf("no notes at or after preview start %vs", song.PreviewStart)
	}
	base, err := conv.pulses(cut.Notes[0].Begin)
	if err != nil {
		return nil, err
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(resolution)
	s.Add(previewTempoTrack(song, conv, cut.Notes[0].Begin))
	track, err := noteTrack(cut, conv, base)
	if err != nil {
		return nil, err
	}
	s.Add(track)
	return s, nil
}

// WritePreviewFile renders the preview excerpt of trackName to a .mid
// file at path.
func WritePreviewFile(song *model.Song, trackName string, path string) error {
	s, err := PreviewSMF(song, trackName)
	if err != nil {
		return err
	}
	if err := s.WriteFile(path); err != nil {
		return fmt.Errorf("could not write midi file: %v", err)
	}
	return nil
}

// previewCut copies the first few notes at or after start. Leading
// sleeps are dropped; sleeps inside the window survive so their line
// markers do.
func previewCut(vt *model.VocalTrack, start float64) *model.VocalTrack {
	cut := model.NewVocalTrack(vt.Name)
	count := 0
	for _, n := range vt.Notes {
		if len(cut.Notes) == 0 && (n.Type == model.NoteSleep || n.Begin < start) {
			continue
		}
		if n.Type != model.NoteSleep {
			count++
			if count > maxPreviewNotes {
				break
			}
		}
		cut.Notes = append(cut.Notes, n)
	}
	return cut
}

// previewTempoTrack carries the single tempo in effect where the
// excerpt starts. Changes further in are rare within a few bars and
// not worth re-anchoring.
func previewTempoTrack(song *model.Song, conv *converter, at float64) smf.Track {
	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(song.String()))
	tr.Add(0, smf.MetaTimeSig(4, 4, 24, 8))

	bpm := song.Tempo[0].BPM
	if tick, err := conv.tm.SecondsToTick(at); err == nil {
		for _, change := range song.Tempo {
			if float64(change.Tick) <= tick {
				bpm = change.BPM
			}
		}
	}
	tr.Add(0, smf.MetaTempo(bpm))
	tr.Close(0)
	return tr
}
