package midi

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/jsphweid/karadex/model"
)

func exportSong() *model.Song {
	song := model.NewSong("dir/song.txt")
	song.Title = "Export"
	song.Artist = "Tester"
	song.Tempo = []model.TempoChange{{Tick: 0, BPM: 120}}

	track := model.NewVocalTrack(model.LeadVocals)
	track.Notes = []model.Note{
		{Type: model.NoteNormal, Begin: 0, End: 0.5, Pitch: 0, Syllable: "do"},
		{Type: model.NoteGolden, Begin: 0.5, End: 1.0, Pitch: 4, Syllable: "mi", LineBreak: true},
		{Type: model.NoteSleep, Begin: 1.0, End: 1.0},
		{Type: model.NoteFreestyle, Begin: 1.5, End: 2.0, Pitch: 7, Syllable: "sol"},
	}
	track.PitchMin = 0
	track.PitchMax = 7
	song.InsertVocalTrack(model.LeadVocals, track)
	return song
}

type readNote struct {
	at  int64
	key uint8
	vel uint8
}

func readBack(t *testing.T, s *smf.SMF) *smf.SMF {
	t.Helper()
	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		t.Fatalf("could not serialize smf: %v", err)
	}
	rd, err := smf.ReadFrom(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("could not read smf back: %v", err)
	}
	return rd
}

func collectNotes(track smf.Track) (ons []readNote, offs []readNote, lyrics []string, markers int) {
	var absTicks int64
	for _, evt := range track {
		absTicks += int64(evt.Delta)
		var channel uint8
		var key uint8
		var velocity uint8
		var text string
		switch {
		case evt.Message.GetNoteOn(&channel, &key, &velocity):
			ons = append(ons, readNote{at: absTicks, key: key, vel: velocity})
		case evt.Message.GetNoteOff(&channel, &key, &velocity):
			offs = append(offs, readNote{at: absTicks, key: key})
		case evt.Message.GetMetaLyric(&text):
			lyrics = append(lyrics, text)
		case evt.Message.GetMetaMarker(&text):
			markers++
		}
	}
	return
}

func TestTrackSMF(t *testing.T) {
	assert := assert.New(t)

	s, err := TrackSMF(exportSong(), model.LeadVocals)
	assert.NoError(err)

	rd := readBack(t, s)
	assert.Len(rd.Tracks, 2)

	// At 120 bpm a half second is one beat, 480 pulses.
	ons, offs, lyrics, markers := collectNotes(rd.Tracks[1])
	assert.Equal([]readNote{
		{at: 0, key: 60, vel: velocityNormal},
		{at: 480, key: 64, vel: velocityGolden},
		{at: 1440, key: 67, vel: velocityFreestyle},
	}, ons)
	assert.Len(offs, 3)
	assert.Equal(int64(480), offs[0].at)
	assert.Equal(int64(960), offs[1].at)
	assert.Equal(int64(1920), offs[2].at)
	assert.Equal([]string{"do", "mi", "sol"}, lyrics)
	assert.Equal(1, markers)
}

func TestTempoTrack(t *testing.T) {
	assert := assert.New(t)

	song := exportSong()
	song.Tempo = append(song.Tempo, model.TempoChange{Tick: 8, BPM: 60})
	s, err := TrackSMF(song, model.LeadVocals)
	assert.NoError(err)

	rd := readBack(t, s)
	var bpms []float64
	var absTicks int64
	var tempoTicks []int64
	for _, evt := range rd.Tracks[0] {
		absTicks += int64(evt.Delta)
		var bpm float64
		if evt.Message.GetMetaTempo(&bpm) {
			bpms = append(bpms, bpm)
			tempoTicks = append(tempoTicks, absTicks)
		}
	}
	assert.Equal([]float64{120, 60}, bpms)
	assert.Equal([]int64{0, 960}, tempoTicks)
}

func TestKeyClamping(t *testing.T) {
	assert := assert.New(t)

	song := exportSong()
	track := model.NewVocalTrack(model.LeadVocals)
	track.Notes = []model.Note{
		{Type: model.NoteNormal, Begin: 0, End: 0.5, Pitch: 80, Syllable: "hi"},
		{Type: model.NoteNormal, Begin: 0.5, End: 1.0, Pitch: -70, Syllable: "lo"},
	}
	song.InsertVocalTrack(model.LeadVocals, track)

	s, err := TrackSMF(song, model.LeadVocals)
	assert.NoError(err)

	ons, _, _, _ := collectNotes(readBack(t, s).Tracks[1])
	assert.Equal(uint8(127), ons[0].key)
	assert.Equal(uint8(0), ons[1].key)
}

func TestSongSMFRendersAllTracks(t *testing.T) {
	assert := assert.New(t)

	song := exportSong()
	duet := model.NewVocalTrack(model.Harmonic1)
	duet.Notes = []model.Note{
		{Type: model.NoteNormal, Begin: 0, End: 0.5, Pitch: 2, Syllable: "ha"},
	}
	song.InsertVocalTrack(model.Harmonic1, duet)

	s, err := SongSMF(song)
	assert.NoError(err)
	assert.Len(readBack(t, s).Tracks, 3)
}

func TestExportWithoutTempoFails(t *testing.T) {
	assert := assert.New(t)

	song := exportSong()
	song.Tempo = nil
	_, err := TrackSMF(song, model.LeadVocals)
	assert.Error(err)
	assert.Contains(err.Error(), "no tempo information")
}

func TestExportWithoutTracksFails(t *testing.T) {
	assert := assert.New(t)

	song := model.NewSong("dir/song.txt")
	song.Tempo = []model.TempoChange{{Tick: 0, BPM: 120}}
	_, err := TrackSMF(song, model.LeadVocals)
	assert.Error(err)
	assert.Contains(err.Error(), "no vocal track")
}

func TestWriteTrackFile(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "out.mid")
	err := WriteTrackFile(exportSong(), model.LeadVocals, path)
	assert.NoError(err)

	dat, err := os.ReadFile(path)
	assert.NoError(err)
	rd, err := smf.ReadFrom(bytes.NewReader(dat))
	assert.NoError(err)
	assert.Len(rd.Tracks, 2)
}
