package line

import (
	"testing"

	"github.com/jsphweid/karadex/model"
	"github.com/stretchr/testify/assert"
)

func TestSplitsLinesAtLineBreaks(t *testing.T) {
	vt := model.NewVocalTrack(model.LeadVocals)
	vt.Notes = []model.Note{
		{Type: model.NoteNormal, Begin: 0, End: 0.5, Pitch: 60, Syllable: "Wa"},
		{Type: model.NoteNormal, Begin: 0.5, End: 1, Pitch: 62, Syllable: "ter", LineBreak: true},
		{Type: model.NoteSleep, Begin: 1, End: 1},
		{Type: model.NoteGolden, Begin: 1.5, End: 2, Pitch: 64, Syllable: "loo"},
	}
	lines := Split(vt)

	assert := assert.New(t)
	assert.Len(lines, 2)
	assert.Equal(lines[0], Line{Begin: 0, End: 1, Text: "Water"})
	assert.Equal(lines[1], Line{Begin: 1.5, End: 2, Text: "loo"})
}

func TestKeepsSyllableSpacing(t *testing.T) {
	vt := model.NewVocalTrack(model.LeadVocals)
	vt.Notes = []model.Note{
		{Type: model.NoteNormal, Begin: 0, End: 0.5, Syllable: "Dan"},
		{Type: model.NoteNormal, Begin: 0.5, End: 1, Syllable: "cing"},
		{Type: model.NoteNormal, Begin: 1, End: 1.5, Syllable: " queen"},
	}
	lines := Split(vt)

	assert := assert.New(t)
	assert.Len(lines, 1)
	assert.Equal(lines[0].Text, "Dancing queen")
}

func TestSleepsNeverOpenALine(t *testing.T) {
	vt := model.NewVocalTrack(model.LeadVocals)
	vt.Notes = []model.Note{
		{Type: model.NoteSleep, Begin: 0, End: 0},
		{Type: model.NoteNormal, Begin: 2, End: 2.5, Syllable: "hey"},
	}
	lines := Split(vt)

	assert := assert.New(t)
	assert.Len(lines, 1)
	assert.Equal(lines[0], Line{Begin: 2, End: 2.5, Text: "hey"})
}

func TestLastLineClosesWithoutBreak(t *testing.T) {
	vt := model.NewVocalTrack(model.LeadVocals)
	vt.Notes = []model.Note{
		{Type: model.NoteNormal, Begin: 0, End: 0.5, Syllable: "la", LineBreak: true},
		{Type: model.NoteNormal, Begin: 1, End: 1.5, Syllable: "da"},
		{Type: model.NoteNormal, Begin: 1.5, End: 2, Syllable: "dum"},
	}
	lines := Split(vt)

	assert := assert.New(t)
	assert.Len(lines, 2)
	assert.Equal(lines[1], Line{Begin: 1, End: 2, Text: "dadum"})
}

func TestEmptyTrackHasNoLines(t *testing.T) {
	vt := model.NewVocalTrack(model.LeadVocals)

	assert := assert.New(t)
	assert.Empty(Split(vt))
	assert.Equal(Text(vt), "")
}

func TestTextJoinsLines(t *testing.T) {
	vt := model.NewVocalTrack(model.LeadVocals)
	vt.Notes = []model.Note{
		{Type: model.NoteNormal, Begin: 0, End: 0.5, Syllable: "one", LineBreak: true},
		{Type: model.NoteNormal, Begin: 1, End: 1.5, Syllable: "two"},
	}

	assert := assert.New(t)
	assert.Equal(Text(vt), "one\ntwo")
}
