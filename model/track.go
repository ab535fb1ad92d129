package model

import "math"

// VocalTrack holds one performer's decoded note sequence. PitchMin and
// PitchMax start at extreme sentinels and only move when a non-sleep
// note with positive duration is accepted.
type VocalTrack struct {
	Name     string
	Notes    []Note
	PitchMin int
	PitchMax int
}

func NewVocalTrack(name string) *VocalTrack {
	return &VocalTrack{
		Name:     name,
		PitchMin: math.MaxInt32,
		PitchMax: math.MinInt32,
	}
}

// Duration is the end time of the last note, 0 for an empty track.
func (t *VocalTrack) Duration() float64 {
	if len(t.Notes) == 0 {
		return 0
	}
	return t.Notes[len(t.Notes)-1].End
}

// NoteCount counts sung notes, sleeps excluded.
func (t *VocalTrack) NoteCount() int {
	var n int
	for _, note := range t.Notes {
		if note.Type != NoteSleep {
			n++
		}
	}
	return n
}

func (t *VocalTrack) GoldenCount() int {
	var n int
	for _, note := range t.Notes {
		if note.Type == NoteGolden {
			n++
		}
	}
	return n
}

// LineCount counts phrase ends, i.e. notes carrying the LineBreak flag.
func (t *VocalTrack) LineCount() int {
	var n int
	for _, note := range t.Notes {
		if note.LineBreak {
			n++
		}
	}
	return n
}

// HasPitchRange reports whether any pitched note was observed.
func (t *VocalTrack) HasPitchRange() bool {
	return t.PitchMin <= t.PitchMax
}
