package model

// NoteView is the wire shape of one decoded note.
type NoteView struct {
	Kind      string  `json:"kind"`
	Begin     float64 `json:"begin"`
	End       float64 `json:"end"`
	Pitch     int     `json:"pitch"`
	Syllable  string  `json:"syllable,omitempty"`
	LineBreak bool    `json:"line_break,omitempty"`
}

// TrackResponse is the wire shape of one decoded vocal track.
type TrackResponse struct {
	Name     string     `json:"name"`
	PitchMin int        `json:"pitch_min"`
	PitchMax int        `json:"pitch_max"`
	Notes    []NoteView `json:"notes"`
}

func NewTrackResponse(t *VocalTrack) TrackResponse {
	res := TrackResponse{Name: t.Name, Notes: make([]NoteView, 0, len(t.Notes))}
	if t.HasPitchRange() {
		res.PitchMin = t.PitchMin
		res.PitchMax = t.PitchMax
	}
	for _, n := range t.Notes {
		res.Notes = append(res.Notes, NoteView{
			Kind:      n.Type.String(),
			Begin:     n.Begin,
			End:       n.End,
			Pitch:     n.Pitch,
			Syllable:  n.Syllable,
			LineBreak: n.LineBreak,
		})
	}
	return res
}

type RescanResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
