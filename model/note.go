package model

// NoteType tags a note with its chart marker character.
type NoteType byte

const (
	NoteNormal    NoteType = ':'
	NoteGolden    NoteType = '*'
	NoteFreestyle NoteType = 'F'
	NoteSleep     NoteType = '-'
)

func (t NoteType) String() string {
	switch t {
	case NoteNormal:
		return "normal"
	case NoteGolden:
		return "golden"
	case NoteFreestyle:
		return "freestyle"
	case NoteSleep:
		return "sleep"
	}
	return "unknown"
}

// Note is one event on the decoded timeline. Begin and End are absolute
// seconds. PrevPitch equals Pitch for now; the txt format has no slide
// notes. LineBreak is set on the note preceding a sleep, not on the
// sleep itself.
type Note struct {
	Type      NoteType
	Begin     float64
	End       float64
	Pitch     int
	PrevPitch int
	Syllable  string
	LineBreak bool
}

func (n Note) Duration() float64 {
	return n.End - n.Begin
}
