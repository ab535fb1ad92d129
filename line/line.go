package line

import (
	"strings"

	"github.com/jsphweid/karadex/model"
)

// Line is one sung lyric line of a vocal track.
type Line struct {
	Begin float64
	End   float64
	Text  string
}

// Split groups the pitched notes of a track into lyric lines. A line
// closes after a note carrying the LineBreak flag. Sleeps hold no text
// and never open a line.
func Split(vt *model.VocalTrack) []Line {
	var lines []Line
	var cur *Line
	for _, n := range vt.Notes {
		if n.Type == model.NoteSleep {
			continue
		}
		if cur == nil {
			cur = &Line{Begin: n.Begin}
		}
		cur.End = n.End
		cur.Text += n.Syllable
		if n.LineBreak {
			cur.Text = strings.TrimSpace(cur.Text)
			lines = append(lines, *cur)
			cur = nil
		}
	}
	if cur != nil {
		cur.Text = strings.TrimSpace(cur.Text)
		lines = append(lines, *cur)
	}
	return lines
}

// Text renders the full lyric sheet, one row per line.
func Text(vt *model.VocalTrack) string {
	var b strings.Builder
	for i, l := range Split(vt) {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(l.Text)
	}
	return b.String()
}
