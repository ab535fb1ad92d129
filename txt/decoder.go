package txt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jsphweid/karadex/model"
	"github.com/jsphweid/karadex/tempo"
	"github.com/jsphweid/karadex/util"
)

// Config seeds a Decoder with the header values the chart body depends
// on.
type Config struct {
	// TrackName names the produced vocal track, LeadVocals by default.
	TrackName string
	// DefaultBPM seeds the tempo map at tick 0 when nonzero.
	DefaultBPM float64
	// Gap shifts all decoded times, in seconds.
	Gap float64
	// Relative enables section-relative timestamps.
	Relative bool
	// Path labels diagnostics with the source file.
	Path string
	// StartLine offsets line numbers in diagnostics so they match the
	// full file when header lines were consumed elsewhere.
	StartLine int
}

// Decoder turns chart body lines into one vocal track. A decoder is
// used for a single track and never reused; separate decoders share
// nothing, so whole songs can be decoded in parallel.
type Decoder struct {
	cfg   Config
	tm    *tempo.Map
	track *model.VocalTrack
	warns []Warning

	line     int     // 1-based line of the most recent input
	prevTick uint32  // tick cursor, also the fallback for bare sleeps
	prevTime float64 // end time of the previous decoded candidate
	relShift uint32  // accumulated offset for relative mode
	done     bool
}

func NewDecoder(cfg Config) (*Decoder, error) {
	if cfg.TrackName == "" {
		cfg.TrackName = model.LeadVocals
	}
	d := &Decoder{
		cfg:   cfg,
		tm:    &tempo.Map{Gap: cfg.Gap},
		track: model.NewVocalTrack(cfg.TrackName),
		line:  cfg.StartLine,
	}
	if cfg.DefaultBPM != 0 {
		if err := d.tm.AddBreakpoint(0, cfg.DefaultBPM); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFormat, err)
		}
	}
	return d, nil
}

// DecodeLine consumes one body line. It reports true once the end
// marker has been seen; any further lines are ignored.
func (d *Decoder) DecodeLine(line string) (bool, error) {
	d.line++
	if d.done {
		return true, nil
	}
	if line == "" || line == "\r" {
		return false, nil
	}
	line = strings.TrimSuffix(line, "\r")
	switch line[0] {
	case '#':
		return false, d.fatalf("header key found in the middle of notes")
	case 'E':
		d.done = true
		return true, nil
	case 'B':
		return false, d.tempoDirective(line[1:])
	case 'P':
		// Player tags carry multi-performer metadata, irrelevant to a
		// single timeline.
		return false, nil
	}
	return false, d.noteLine(line)
}

func (d *Decoder) tempoDirective(rest string) error {
	f := fieldScanner{s: rest}
	ts, ok1 := f.uint()
	bpm, ok2 := f.float()
	if !ok1 || !ok2 {
		return d.fatalf("invalid bpm line format")
	}
	if err := d.tm.AddBreakpoint(ts, bpm); err != nil {
		return d.fatalErr(err)
	}
	return nil
}

func (d *Decoder) noteLine(line string) error {
	var n model.Note
	n.Type = model.NoteType(line[0])
	f := fieldScanner{s: line[1:]}
	ts := d.prevTick

	switch n.Type {
	case model.NoteNormal, model.NoteFreestyle, model.NoteGolden:
		tsv, ok1 := f.uint()
		length, ok2 := f.uint()
		pitch, ok3 := f.int()
		if !ok1 || !ok2 || !ok3 {
			return d.fatalf("invalid note line format")
		}
		ts = tsv
		if d.cfg.Relative {
			ts += d.relShift
		}
		n.Pitch = pitch
		n.PrevPitch = pitch
		// A single space separates the pitch from the syllable, which
		// is then taken verbatim to the end of the line.
		if b, ok := f.next(); ok && b == ' ' {
			n.Syllable = f.rest()
		}
		end, err := d.tm.TickToSeconds(ts + length)
		if err != nil {
			return d.fatalErr(err)
		}
		n.End = end
	case model.NoteSleep:
		// Sleeps are repaired rather than rejected: a missing tick
		// falls back to the cursor, a missing end to the tick.
		endTick := ts
		if tsv, ok := f.uint(); ok {
			ts = tsv
			endTick = ts
			if ev, ok := f.uint(); ok {
				endTick = ev
			}
		}
		if d.cfg.Relative {
			ts += d.relShift
			endTick += d.relShift
			d.relShift = endTick
		}
		end, err := d.tm.TickToSeconds(endTick)
		if err != nil {
			return d.fatalErr(err)
		}
		n.End = end
	default:
		return d.fatalf("unknown note type %q", line[0])
	}

	begin, err := d.tm.TickToSeconds(ts)
	if err != nil {
		return d.fatalErr(err)
	}
	n.Begin = begin

	if d.cfg.Relative && len(d.track.Notes) == 0 {
		d.relShift = ts
	}
	d.prevTick = ts

	return d.place(n)
}

// place runs the candidate through overlap correction against the track
// so far, then normalizes sleeps and appends. Too many charts in the
// wild overlap to reject them outright, so the previous note is
// shortened, or a stray sleep repositioned, before a candidate is ever
// dropped.
func (d *Decoder) place(n model.Note) error {
	notes := d.track.Notes
	if n.Begin < d.prevTime {
		if len(notes) == 0 {
			return d.fatalf("the first note has negative timestamp")
		}
		p := &notes[len(notes)-1]
		if p.Type == model.NoteSleep {
			// Semi-random sleep timestamps: collapse the sleep, and
			// when the note before it is clear of the candidate, move
			// the marker right up to the candidate.
			p.End = p.Begin
			if len(notes) >= 2 && notes[len(notes)-2].End < n.Begin {
				p.Begin = n.Begin
				p.End = n.Begin
			}
		}
		if p.Begin <= n.Begin {
			p.End = n.Begin
			d.warnf("shortening note overlapping next note in %v", d.cfg.Path)
		} else {
			d.warnf("skipping overlapping note in %v", d.cfg.Path)
			return nil
		}
	}
	prevTime := d.prevTime
	d.prevTime = n.End

	if n.Type != model.NoteSleep && n.End > n.Begin {
		d.track.PitchMin = util.Min(d.track.PitchMin, n.Pitch)
		d.track.PitchMax = util.Max(d.track.PitchMax, n.Pitch)
	}
	if n.Type == model.NoteSleep {
		if len(d.track.Notes) == 0 {
			// A rest before anything has sounded means nothing.
			return nil
		}
		n.Begin = prevTime
		n.End = prevTime
		d.track.Notes[len(d.track.Notes)-1].LineBreak = true
	}
	d.track.Notes = append(d.track.Notes, n)
	return nil
}

// Finalize ends decoding: the zero-width trailing note some converters
// emit is dropped, as are rests against the end marker, then the
// finished track is handed over.
func (d *Decoder) Finalize() (*model.VocalTrack, error) {
	notes := d.track.Notes
	if len(notes) > 0 {
		last := notes[len(notes)-1]
		if last.Type != model.NoteSleep && last.Begin == last.End {
			notes = notes[:len(notes)-1]
		}
	}
	// A trailing rest says nothing; its line break already sits on the
	// note before it.
	for len(notes) > 0 && notes[len(notes)-1].Type == model.NoteSleep {
		notes = notes[:len(notes)-1]
	}
	d.track.Notes = notes
	if len(notes) == 0 {
		return nil, &ParseError{Line: d.line, Err: ErrEmptyTrack}
	}
	return d.track, nil
}

// Warnings lists the repairs made so far, in input order.
func (d *Decoder) Warnings() []Warning {
	return d.warns
}

// Corrected reports whether any overlap had to be repaired.
func (d *Decoder) Corrected() bool {
	return len(d.warns) > 0
}

// TempoMap exposes the map built up from the header bpm and B lines.
func (d *Decoder) TempoMap() *tempo.Map {
	return d.tm
}

func (d *Decoder) fatalf(format string, args ...any) error {
	return &ParseError{Line: d.line, Err: fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))}
}

func (d *Decoder) fatalErr(err error) error {
	return &ParseError{Line: d.line, Err: fmt.Errorf("%w: %v", ErrFormat, err)}
}

func (d *Decoder) warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	d.warns = append(d.warns, Warning{Line: d.line, Message: msg})
	logrus.Warnf("%s (line %d)", msg, d.line)
}

// fieldScanner reads whitespace-separated numeric fields off a line the
// way stream extraction would, leaving the remainder untouched so the
// syllable can be captured verbatim.
type fieldScanner struct {
	s   string
	pos int
}

func (f *fieldScanner) skipSpace() {
	for f.pos < len(f.s) && (f.s[f.pos] == ' ' || f.s[f.pos] == '\t') {
		f.pos++
	}
}

func (f *fieldScanner) uint() (uint32, bool) {
	f.skipSpace()
	start := f.pos
	for f.pos < len(f.s) && f.s[f.pos] >= '0' && f.s[f.pos] <= '9' {
		f.pos++
	}
	if f.pos == start {
		return 0, false
	}
	v, err := strconv.ParseUint(f.s[start:f.pos], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(v), true
}

func (f *fieldScanner) int() (int, bool) {
	f.skipSpace()
	start := f.pos
	if f.pos < len(f.s) && (f.s[f.pos] == '-' || f.s[f.pos] == '+') {
		f.pos++
	}
	digits := f.pos
	for f.pos < len(f.s) && f.s[f.pos] >= '0' && f.s[f.pos] <= '9' {
		f.pos++
	}
	if f.pos == digits {
		f.pos = start
		return 0, false
	}
	v, err := strconv.Atoi(f.s[start:f.pos])
	if err != nil {
		return 0, false
	}
	return v, true
}

func (f *fieldScanner) float() (float64, bool) {
	f.skipSpace()
	start := f.pos
	if f.pos < len(f.s) && (f.s[f.pos] == '-' || f.s[f.pos] == '+') {
		f.pos++
	}
	for f.pos < len(f.s) && (f.s[f.pos] >= '0' && f.s[f.pos] <= '9' || f.s[f.pos] == '.') {
		f.pos++
	}
	if f.pos == start {
		return 0, false
	}
	v, err := strconv.ParseFloat(f.s[start:f.pos], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// next returns the byte at the cursor and advances past it.
func (f *fieldScanner) next() (byte, bool) {
	if f.pos >= len(f.s) {
		return 0, false
	}
	b := f.s[f.pos]
	f.pos++
	return b, true
}

func (f *fieldScanner) rest() string {
	return f.s[f.pos:]
}
