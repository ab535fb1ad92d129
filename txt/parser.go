package txt

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/jsphweid/karadex/model"
	"github.com/jsphweid/karadex/tempo"
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Parse decodes a complete chart from r: header fields, then the note
// body through the end marker. path labels the song and resolves asset
// references.
func Parse(r io.Reader, path string) (*model.Song, []Warning, error) {
	scanner := bufio.NewScanner(r)
	song := model.NewSong(path)

	h, first, hasBody, line, err := parseHeaderLines(scanner, song)
	if err != nil {
		return nil, nil, err
	}
	if song.Title == "" || song.Artist == "" {
		return nil, nil, &ParseError{Line: line, Err: ErrMissingFields}
	}

	startLine := line
	if hasBody {
		startLine = line - 1
	}
	dec, err := NewDecoder(Config{
		DefaultBPM: h.bpm,
		Gap:        h.gap,
		Relative:   h.relative,
		Path:       path,
		StartLine:  startLine,
	})
	if err != nil {
		return nil, nil, &ParseError{Line: line, Err: err}
	}

	if hasBody {
		done, err := dec.DecodeLine(first)
		if err != nil {
			return nil, nil, err
		}
		for !done && scanner.Scan() {
			done, err = dec.DecodeLine(scanner.Text())
			if err != nil {
				return nil, nil, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read chart: %w", err)
	}

	track, err := dec.Finalize()
	if err != nil {
		return nil, nil, err
	}
	song.InsertVocalTrack(track.Name, track)
	song.Gap = h.gap
	song.Relative = h.relative
	song.Tempo = dec.TempoMap().Changes()
	song.BrokenTracks = dec.Corrected()
	song.Status = model.LoadFull
	return song, dec.Warnings(), nil
}

// ParseHeader decodes only the header, enough to list the song in a
// library browser. The lead track is inserted empty as a marker that a
// vocal track exists.
func ParseHeader(r io.Reader, path string) (*model.Song, error) {
	scanner := bufio.NewScanner(r)
	song := model.NewSong(path)

	h, _, _, line, err := parseHeaderLines(scanner, song)
	if err != nil {
		return nil, err
	}
	if song.Title == "" || song.Artist == "" {
		return nil, &ParseError{Line: line, Err: ErrMissingFields}
	}

	m := tempo.Map{Gap: h.gap}
	if h.bpm != 0 {
		if err := m.AddBreakpoint(0, h.bpm); err != nil {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("%w: %v", ErrFormat, err)}
		}
	}
	song.Gap = h.gap
	song.Relative = h.relative
	song.Tempo = m.Changes()
	song.InsertVocalTrack(model.LeadVocals, model.NewVocalTrack(model.LeadVocals))
	song.Status = model.LoadHeader
	return song, nil
}

// ParseFile reads and decodes the chart at path. Files are slurped
// whole; charts are small.
func ParseFile(path string) (*model.Song, []Warning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !Check(data) {
		return nil, nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: not a chart header", ErrFormat)}
	}
	return Parse(bytes.NewReader(data), path)
}

// ParseFileHeader is the header-only variant of ParseFile.
func ParseFileHeader(path string) (*model.Song, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)
	if !Check(data) {
		return nil, &ParseError{Line: 1, Err: fmt.Errorf("%w: not a chart header", ErrFormat)}
	}
	return ParseHeader(bytes.NewReader(data), path)
}

// parseHeaderLines consumes header lines until the body starts. It
// returns the first body line (unconsumed by the header) and the line
// count so far.
func parseHeaderLines(scanner *bufio.Scanner, song *model.Song) (header, string, bool, int, error) {
	var h header
	line := 0
	for scanner.Scan() {
		line++
		ok, err := h.parseField(scanner.Text(), song)
		if err != nil {
			return h, "", false, line, &ParseError{Line: line, Err: err}
		}
		if !ok {
			return h, scanner.Text(), true, line, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return h, "", false, line, fmt.Errorf("failed to read chart: %w", err)
	}
	return h, "", false, line, nil
}
