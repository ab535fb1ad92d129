package txt

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jsphweid/karadex/model"
)

// Check sniffs whether data looks like a chart: a header key on the
// first line.
func Check(data []byte) bool {
	return len(data) >= 2 && data[0] == '#' && data[1] >= 'A' && data[1] <= 'Z'
}

// header collects the raw values the body decode depends on.
type header struct {
	bpm      float64
	gap      float64
	relative bool
}

// parseField handles one #KEY:VALUE line. It reports false when the
// line is not a header line, meaning the body starts here.
func (h *header) parseField(line string, song *model.Song) (bool, error) {
	if line == "" {
		return true, nil
	}
	if line[0] != '#' {
		return false, nil
	}
	pos := strings.IndexByte(line, ':')
	if pos < 0 {
		return false, fmt.Errorf("%w: should be #key:value", ErrFormat)
	}
	key := strings.TrimSpace(line[1:pos])
	value := strings.TrimSpace(line[pos+1:])
	if value == "" {
		return true, nil
	}
	var err error
	switch key {
	case "TITLE":
		song.Title = strings.TrimLeft(value, " :")
	case "ARTIST":
		song.Artist = value
	case "EDITION":
		song.Edition = value
	case "GENRE":
		song.Genre = value
	case "CREATOR":
		song.Creator = value
	case "LANGUAGE":
		song.Language = value
	case "YEAR":
		song.Year, err = strconv.Atoi(value)
	case "COVER":
		song.Cover = value
	case "MP3":
		song.Music["background"] = filepath.Join(song.Path, value)
	case "VOCALS":
		song.Music["vocals"] = filepath.Join(song.Path, value)
	case "VIDEO":
		song.Video = value
	case "BACKGROUND":
		song.Background = value
	case "START":
		song.Start, err = parseFloat(value)
	case "VIDEOGAP":
		song.VideoGap, err = parseFloat(value)
	case "PREVIEWSTART":
		song.PreviewStart, err = parseFloat(value)
	case "RELATIVE":
		h.relative, err = parseBool(value)
	case "GAP":
		h.gap, err = parseFloat(value)
		h.gap *= 1e-3
	case "BPM":
		h.bpm, err = parseFloat(value)
	default:
		// Unknown keys are plentiful across dialects and ignored.
	}
	if err != nil {
		return false, fmt.Errorf("%w: bad %s value %q", ErrFormat, key, value)
	}
	return true, nil
}

// parseFloat accepts ',' as the decimal separator, a common authoring
// convention for bpm and gap values.
func parseFloat(value string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
}

func parseBool(value string) (bool, error) {
	switch value {
	case "YES", "yes", "1":
		return true, nil
	case "NO", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value %q", value)
}
