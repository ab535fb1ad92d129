package model

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Vocal track names used by the txt format. Plain charts carry a single
// lead track; duet dialects add harmonics.
const (
	LeadVocals = "Vocals"
	Harmonic1  = "Harmonic 1"
	Harmonic2  = "Harmonic 2"
	Harmonic3  = "Harmonic 3"
)

// LoadStatus tells how much of a song has been parsed.
type LoadStatus int

const (
	LoadNone LoadStatus = iota
	LoadHeader
	LoadFull
)

// TempoChange records one tempo map breakpoint as authored in the chart.
type TempoChange struct {
	Tick uint32  `json:"tick"`
	BPM  float64 `json:"bpm"`
}

// Song is one parsed chart: header metadata, asset paths and the decoded
// vocal tracks. BrokenTracks is set when decoding had to repair or drop
// overlapping notes.
type Song struct {
	Title    string
	Artist   string
	Genre    string
	Edition  string
	Creator  string
	Language string
	Year     int

	// Asset paths resolved against the song directory.
	Music      map[string]string
	Cover      string
	Background string
	Video      string

	VideoGap     float64
	Start        float64
	PreviewStart float64

	// Timing captured from the finished parse, enough to rebuild the
	// tempo map for exports.
	Gap      float64
	Tempo    []TempoChange
	Relative bool

	Path     string
	Filename string

	BrokenTracks bool
	Status       LoadStatus

	vocalTracks map[string]*VocalTrack
}

// NewSong creates an empty song for the chart at path.
func NewSong(path string) *Song {
	return &Song{
		Music:       make(map[string]string),
		Path:        filepath.Dir(path),
		Filename:    filepath.Base(path),
		vocalTracks: make(map[string]*VocalTrack),
	}
}

func (s *Song) FullPath() string {
	return filepath.Join(s.Path, s.Filename)
}

func (s *Song) InsertVocalTrack(name string, t *VocalTrack) {
	s.vocalTracks[name] = t
}

// VocalTrackNames returns the track names in stable sorted order.
func (s *Song) VocalTrackNames() []string {
	names := make([]string, 0, len(s.vocalTracks))
	for name := range s.vocalTracks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetVocalTrack returns the requested track, falling back to the lead
// track and then to any track at all. Nil when the song has none.
func (s *Song) GetVocalTrack(name string) *VocalTrack {
	if t, ok := s.vocalTracks[name]; ok {
		return t
	}
	if t, ok := s.vocalTracks[LeadVocals]; ok {
		return t
	}
	for _, n := range s.VocalTrackNames() {
		return s.vocalTracks[n]
	}
	return nil
}

func (s *Song) String() string {
	return fmt.Sprintf("%s - %s", s.Artist, s.Title)
}

// collate folds a string into a crude sort key: lowercase with
// whitespace runs collapsed to single spaces.
func collate(str string) string {
	return strings.Join(strings.Fields(strings.ToLower(str)), " ")
}

func (s *Song) CollateByTitle() string {
	return collate(s.Title)
}

func (s *Song) CollateByArtist() string {
	return collate(s.Artist)
}

// MetadataKey is the lookup key used by the external metadata table.
func (s *Song) MetadataKey() string {
	return s.CollateByArtist() + "|" + s.CollateByTitle()
}
