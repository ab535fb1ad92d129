package model

// SongRow is one catalog entry, as stored in sqlite and served over
// HTTP. Stats columns are zero for header-only scans.
type SongRow struct {
	ID       string `json:"id"`
	Path     string `json:"path"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Genre    string `json:"genre,omitempty"`
	Edition  string `json:"edition,omitempty"`
	Creator  string `json:"creator,omitempty"`
	Language string `json:"language,omitempty"`
	Year     int    `json:"year,omitempty"`

	NoteCount   int     `json:"note_count"`
	GoldenCount int     `json:"golden_count"`
	LineCount   int     `json:"line_count"`
	Duration    float64 `json:"duration"`
	PitchMin    int     `json:"pitch_min"`
	PitchMax    int     `json:"pitch_max"`

	Relative bool  `json:"relative"`
	Broken   bool  `json:"broken"`
	ModTime  int64 `json:"mod_time"`
}

// ChartMetadata is a curated record from the external metadata table,
// used to fill fields a chart header left out.
type ChartMetadata struct {
	Year     int
	Genre    string
	Language string
}
