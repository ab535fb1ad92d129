package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/jsphweid/karadex/model"
)

var ErrNotFound = errors.New("song not found")

// Catalog is the sqlite-backed song index. One row per chart file,
// keyed by a stable id that survives rescans of the same path.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path.
func Open(path string) (*Catalog, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %v", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %v", err)
	}

	createTableSQL := `
	CREATE TABLE IF NOT EXISTS songs (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL UNIQUE,
		title TEXT NOT NULL,
		artist TEXT NOT NULL,
		genre TEXT DEFAULT '',
		edition TEXT DEFAULT '',
		creator TEXT DEFAULT '',
		language TEXT DEFAULT '',
		year INTEGER DEFAULT 0,
		note_count INTEGER DEFAULT 0,
		golden_count INTEGER DEFAULT 0,
		line_count INTEGER DEFAULT 0,
		duration REAL DEFAULT 0,
		pitch_min INTEGER DEFAULT 0,
		pitch_max INTEGER DEFAULT 0,
		relative BOOLEAN DEFAULT 0,
		broken BOOLEAN DEFAULT 0,
		mod_time INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_songs_artist ON songs(artist);
	CREATE INDEX IF NOT EXISTS idx_songs_title ON songs(title);
	`
	if _, err := db.Exec(createTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create songs table: %v", err)
	}

	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// UpsertSong inserts or refreshes the row for row.Path and returns the
// song id. A path that was cataloged before keeps its id.
func (c *Catalog) UpsertSong(row model.SongRow) (string, error) {
	id := row.ID
	if id == "" {
		err := c.db.QueryRow("SELECT id FROM songs WHERE path = ?", row.Path).Scan(&id)
		if err == sql.ErrNoRows {
			id = uuid.New().String()
		} else if err != nil {
			return "", fmt.Errorf("failed to look up song by path: %v", err)
		}
	}

	query := `INSERT OR REPLACE INTO songs
		(id, path, title, artist, genre, edition, creator, language, year,
		 note_count, golden_count, line_count, duration, pitch_min, pitch_max,
		 relative, broken, mod_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := c.db.Exec(query, id, row.Path, row.Title, row.Artist, row.Genre,
		row.Edition, row.Creator, row.Language, row.Year,
		row.NoteCount, row.GoldenCount, row.LineCount, row.Duration,
		row.PitchMin, row.PitchMax, row.Relative, row.Broken, row.ModTime)
	if err != nil {
		return "", fmt.Errorf("failed to upsert song: %v", err)
	}
	return id, nil
}

const songColumns = `id, path, title, artist, genre, edition, creator, language, year,
	note_count, golden_count, line_count, duration, pitch_min, pitch_max,
	relative, broken, mod_time`

func scanSongRow(scanner interface{ Scan(...any) error }) (model.SongRow, error) {
	var row model.SongRow
	err := scanner.Scan(&row.ID, &row.Path, &row.Title, &row.Artist, &row.Genre,
		&row.Edition, &row.Creator, &row.Language, &row.Year,
		&row.NoteCount, &row.GoldenCount, &row.LineCount, &row.Duration,
		&row.PitchMin, &row.PitchMax, &row.Relative, &row.Broken, &row.ModTime)
	return row, err
}

// GetSong returns the row with the given id, ErrNotFound when absent.
func (c *Catalog) GetSong(id string) (*model.SongRow, error) {
	row, err := scanSongRow(c.db.QueryRow(
		"SELECT "+songColumns+" FROM songs WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song: %v", err)
	}
	return &row, nil
}

// GetSongByPath returns the row cataloged for a chart file path.
func (c *Catalog) GetSongByPath(path string) (*model.SongRow, error) {
	row, err := scanSongRow(c.db.QueryRow(
		"SELECT "+songColumns+" FROM songs WHERE path = ?", path))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get song by path: %v", err)
	}
	return &row, nil
}

// Filter narrows ListSongs. String fields match case-insensitive
// substrings; zero values match everything.
type Filter struct {
	Artist     string
	Title      string
	Language   string
	BrokenOnly bool
	Limit      int
}

// ListSongs returns cataloged songs ordered by artist then title.
func (c *Catalog) ListSongs(f Filter) ([]model.SongRow, error) {
	query := "SELECT " + songColumns + " FROM songs WHERE 1=1"
	args := []any{}
	if f.Artist != "" {
		query += " AND LOWER(artist) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.Artist)+"%")
	}
	if f.Title != "" {
		query += " AND LOWER(title) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.Title)+"%")
	}
	if f.Language != "" {
		query += " AND LOWER(language) LIKE ?"
		args = append(args, "%"+strings.ToLower(f.Language)+"%")
	}
	if f.BrokenOnly {
		query += " AND broken = 1"
	}
	query += " ORDER BY artist, title"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list songs: %v", err)
	}
	defer rows.Close()

	results := []model.SongRow{}
	for rows.Next() {
		row, err := scanSongRow(rows)
		if err != nil {
			continue
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (c *Catalog) CountSongs() (int, error) {
	var n int
	if err := c.db.QueryRow("SELECT COUNT(*) FROM songs").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count songs: %v", err)
	}
	return n, nil
}

func (c *Catalog) DeleteSong(id string) error {
	_, err := c.db.Exec("DELETE FROM songs WHERE id = ?", id)
	return err
}

// UpdateMetadata fills in curated metadata, only where the chart header
// left the field empty.
func (c *Catalog) UpdateMetadata(id string, meta model.ChartMetadata) error {
	query := `UPDATE songs SET
		year = CASE WHEN year = 0 THEN ? ELSE year END,
		genre = CASE WHEN genre = '' THEN ? ELSE genre END,
		language = CASE WHEN language = '' THEN ? ELSE language END
		WHERE id = ?`
	_, err := c.db.Exec(query, meta.Year, meta.Genre, meta.Language, id)
	if err != nil {
		return fmt.Errorf("failed to update metadata: %v", err)
	}
	return nil
}

// Stats summarizes the catalog for reporting.
type Stats struct {
	Songs       int
	Notes       int
	GoldenNotes int
	Broken      int
	Duration    float64
}

func (c *Catalog) GetStats() (Stats, error) {
	var s Stats
	query := `SELECT COUNT(*),
		COALESCE(SUM(note_count), 0),
		COALESCE(SUM(golden_count), 0),
		COALESCE(SUM(broken), 0),
		COALESCE(SUM(duration), 0)
		FROM songs`
	err := c.db.QueryRow(query).Scan(&s.Songs, &s.Notes, &s.GoldenNotes, &s.Broken, &s.Duration)
	if err != nil {
		return s, fmt.Errorf("failed to read stats: %v", err)
	}
	return s, nil
}
