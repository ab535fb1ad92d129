package library

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/jsphweid/karadex/catalog"
	"github.com/jsphweid/karadex/constants"
	"github.com/jsphweid/karadex/db"
	"github.com/jsphweid/karadex/model"
	"github.com/jsphweid/karadex/txt"
	"github.com/jsphweid/karadex/util"
)

// ScanOptions configures one library scan.
type ScanOptions struct {
	// Root is the directory walked for chart files.
	Root string
	// DB is the catalog database path.
	DB string
	// HeaderOnly skips note decoding, enough to list songs quickly.
	HeaderOnly bool
	// Enrich fills missing year/genre/language from the curated
	// metadata table after indexing.
	Enrich bool
	// MaxNum caps how many charts are scanned, 0 for all.
	MaxNum int
}

// ScanReport counts what a scan did.
type ScanReport struct {
	Found    int
	Indexed  int
	Skipped  int
	Repaired int
	Enriched int
}

// Scan walks the library, parses every chart and upserts the results
// into the catalog. Unreadable charts are skipped, never fatal.
func Scan(opts ScanOptions) (*ScanReport, error) {
	paths := util.GatherAllChartPaths(opts.Root, opts.MaxNum)

	cat, err := catalog.Open(opts.DB)
	if err != nil {
		return nil, err
	}
	defer cat.Close()

	report := &ScanReport{Found: len(paths)}
	var pending []enrichKey

	for i, path := range paths {
		fmt.Printf("Processing %v of %v chart files\n", i+1, len(paths))

		song, warns, err := parseChart(path, opts.HeaderOnly)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			report.Skipped++
			continue
		}
		for _, w := range warns {
			logrus.Warnf("%v: %v", path, w)
		}

		row := BuildRow(song, modTime(path))
		id, err := cat.UpsertSong(row)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			report.Skipped++
			continue
		}
		report.Indexed++
		if song.BrokenTracks {
			report.Repaired++
		}
		if opts.Enrich && (row.Year == 0 || row.Genre == "" || row.Language == "") {
			pending = append(pending, enrichKey{id: id, key: song.MetadataKey()})
		}
	}

	if opts.Enrich {
		n, err := enrich(cat, pending)
		if err != nil {
			return nil, err
		}
		report.Enriched = n
	}
	return report, nil
}

func parseChart(path string, headerOnly bool) (*model.Song, []txt.Warning, error) {
	if headerOnly {
		song, err := txt.ParseFileHeader(path)
		return song, nil, err
	}
	return txt.ParseFile(path)
}

// BuildRow flattens a parsed song into its catalog row. Track stats are
// zero for header-only parses.
func BuildRow(song *model.Song, modTime int64) model.SongRow {
	row := model.SongRow{
		Path:     song.FullPath(),
		Title:    song.Title,
		Artist:   song.Artist,
		Genre:    song.Genre,
		Edition:  song.Edition,
		Creator:  song.Creator,
		Language: song.Language,
		Year:     song.Year,
		Relative: song.Relative,
		Broken:   song.BrokenTracks,
		ModTime:  modTime,
	}
	if song.Status != model.LoadFull {
		return row
	}
	track := song.GetVocalTrack(model.LeadVocals)
	if track == nil {
		return row
	}
	row.NoteCount = track.NoteCount()
	row.GoldenCount = track.GoldenCount()
	row.LineCount = track.LineCount()
	row.Duration = track.Duration()
	if track.HasPitchRange() {
		row.PitchMin = track.PitchMin
		row.PitchMax = track.PitchMax
	}
	return row
}

func modTime(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().Unix()
}

type enrichKey struct {
	id  string
	key string
}

// enrich resolves curated metadata for the pending songs in batches and
// fills the catalog gaps it can.
func enrich(cat *catalog.Catalog, pending []enrichKey) (int, error) {
	var enriched int
	for start := 0; start < len(pending); start += constants.MetadataBatchSize {
		end := util.Min(start+constants.MetadataBatchSize, len(pending))
		batch := pending[start:end]

		keys := make([]string, 0, len(batch))
		for _, p := range batch {
			keys = append(keys, p.key)
		}
		metas := db.GetChartMetadatas(keys)

		for _, p := range batch {
			meta, ok := metas[p.key]
			if !ok {
				continue
			}
			if err := cat.UpdateMetadata(p.id, meta); err != nil {
				return enriched, err
			}
			enriched++
		}
	}
	return enriched, nil
}
