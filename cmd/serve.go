package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/bep/debounce"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jsphweid/karadex/catalog"
	"github.com/jsphweid/karadex/constants"
	"github.com/jsphweid/karadex/library"
	"github.com/jsphweid/karadex/model"
	"github.com/jsphweid/karadex/txt"
)

var (
	serveDB   string
	serveRoot string
	servePort int
)

var cat *catalog.Catalog

// Spamming POST /rescan walks the library once, not once per request.
var rescanDebounced = debounce.New(2 * time.Second)

func init() {
	serveCmd.Flags().StringVar(&serveDB, "db", constants.GetCatalogPath(), "catalog database path")
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "library root walked on POST /rescan")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "listen port")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the catalog over http",
	Long:  `Serves the catalog over http`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

// LoadServeFiles opens the catalog the handlers read from. root is the
// library directory a rescan walks.
func LoadServeFiles(root string, dbPath string) {
	c, err := catalog.Open(dbPath)
	if err != nil {
		panic("Could not open catalog because: " + err.Error())
	}
	cat = c
	serveRoot = root
	serveDB = dbPath
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func HandleListSongs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := catalog.Filter{
		Artist:     q.Get("artist"),
		Title:      q.Get("title"),
		Language:   q.Get("language"),
		BrokenOnly: q.Get("broken") == "true",
	}
	if limit := q.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		f.Limit = n
	}

	rows, err := cat.ListSongs(f)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func HandleGetSong(w http.ResponseWriter, r *http.Request) {
	row, err := cat.GetSong(mux.Vars(r)["id"])
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// HandleGetSongNotes re-decodes the chart on every request. Charts are
// a few kilobytes, not worth caching.
func HandleGetSongNotes(w http.ResponseWriter, r *http.Request) {
	row, err := cat.GetSong(mux.Vars(r)["id"])
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, http.StatusNotFound, "song not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	song, _, err := txt.ParseFile(row.Path)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not decode chart: "+err.Error())
		return
	}

	name := r.URL.Query().Get("track")
	if name == "" {
		name = model.LeadVocals
	}
	writeJSON(w, http.StatusOK, model.NewTrackResponse(song.GetVocalTrack(name)))
}

func HandleRescan(w http.ResponseWriter, r *http.Request) {
	if serveRoot == "" {
		writeError(w, http.StatusBadRequest, "no library root configured")
		return
	}
	rescanDebounced(runRescan)
	writeJSON(w, http.StatusAccepted, model.RescanResponse{Status: "rescan scheduled"})
}

func runRescan() {
	report, err := library.Scan(library.ScanOptions{Root: serveRoot, DB: serveDB})
	if err != nil {
		logrus.Errorf("rescan failed: %v", err)
		return
	}
	logrus.Infof("rescan indexed %v of %v charts", report.Indexed, report.Found)
}

// NewRouter wires the catalog endpoints.
func NewRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/songs", HandleListSongs).Methods("GET")
	router.HandleFunc("/songs/{id}", HandleGetSong).Methods("GET")
	router.HandleFunc("/songs/{id}/notes", HandleGetSongNotes).Methods("GET")
	router.HandleFunc("/rescan", HandleRescan).Methods("POST")
	return router
}

func serve() {
	LoadServeFiles(serveRoot, serveDB)
	handler := cors.Default().Handler(NewRouter())
	fmt.Printf("Serving catalog on :%v\n", servePort)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", servePort), handler))
}
