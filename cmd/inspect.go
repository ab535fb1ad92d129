package cmd

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsphweid/karadex/line"
	"github.com/jsphweid/karadex/model"
	"github.com/jsphweid/karadex/txt"
	"github.com/jsphweid/karadex/util"
)

var (
	inspectNotes  bool
	inspectLyrics bool
)

func init() {
	inspectCmd.Flags().BoolVar(&inspectNotes, "notes", false, "dump the decoded timeline")
	inspectCmd.Flags().BoolVar(&inspectLyrics, "lyrics", false, "print the lyric sheet")
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect [chart]",
	Short: "Inspects a chart file",
	Long:  `Inspects a chart file`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		inspect(args[0])
	},
}

func inspect(path string) {
	song, warns, err := txt.ParseFile(path)
	if err != nil {
		panic("Could not parse chart because: " + err.Error())
	}

	fmt.Printf("song: %v\n", song)
	if song.Language != "" {
		fmt.Printf("language: %v\n", song.Language)
	}
	if song.Year != 0 {
		fmt.Printf("year: %v\n", song.Year)
	}
	fmt.Printf("gap: %vs\n", song.Gap)
	fmt.Printf("relative: %v\n", song.Relative)
	assets := util.GetKeys(song.Music)
	sort.Strings(assets)
	for _, key := range assets {
		fmt.Printf("audio %v: %v\n", key, song.Music[key])
	}
	for _, change := range song.Tempo {
		fmt.Printf("tempo: %v bpm at tick %v\n", change.BPM, change.Tick)
	}

	for _, name := range song.VocalTrackNames() {
		track := song.GetVocalTrack(name)
		duration := time.Duration(track.Duration() * float64(time.Second)).Round(time.Millisecond)
		fmt.Printf("track %v: %v notes (%v golden), %v lines, %v\n",
			name, track.NoteCount(), track.GoldenCount(), track.LineCount(), duration)
		if track.HasPitchRange() {
			fmt.Printf("track %v pitch range: %v..%v\n", name, track.PitchMin, track.PitchMax)
		}
		if inspectLyrics {
			for _, l := range line.Split(track) {
				fmt.Printf("  %8.3f  %s\n", l.Begin, l.Text)
			}
		}
		if inspectNotes {
			dumpNotes(track)
		}
	}

	for _, w := range warns {
		fmt.Printf("warning: %v\n", w)
	}
}

func dumpNotes(track *model.VocalTrack) {
	for _, n := range track.Notes {
		if n.Type == model.NoteSleep {
			fmt.Printf("  %8.3f sleep\n", n.Begin)
			continue
		}
		fmt.Printf("  %8.3f..%-8.3f %-9v %4d %q\n", n.Begin, n.End, n.Type, n.Pitch, n.Syllable)
		if n.LineBreak {
			fmt.Printf("  ---\n")
		}
	}
}
