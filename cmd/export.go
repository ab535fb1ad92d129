package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsphweid/karadex/midi"
	"github.com/jsphweid/karadex/model"
	"github.com/jsphweid/karadex/txt"
)

var (
	exportTrack   string
	exportOut     string
	exportPreview bool
)

func init() {
	exportCmd.Flags().StringVar(&exportTrack, "track", model.LeadVocals, "vocal track to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file, defaults to the chart path with a .mid extension")
	exportCmd.Flags().BoolVar(&exportPreview, "preview", false, "export only a short excerpt from the chart's preview marker")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [chart]",
	Short: "Exports a chart as a midi file",
	Long:  `Exports a chart as a midi file`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		export(args[0])
	},
}

func export(path string) {
	song, _, err := txt.ParseFile(path)
	if err != nil {
		panic("Could not parse chart because: " + err.Error())
	}

	out := exportOut
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".mid"
	}

	write := midi.WriteTrackFile
	if exportPreview {
		write = midi.WritePreviewFile
	}
	if err := write(song, exportTrack, out); err != nil {
		panic("Could not export midi because: " + err.Error())
	}
	fmt.Printf("Wrote %v\n", out)
}
