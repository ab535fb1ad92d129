package cmd

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jsphweid/karadex/catalog"
	"github.com/jsphweid/karadex/constants"
)

var reportDB string

func init() {
	reportCmd.Flags().StringVar(&reportDB, "db", constants.GetCatalogPath(), "catalog database path")
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports catalog totals",
	Long:  `Reports catalog totals`,
	Run: func(cmd *cobra.Command, args []string) {
		report()
	},
}

func report() {
	cat, err := catalog.Open(reportDB)
	if err != nil {
		panic("Could not open catalog because: " + err.Error())
	}
	defer cat.Close()

	stats, err := cat.GetStats()
	if err != nil {
		panic("Could not read stats because: " + err.Error())
	}

	duration := time.Duration(stats.Duration * float64(time.Second)).Round(time.Second)
	fmt.Printf("songs: %v\n", humanize.Comma(int64(stats.Songs)))
	fmt.Printf("notes: %v\n", humanize.Comma(int64(stats.Notes)))
	fmt.Printf("golden notes: %v\n", humanize.Comma(int64(stats.GoldenNotes)))
	fmt.Printf("sung time: %v\n", duration)
	fmt.Printf("charts that needed repair: %v\n", humanize.Comma(int64(stats.Broken)))

	if stats.Broken == 0 {
		return
	}
	rows, err := cat.ListSongs(catalog.Filter{BrokenOnly: true})
	if err != nil {
		panic("Could not list broken charts because: " + err.Error())
	}
	for _, row := range rows {
		fmt.Printf("  %v - %v (%v)\n", row.Artist, row.Title, row.Path)
	}
}
