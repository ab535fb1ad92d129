package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsphweid/karadex/constants"
	"github.com/jsphweid/karadex/library"
)

var (
	scanDB     string
	scanFast   bool
	scanEnrich bool
	scanMax    int
)

func init() {
	scanCmd.Flags().StringVar(&scanDB, "db", constants.GetCatalogPath(), "catalog database path")
	scanCmd.Flags().BoolVar(&scanFast, "fast", false, "header-only scan, skips note decoding")
	scanCmd.Flags().BoolVar(&scanEnrich, "enrich", false, "fill missing metadata from the curated table")
	scanCmd.Flags().IntVar(&scanMax, "max", 0, "max charts to scan, 0 for all")
	rootCmd.AddCommand(scanCmd)
}

var scanCmd = &cobra.Command{
	Use:   "scan [dir]",
	Short: "Scans a song library into the catalog",
	Long:  `Scans a song library into the catalog`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		report, err := library.Scan(library.ScanOptions{
			Root:       args[0],
			DB:         scanDB,
			HeaderOnly: scanFast,
			Enrich:     scanEnrich,
			MaxNum:     scanMax,
		})
		if err != nil {
			panic("Could not scan library because: " + err.Error())
		}
		fmt.Printf("Found %v charts: indexed %v, skipped %v, repaired %v, enriched %v\n",
			report.Found, report.Indexed, report.Skipped, report.Repaired, report.Enriched)
	},
}
