package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "karadex",
	Short: "UltraStar chart catalog",
	Long:  `Decodes UltraStar txt charts and keeps a searchable song catalog.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
