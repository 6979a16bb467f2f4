package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fundflow/internal/output"
)

var statsDays int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize funding activity",
	Run:   runStats,
}

func init() {
	statsCmd.Flags().IntVar(&statsDays, "days", 30, "Window in days")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	stats, err := a.store.Stats(statsDays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing stats: %v\n", err)
		os.Exit(1)
	}
	sectors, err := a.store.SectorBreakdown(statsDays)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing sector breakdown: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(output.Stats(stats, sectors))
}
