package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fundflow/internal/output"
)

var (
	latestDays  int
	latestLimit int
)

var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "List recent funding rounds",
	Run:   runLatest,
}

func init() {
	latestCmd.Flags().IntVar(&latestDays, "days", 30, "Window in days")
	latestCmd.Flags().IntVar(&latestLimit, "limit", 50, "Maximum rounds to list")
	rootCmd.AddCommand(latestCmd)
}

func runLatest(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	entries, err := a.store.RecentFunding(latestDays, latestLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing funding: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(output.FundingList(entries, latestDays))
}
