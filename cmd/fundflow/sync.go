package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fundflow/internal/output"
)

var syncCmd = &cobra.Command{
	Use:   "sync <name>",
	Short: "Re-enrich a stored project from every source",
	Long: `Run the full enrichment pipeline for a project already in the store: market
data, repository metrics, on-chain usage, social audience, press coverage and
website signals, then regrade and persist in one transaction.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	ctx, stop := newContext()
	defer stop()

	p, err := a.engine.Sync(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error syncing project: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(output.Project(p))
}
