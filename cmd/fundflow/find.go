package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fundflow/internal/output"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Find or create a project record",
	Long: `Run the discovery cascade for a query: local store, market trackers, link
shortcuts, web forensics. A project no source knows is an error; anything
found is enriched, graded and printed.

Examples:
  fundflow find drosera
  fundflow find @strata_fi
  fundflow find drosera.io
  fundflow find drosera-network/drosera`,
	Args: cobra.MinimumNArgs(1),
	Run:  runFind,
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	ctx, stop := newContext()
	defer stop()

	p, err := a.orchestrator.Discover(ctx, strings.Join(args, " "))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error discovering project: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(output.Project(p))
}
