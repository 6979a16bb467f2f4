package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fundflow/internal/output"
	"fundflow/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score <name>",
	Short: "Regrade a stored project without touching external sources",
	Long: `Recompute the deterministic grade from the project's stored attributes.
The model is a pure function of the record, so this needs no network access
and always yields the same result for the same data.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	name := strings.Join(args, " ")
	p, err := a.store.GetProjectByName(a.reg.Resolve(name))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading project: %v\n", err)
		os.Exit(1)
	}
	if p == nil {
		p, err = a.store.GetProjectByName(name)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading project: %v\n", err)
			os.Exit(1)
		}
	}
	if p == nil {
		fmt.Fprintf(os.Stderr, "Project not found: %s\n", name)
		os.Exit(1)
	}

	scoring.Apply(p, scoring.Score(p))
	p.LastGraded = time.Now().UTC()
	if err := a.store.UpdateProject(p); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving grade: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(output.Project(p))
}
