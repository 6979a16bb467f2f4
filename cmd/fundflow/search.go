package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fundflow/internal/scoring"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search stored projects",
	Long: `Search the local store by name, description, website or social handle.
Unlike 'find' this never reaches out to external sources.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSearch,
}

func init() {
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	query := strings.Join(args, " ")
	matches, err := a.store.SearchProjects(query, searchLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching projects: %v\n", err)
		os.Exit(1)
	}
	if len(matches) == 0 {
		fmt.Printf("No stored projects match %q.\n", query)
		return
	}

	for _, p := range matches {
		grade := p.GradeLetter
		if grade == "" {
			grade = scoring.GradeNA
		}
		line := fmt.Sprintf("%-24s [%s]", p.Name, grade)
		if p.Sector != "" {
			line += "  " + p.Sector
		}
		if p.Website != "" {
			line += "  " + p.Website
		}
		fmt.Println(line)
	}
}
