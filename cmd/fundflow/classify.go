package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"fundflow/internal/classify"
	"fundflow/internal/discovery"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <query>",
	Short: "Show how a query would be interpreted",
	Long: `Classify a query into its kind (project name, social handle, web domain or
repository slug) and show the search variants discovery would try. No
external call is made.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runClassify,
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, args []string) {
	query := strings.Join(args, " ")
	kind, clean := classify.Classify(query)
	terms := discovery.ExpandTerms(query, clean, 3)

	fmt.Printf("Query:   %s\n", query)
	fmt.Printf("Kind:    %s\n", kind)
	fmt.Printf("Token:   %s\n", clean)
	if len(terms) > 0 {
		fmt.Printf("Variants: %s\n", strings.Join(terms, ", "))
	}
}
