package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"fundflow/internal/output"
)

var investorLimit int

var investorCmd = &cobra.Command{
	Use:   "investor <name>",
	Short: "Show an investor's profile and recent portfolio",
	Args:  cobra.MinimumNArgs(1),
	Run:   runInvestor,
}

func init() {
	investorCmd.Flags().IntVar(&investorLimit, "limit", 20, "Maximum portfolio entries")
	rootCmd.AddCommand(investorCmd)
}

func runInvestor(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	name := strings.Join(args, " ")
	inv, err := a.store.GetInvestorByName(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading investor: %v\n", err)
		os.Exit(1)
	}
	if inv == nil {
		fmt.Fprintf(os.Stderr, "Investor not found: %s\n", name)
		os.Exit(1)
	}

	portfolio, err := a.store.InvestorPortfolio(inv.ID, investorLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading portfolio: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(output.Investor(inv, portfolio))
}
