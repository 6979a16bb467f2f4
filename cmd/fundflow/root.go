package main

import (
	"github.com/spf13/cobra"

	"fundflow/internal/version"
)

var (
	// rootFlag overrides the working directory the data dir is resolved
	// against
	rootFlag string
)

var rootCmd = &cobra.Command{
	Use:   "fundflow",
	Short: "FundFlow - crypto project intelligence engine",
	Long: `FundFlow resolves early-stage crypto projects into single canonical records.
It classifies a query, discovers the project across market trackers and the
open web, enriches the record from funding, code, usage, social and news
sources, and grades it with a deterministic weighted model.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("FundFlow version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rootFlag, "root", "",
		"Directory holding the .fundflow data dir (default: current directory)")
}
