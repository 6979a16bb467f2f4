package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fundflow/internal/export"
)

var (
	exportDays  int
	exportLimit int
	exportOut   string
	exportGzip  bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recent funding rounds to CSV",
	Long: `Write the funding rounds of the last N days to a CSV file, one row per
round: date, project, sector, round kind, amount, lead investor and grade.

Examples:
  fundflow export
  fundflow export --days 90 --out q3-funding.csv
  fundflow export --gzip`,
	Run: runExportCmd,
}

func init() {
	exportCmd.Flags().IntVar(&exportDays, "days", 30, "Window in days")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 1000, "Maximum rounds to export")
	exportCmd.Flags().StringVar(&exportOut, "out", "funding.csv", "Output file path")
	exportCmd.Flags().BoolVar(&exportGzip, "gzip", false, "Gzip-compress the output")
	rootCmd.AddCommand(exportCmd)
}

func runExportCmd(cmd *cobra.Command, args []string) {
	a := mustApp()
	defer a.close()

	res, err := export.NewExporter(a.db, a.logger).WriteFile(exportOut, export.Options{
		Days:  exportDays,
		Limit: exportLimit,
		Gzip:  exportGzip,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error exporting: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %d rounds to %s\n", res.Rows, res.Path)
}
