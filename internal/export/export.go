// Package export writes funding activity to CSV for spreadsheet analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"fundflow/internal/apperrors"
	"fundflow/internal/logging"
	"fundflow/internal/storage"
)

// header is the fixed CSV column set
var header = []string{"Date", "Project", "Sector", "Round", "Amount USD", "Lead", "Grade", "Score"}

// Options bound one export
type Options struct {
	Days  int
	Limit int
	Gzip  bool
}

// Result summarizes a finished export
type Result struct {
	Rows int
	Path string
}

// Exporter turns stored funding rounds into CSV files
type Exporter struct {
	db     *storage.DB
	logger *logging.Logger
}

// NewExporter builds an exporter
func NewExporter(db *storage.DB, logger *logging.Logger) *Exporter {
	return &Exporter{db: db, logger: logger}
}

// WriteCSV streams the funding rounds of the last opts.Days days to w and
// returns the number of data rows written
func (e *Exporter) WriteCSV(w io.Writer, opts Options) (int, error) {
	days := opts.Days
	if days <= 0 {
		days = 30
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 1000
	}

	entries, err := storage.NewStore(e.db).RecentFunding(days, limit)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return 0, apperrors.Wrap(apperrors.PersistenceFailure, "csv write failed", err)
	}
	for _, entry := range entries {
		row := []string{
			entry.AnnouncedAt.Format("2006-01-02"),
			entry.ProjectName,
			entry.Sector,
			string(entry.Kind),
			fmt.Sprintf("%.0f", entry.AmountUSD),
			entry.LeadName,
			entry.GradeLetter,
			fmt.Sprintf("%.1f", entry.GradeScore),
		}
		if err := cw.Write(row); err != nil {
			return 0, apperrors.Wrap(apperrors.PersistenceFailure, "csv write failed", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, apperrors.Wrap(apperrors.PersistenceFailure, "csv flush failed", err)
	}
	return len(entries), nil
}

// WriteFile exports to a file, gzip-compressing when requested. The path gets
// a .gz suffix if compression is on and the caller did not provide one.
func (e *Exporter) WriteFile(path string, opts Options) (*Result, error) {
	if opts.Gzip && !strings.HasSuffix(path, ".gz") {
		path += ".gz"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.Wrap(apperrors.PersistenceFailure, "failed to create export dir", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "failed to create export file", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if opts.Gzip {
		gz = gzip.NewWriter(f)
		w = gz
	}

	rows, err := e.WriteCSV(w, opts)
	if err != nil {
		return nil, err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return nil, apperrors.Wrap(apperrors.PersistenceFailure, "failed to finish gzip stream", err)
		}
	}
	if err := f.Close(); err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "failed to close export file", err)
	}

	e.logger.Info("Export written", map[string]interface{}{
		"path": path,
		"rows": rows,
		"gzip": opts.Gzip,
	})
	return &Result{Rows: rows, Path: path}, nil
}
