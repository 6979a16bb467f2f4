package storage

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"fundflow/internal/apperrors"
	"fundflow/internal/project"
)

// FundingEntry is a funding round joined with its project, as used by
// listings, portfolios and the CSV export
type FundingEntry struct {
	ProjectName string
	Sector      string
	GradeLetter string
	Kind        project.RoundKind
	AmountUSD   float64
	AnnouncedAt time.Time
	LeadName    string
	GradeScore  float64
}

// RecentFunding lists rounds announced within the last `days` days, newest
// first
func (s *Store) RecentFunding(days, limit int) ([]FundingEntry, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.q.Query(`
		SELECT p.name, p.sector, p.grade_letter,
		       fr.kind, fr.amount_usd, fr.announced_at,
		       COALESCE(i.name, ''), p.grade_score
		FROM funding_rounds fr
		JOIN projects p ON p.id = fr.project_id
		LEFT JOIN investors i ON i.id = fr.lead_investor_id
		WHERE fr.announced_at >= ?
		ORDER BY fr.announced_at DESC
		LIMIT ?
	`, formatTime(cutoff), limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "recent funding query failed", err)
	}
	defer rows.Close()

	var out []FundingEntry
	for rows.Next() {
		var (
			e         FundingEntry
			kind      string
			announced string
		)
		if err := rows.Scan(&e.ProjectName, &e.Sector, &e.GradeLetter,
			&kind, &e.AmountUSD, &announced, &e.LeadName, &e.GradeScore); err != nil {
			return nil, apperrors.Wrap(apperrors.PersistenceFailure, "funding entry scan failed", err)
		}
		e.Kind = project.RoundKind(kind)
		e.AnnouncedAt = parseTime(announced)
		out = append(out, e)
	}
	return out, rows.Err()
}

func scanFundingEntries(rows *sql.Rows) ([]FundingEntry, error) {
	var out []FundingEntry
	for rows.Next() {
		var (
			e         FundingEntry
			kind      string
			announced string
		)
		if err := rows.Scan(&e.ProjectName, &e.Sector, &e.GradeLetter,
			&kind, &e.AmountUSD, &announced); err != nil {
			return nil, apperrors.Wrap(apperrors.PersistenceFailure, "funding entry scan failed", err)
		}
		e.Kind = project.RoundKind(kind)
		e.AnnouncedAt = parseTime(announced)
		out = append(out, e)
	}
	return out, rows.Err()
}

// FundingStats summarizes funding activity over a window
type FundingStats struct {
	Rounds     int
	TotalUSD   float64
	AvgUSD     float64
	Projects   int
	WindowDays int
}

// Stats computes aggregate funding activity for the last `days` days
func (s *Store) Stats(days int) (*FundingStats, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	stats := &FundingStats{WindowDays: days}
	row := s.q.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(amount_usd), 0), COUNT(DISTINCT project_id)
		FROM funding_rounds WHERE announced_at >= ?
	`, formatTime(cutoff))
	if err := row.Scan(&stats.Rounds, &stats.TotalUSD, &stats.Projects); err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "stats query failed", err)
	}
	if stats.Rounds > 0 {
		stats.AvgUSD = stats.TotalUSD / float64(stats.Rounds)
	}
	return stats, nil
}

// SectorBreakdown returns total raised per sector over a window, largest
// first
func (s *Store) SectorBreakdown(days int) (map[string]float64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.q.Query(`
		SELECT COALESCE(NULLIF(p.sector, ''), 'unknown'), SUM(fr.amount_usd)
		FROM funding_rounds fr
		JOIN projects p ON p.id = fr.project_id
		WHERE fr.announced_at >= ?
		GROUP BY 1
	`, formatTime(cutoff))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "sector breakdown query failed", err)
	}
	defer rows.Close()

	out := map[string]float64{}
	for rows.Next() {
		var sector string
		var total float64
		if err := rows.Scan(&sector, &total); err != nil {
			return nil, apperrors.Wrap(apperrors.PersistenceFailure, "sector scan failed", err)
		}
		out[sector] = total
	}
	return out, rows.Err()
}

// SyncRun records one enrichment pipeline execution
type SyncRun struct {
	ID        string
	ProjectID int64
	StartedAt time.Time
	Status    string
	Adapters  map[string]string // adapter name -> data / no-data / failure
}

// BeginSyncRun inserts a running sync record and returns its run id
func (s *Store) BeginSyncRun(projectID int64) (*SyncRun, error) {
	run := &SyncRun{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		StartedAt: time.Now().UTC(),
		Status:    "running",
		Adapters:  map[string]string{},
	}
	_, err := s.q.Exec(`
		INSERT INTO sync_runs (id, project_id, started_at, status)
		VALUES (?, ?, ?, 'running')
	`, run.ID, run.ProjectID, formatTime(run.StartedAt))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "failed to record sync run", err)
	}
	return run, nil
}

// FinishSyncRun marks a sync run completed with its adapter coverage
func (s *Store) FinishSyncRun(run *SyncRun, status string) error {
	adapters, err := json.Marshal(run.Adapters)
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to encode adapter coverage", err)
	}
	_, err = s.q.Exec(`
		UPDATE sync_runs SET completed_at = ?, status = ?, adapters_json = ?
		WHERE id = ?
	`, formatTime(time.Now().UTC()), status, string(adapters), run.ID)
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to finish sync run", err)
	}
	return nil
}
