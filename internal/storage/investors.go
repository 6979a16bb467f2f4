package storage

import (
	"database/sql"
	"errors"

	"fundflow/internal/apperrors"
	"fundflow/internal/project"
)

// GetInvestorByName looks up an investor case-insensitively.
// Returns (nil, nil) when absent.
func (s *Store) GetInvestorByName(name string) (*project.Investor, error) {
	row := s.q.QueryRow(`
		SELECT id, name, slug, tier, type, website
		FROM investors WHERE name = ? COLLATE NOCASE
	`, name)

	var inv project.Investor
	err := row.Scan(&inv.ID, &inv.Name, &inv.Slug, &inv.Tier, &inv.Type, &inv.Website)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "investor lookup failed", err)
	}
	return &inv, nil
}

// GetOrCreateInvestor returns the existing investor with the given name or
// inserts inv and assigns its ID. The stored tier of an existing investor is
// kept; tiers are classified once.
func (s *Store) GetOrCreateInvestor(inv *project.Investor) (*project.Investor, error) {
	existing, err := s.GetInvestorByName(inv.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	res, err := s.q.Exec(`
		INSERT INTO investors (name, slug, tier, type, website)
		VALUES (?, ?, ?, ?, ?)
	`, inv.Name, inv.Slug, inv.Tier, inv.Type, inv.Website)
	if err != nil {
		if isUniqueViolation(err) {
			return s.GetInvestorByName(inv.Name)
		}
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "failed to insert investor", err)
	}

	inv.ID, err = res.LastInsertId()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "failed to read investor id", err)
	}
	return inv, nil
}

// InvestorPortfolio lists the most recent rounds an investor participated in,
// joined with their projects
func (s *Store) InvestorPortfolio(investorID int64, limit int) ([]FundingEntry, error) {
	rows, err := s.q.Query(`
		SELECT p.name, p.sector, p.grade_letter,
		       fr.kind, fr.amount_usd, fr.announced_at
		FROM funding_rounds fr
		JOIN round_investors ri ON ri.round_id = fr.id
		JOIN projects p ON p.id = fr.project_id
		WHERE ri.investor_id = ?
		ORDER BY fr.announced_at DESC
		LIMIT ?
	`, investorID, limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "portfolio query failed", err)
	}
	defer rows.Close()

	return scanFundingEntries(rows)
}
