package storage

import (
	"time"

	"fundflow/internal/apperrors"
	"fundflow/internal/project"
)

// AddFundingRound inserts a round for a project. Rounds are identified by the
// (project, announce date, amount) triple; inserting a duplicate is a no-op
// and returns the existing round's id.
func (s *Store) AddFundingRound(fr *project.FundingRound) error {
	existingID, err := s.findRoundID(fr.ProjectID, fr.AnnouncedAt, fr.AmountUSD)
	if err != nil {
		return err
	}
	if existingID != 0 {
		fr.ID = existingID
		return nil
	}

	res, err := s.q.Exec(`
		INSERT INTO funding_rounds (
			project_id, kind, amount_usd, valuation, valuation_basis,
			announced_at, lead_investor_id, source_url, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		fr.ProjectID, string(fr.Kind), fr.AmountUSD, fr.Valuation, fr.ValuationBasis,
		formatTime(fr.AnnouncedAt), fr.LeadInvestorID, fr.SourceURL, fr.Source,
	)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a race on the dedup triple; treat as the no-op case.
			fr.ID, err = s.findRoundID(fr.ProjectID, fr.AnnouncedAt, fr.AmountUSD)
			return err
		}
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to insert funding round", err)
	}

	fr.ID, err = res.LastInsertId()
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to read round id", err)
	}
	return nil
}

// HasFundingRound reports whether the dedup triple already exists
func (s *Store) HasFundingRound(projectID int64, announcedAt time.Time, amountUSD float64) (bool, error) {
	id, err := s.findRoundID(projectID, announcedAt, amountUSD)
	return id != 0, err
}

func (s *Store) findRoundID(projectID int64, announcedAt time.Time, amountUSD float64) (int64, error) {
	var id int64
	rows, err := s.q.Query(`
		SELECT id FROM funding_rounds
		WHERE project_id = ? AND announced_at = ? AND amount_usd = ?
		LIMIT 1
	`, projectID, formatTime(announcedAt), amountUSD)
	if err != nil {
		return 0, apperrors.Wrap(apperrors.PersistenceFailure, "funding round lookup failed", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, apperrors.Wrap(apperrors.PersistenceFailure, "funding round scan failed", err)
		}
	}
	return id, rows.Err()
}

// LinkRoundInvestor attaches an investor to a round; duplicate links are
// ignored
func (s *Store) LinkRoundInvestor(roundID, investorID int64) error {
	_, err := s.q.Exec(`
		INSERT OR IGNORE INTO round_investors (round_id, investor_id) VALUES (?, ?)
	`, roundID, investorID)
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to link investor", err)
	}
	return nil
}

// ListFundingRounds returns a project's rounds, newest first, with their
// investor sets loaded
func (s *Store) ListFundingRounds(projectID int64) ([]project.FundingRound, error) {
	rows, err := s.q.Query(`
		SELECT id, project_id, kind, amount_usd, valuation, valuation_basis,
		       announced_at, lead_investor_id, source_url, source
		FROM funding_rounds
		WHERE project_id = ?
		ORDER BY announced_at DESC
	`, projectID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "funding round listing failed", err)
	}
	defer rows.Close()

	var rounds []project.FundingRound
	for rows.Next() {
		var (
			fr        project.FundingRound
			kind      string
			announced string
		)
		if err := rows.Scan(&fr.ID, &fr.ProjectID, &kind, &fr.AmountUSD, &fr.Valuation,
			&fr.ValuationBasis, &announced, &fr.LeadInvestorID, &fr.SourceURL, &fr.Source); err != nil {
			return nil, apperrors.Wrap(apperrors.PersistenceFailure, "funding round scan failed", err)
		}
		fr.Kind = project.RoundKind(kind)
		fr.AnnouncedAt = parseTime(announced)
		rounds = append(rounds, fr)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "funding round listing failed", err)
	}

	for i := range rounds {
		investors, err := s.roundInvestors(rounds[i].ID)
		if err != nil {
			return nil, err
		}
		rounds[i].Investors = investors
	}
	return rounds, nil
}

func (s *Store) roundInvestors(roundID int64) ([]project.Investor, error) {
	rows, err := s.q.Query(`
		SELECT i.id, i.name, i.slug, i.tier, i.type, i.website
		FROM investors i
		JOIN round_investors ri ON ri.investor_id = i.id
		WHERE ri.round_id = ?
		ORDER BY i.tier, i.name
	`, roundID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "round investor listing failed", err)
	}
	defer rows.Close()

	var out []project.Investor
	for rows.Next() {
		var inv project.Investor
		if err := rows.Scan(&inv.ID, &inv.Name, &inv.Slug, &inv.Tier, &inv.Type, &inv.Website); err != nil {
			return nil, apperrors.Wrap(apperrors.PersistenceFailure, "investor scan failed", err)
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
