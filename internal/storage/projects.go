package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"fundflow/internal/apperrors"
	"fundflow/internal/project"
)

const projectColumns = `
	id, name, slug, description, website, sector, category, stage,
	social_handle, social_followers, repo_url, discord_url, telegram_url,
	has_token, token_symbol, secondary_id,
	repo_stars, repo_forks, repo_contributors,
	tvl, tvl_known, tvl_30d_change, dau, revenue_24h, revenue_known,
	grade_score, grade_letter, data_confidence, verified, verify_source,
	breakdown_json, risks_json, last_graded,
	first_seen, last_updated, provenance_json`

// CreateProject inserts a new project and assigns its ID. A uniqueness
// violation on name or slug is reported as ConflictOnCreate so the caller can
// switch to the sync path on the existing record.
func (s *Store) CreateProject(p *project.Project) error {
	now := time.Now().UTC()
	if p.FirstSeen.IsZero() {
		p.FirstSeen = now
	}
	p.LastUpdated = now
	p.Provenance.AddSource(firstSourceOr(p))

	provJSON, breakdownJSON, risksJSON, err := encodeProjectJSON(p)
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to encode project", err)
	}

	res, err := s.q.Exec(`
		INSERT INTO projects (
			name, slug, description, website, sector, category, stage,
			social_handle, social_followers, repo_url, discord_url, telegram_url,
			has_token, token_symbol, secondary_id,
			repo_stars, repo_forks, repo_contributors,
			tvl, tvl_known, tvl_30d_change, dau, revenue_24h, revenue_known,
			grade_score, grade_letter, data_confidence, verified, verify_source,
			breakdown_json, risks_json, last_graded,
			first_seen, last_updated, provenance_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.Name, p.Slug, p.Description, p.Website, p.Sector, p.Category, string(p.Stage),
		p.SocialHandle, p.SocialFollowers, p.RepoURL, p.DiscordURL, p.TelegramURL,
		boolToInt(p.HasToken), p.TokenSymbol, p.SecondaryID,
		p.RepoStars, p.RepoForks, p.RepoContributors,
		p.TVL, boolToInt(p.TVLKnown), p.TVL30dChange, p.DAU, p.Revenue24h, boolToInt(p.RevenueKnown),
		p.GradeScore, p.GradeLetter, p.DataConfidence, boolToInt(p.Verified), p.VerifySource,
		breakdownJSON, risksJSON, formatTime(p.LastGraded),
		formatTime(p.FirstSeen), formatTime(p.LastUpdated), provJSON,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Wrap(apperrors.ConflictOnCreate,
				fmt.Sprintf("project %q already exists", p.Name), err)
		}
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to insert project", err)
	}

	p.ID, err = res.LastInsertId()
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to read project id", err)
	}
	return nil
}

// GetProjectByName looks up a project by exact name, case-insensitively.
// Returns (nil, nil) when no project matches.
func (s *Store) GetProjectByName(name string) (*project.Project, error) {
	return s.getProject("WHERE name = ? COLLATE NOCASE", name)
}

// GetProjectBySlug looks up a project by its slug
func (s *Store) GetProjectBySlug(slug string) (*project.Project, error) {
	return s.getProject("WHERE slug = ?", slug)
}

// GetProjectByID looks up a project by id
func (s *Store) GetProjectByID(id int64) (*project.Project, error) {
	return s.getProject("WHERE id = ?", id)
}

// FindProjectByWebsite finds the first project whose stored website contains
// the given fragment
func (s *Store) FindProjectByWebsite(fragment string) (*project.Project, error) {
	if fragment == "" {
		return nil, nil
	}
	return s.getProject("WHERE website LIKE ? LIMIT 1", "%"+fragment+"%")
}

// FindProjectByHandle finds the first project whose stored social handle
// contains the given fragment
func (s *Store) FindProjectByHandle(fragment string) (*project.Project, error) {
	if fragment == "" {
		return nil, nil
	}
	return s.getProject("WHERE social_handle LIKE ? LIMIT 1", "%"+fragment+"%")
}

// SearchProjects finds projects whose name, description, website or handle
// contains the query
func (s *Store) SearchProjects(query string, limit int) ([]*project.Project, error) {
	clean := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(
		strings.ToLower(strings.ReplaceAll(query, "@", "")), "https://"), "http://"), "/")

	rows, err := s.q.Query(`
		SELECT `+projectColumns+` FROM projects
		WHERE name LIKE ? OR description LIKE ? OR website LIKE ? OR social_handle LIKE ?
		ORDER BY name LIMIT ?
	`, "%"+query+"%", "%"+query+"%", "%"+clean+"%", "%"+clean+"%", limit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "project search failed", err)
	}
	defer rows.Close()

	var out []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpdateProject writes every mutable column back to the store
func (s *Store) UpdateProject(p *project.Project) error {
	p.LastUpdated = time.Now().UTC()

	provJSON, breakdownJSON, risksJSON, err := encodeProjectJSON(p)
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to encode project", err)
	}

	_, err = s.q.Exec(`
		UPDATE projects SET
			name = ?, slug = ?, description = ?, website = ?, sector = ?, category = ?, stage = ?,
			social_handle = ?, social_followers = ?, repo_url = ?, discord_url = ?, telegram_url = ?,
			has_token = ?, token_symbol = ?, secondary_id = ?,
			repo_stars = ?, repo_forks = ?, repo_contributors = ?,
			tvl = ?, tvl_known = ?, tvl_30d_change = ?, dau = ?, revenue_24h = ?, revenue_known = ?,
			grade_score = ?, grade_letter = ?, data_confidence = ?, verified = ?, verify_source = ?,
			breakdown_json = ?, risks_json = ?, last_graded = ?,
			last_updated = ?, provenance_json = ?
		WHERE id = ?
	`,
		p.Name, p.Slug, p.Description, p.Website, p.Sector, p.Category, string(p.Stage),
		p.SocialHandle, p.SocialFollowers, p.RepoURL, p.DiscordURL, p.TelegramURL,
		boolToInt(p.HasToken), p.TokenSymbol, p.SecondaryID,
		p.RepoStars, p.RepoForks, p.RepoContributors,
		p.TVL, boolToInt(p.TVLKnown), p.TVL30dChange, p.DAU, p.Revenue24h, boolToInt(p.RevenueKnown),
		p.GradeScore, p.GradeLetter, p.DataConfidence, boolToInt(p.Verified), p.VerifySource,
		breakdownJSON, risksJSON, formatTime(p.LastGraded),
		formatTime(p.LastUpdated), provJSON,
		p.ID,
	)
	if err != nil {
		return apperrors.Wrap(apperrors.PersistenceFailure, "failed to update project", err)
	}
	return nil
}

func (s *Store) getProject(where string, args ...interface{}) (*project.Project, error) {
	row := s.q.QueryRow("SELECT "+projectColumns+" FROM projects "+where, args...)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.PersistenceFailure, "project lookup failed", err)
	}

	rounds, err := s.ListFundingRounds(p.ID)
	if err != nil {
		return nil, err
	}
	p.FundingRounds = rounds
	return p, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanProject(row scannable) (*project.Project, error) {
	var (
		p                                      project.Project
		stage                                  string
		hasToken, tvlKnown, revKnown, verified int
		breakdownJSON, risksJSON, provJSON     string
		lastGraded, firstSeen, lastUpdated     string
	)

	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Website, &p.Sector, &p.Category, &stage,
		&p.SocialHandle, &p.SocialFollowers, &p.RepoURL, &p.DiscordURL, &p.TelegramURL,
		&hasToken, &p.TokenSymbol, &p.SecondaryID,
		&p.RepoStars, &p.RepoForks, &p.RepoContributors,
		&p.TVL, &tvlKnown, &p.TVL30dChange, &p.DAU, &p.Revenue24h, &revKnown,
		&p.GradeScore, &p.GradeLetter, &p.DataConfidence, &verified, &p.VerifySource,
		&breakdownJSON, &risksJSON, &lastGraded,
		&firstSeen, &lastUpdated, &provJSON,
	)
	if err != nil {
		return nil, err
	}

	p.Stage = project.Stage(stage)
	p.HasToken = hasToken != 0
	p.TVLKnown = tvlKnown != 0
	p.RevenueKnown = revKnown != 0
	p.Verified = verified != 0
	p.LastGraded = parseTime(lastGraded)
	p.FirstSeen = parseTime(firstSeen)
	p.LastUpdated = parseTime(lastUpdated)

	if breakdownJSON != "" {
		if err := json.Unmarshal([]byte(breakdownJSON), &p.Breakdown); err != nil {
			return nil, fmt.Errorf("corrupt breakdown for project %d: %w", p.ID, err)
		}
	}
	if risksJSON != "" {
		if err := json.Unmarshal([]byte(risksJSON), &p.RiskFactors); err != nil {
			return nil, fmt.Errorf("corrupt risk list for project %d: %w", p.ID, err)
		}
	}
	if provJSON != "" {
		if err := json.Unmarshal([]byte(provJSON), &p.Provenance); err != nil {
			return nil, fmt.Errorf("corrupt provenance for project %d: %w", p.ID, err)
		}
	}
	return &p, nil
}

func encodeProjectJSON(p *project.Project) (prov, breakdown, risks string, err error) {
	provBytes, err := json.Marshal(p.Provenance)
	if err != nil {
		return "", "", "", err
	}
	breakdownStr := ""
	if p.Breakdown != nil {
		b, err := json.Marshal(p.Breakdown)
		if err != nil {
			return "", "", "", err
		}
		breakdownStr = string(b)
	}
	risksStr := ""
	if p.RiskFactors != nil {
		r, err := json.Marshal(p.RiskFactors)
		if err != nil {
			return "", "", "", err
		}
		risksStr = string(r)
	}
	return string(provBytes), breakdownStr, risksStr, nil
}

func firstSourceOr(p *project.Project) string {
	if len(p.Provenance.Sources) > 0 {
		return p.Provenance.Sources[0]
	}
	if p.VerifySource != "" {
		return p.VerifySource
	}
	return "manual"
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "constraint failed")
}
