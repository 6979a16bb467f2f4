// Package code wraps the code-hosting API. It turns a repository (or
// organization) URL into hard metrics and a qualitative velocity label.
package code

import (
	"context"
	"net/url"
	"strings"
	"time"

	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/signal"
)

// SourceName labels provenance entries contributed by this adapter
const SourceName = "GitHub"

// Velocity labels derived from the 30-day commit count
const (
	SignalIndustrial  = "Industrial Grade Shipping (High)"
	SignalActive      = "Actively Maintained (Medium)"
	SignalMaintenance = "Slow/Maintenance Mode (Low)"
	SignalStale       = "Stale Repository"
	SignalNoCode      = "No Public Code Found"
)

// Adapter queries the code host
type Adapter struct {
	client *signal.Client
	cfg    config.CodeSourceConfig
	logger *logging.Logger
}

// New builds a code adapter
func New(client *signal.Client, cfg config.CodeSourceConfig, logger *logging.Logger) *Adapter {
	return &Adapter{client: client, cfg: cfg, logger: logger}
}

// RepoStats are the hard signals for one repository
type RepoStats struct {
	Owner      string
	Repo       string
	Stars      int
	Forks      int
	OpenIssues int
	LastPush   time.Time
	Commits30d int
}

type repoPayload struct {
	Name       string `json:"name"`
	Stars      int    `json:"stargazers_count"`
	Forks      int    `json:"forks_count"`
	OpenIssues int    `json:"open_issues_count"`
	PushedAt   string `json:"pushed_at"`
}

// RepoStats resolves a repository URL to its metrics. An organization URL
// without a repository part resolves to the organization's most-starred
// recently pushed repository.
func (a *Adapter) RepoStats(ctx context.Context, repoURL string) signal.Result[RepoStats] {
	owner, repo, ok := splitRepoURL(repoURL)
	if !ok {
		return signal.NoData[RepoStats](SourceName)
	}

	if repo == "" {
		resolved, res := a.resolveOrgRepo(ctx, owner)
		if resolved == "" {
			return res
		}
		repo = resolved
	}

	var payload repoPayload
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/repos/"+owner+"/"+repo, nil, a.headers(), &payload)
	if err != nil {
		a.logger.Warn("Repo stats fetch failed", map[string]interface{}{
			"owner": owner,
			"repo":  repo,
			"error": err.Error(),
		})
		return signal.Failure[RepoStats](SourceName, err)
	}

	stats := RepoStats{
		Owner:      owner,
		Repo:       repo,
		Stars:      payload.Stars,
		Forks:      payload.Forks,
		OpenIssues: payload.OpenIssues,
	}
	if t, perr := time.Parse(time.RFC3339, payload.PushedAt); perr == nil {
		stats.LastPush = t
	}
	stats.Commits30d = a.commitCount(ctx, owner, repo)
	return signal.Data(SourceName, stats)
}

// Signal maps a 30-day commit count onto a velocity label
func Signal(res signal.Result[RepoStats]) string {
	if !res.OK() {
		return SignalNoCode
	}
	switch v := res.Value.Commits30d; {
	case v > 50:
		return SignalIndustrial
	case v > 10:
		return SignalActive
	case v > 0:
		return SignalMaintenance
	default:
		return SignalStale
	}
}

func (a *Adapter) headers() map[string]string {
	if a.cfg.Token == "" {
		return nil
	}
	return map[string]string{"Authorization": "token " + a.cfg.Token}
}

// resolveOrgRepo picks the most-starred of the organization's five most
// recently pushed repositories
func (a *Adapter) resolveOrgRepo(ctx context.Context, owner string) (string, signal.Result[RepoStats]) {
	var repos []repoPayload
	query := url.Values{"sort": {"pushed"}, "per_page": {"5"}}
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/orgs/"+owner+"/repos", query, a.headers(), &repos)
	if err != nil {
		a.logger.Warn("Org repo resolution failed", map[string]interface{}{
			"owner": owner,
			"error": err.Error(),
		})
		return "", signal.Failure[RepoStats](SourceName, err)
	}
	if len(repos) == 0 {
		return "", signal.NoData[RepoStats](SourceName)
	}

	best := repos[0]
	for _, r := range repos[1:] {
		if r.Stars > best.Stars {
			best = r
		}
	}
	return best.Name, signal.Result[RepoStats]{}
}

func (a *Adapter) commitCount(ctx context.Context, owner, repo string) int {
	since := time.Now().UTC().AddDate(0, 0, -30).Format(time.RFC3339)
	var commits []struct {
		SHA string `json:"sha"`
	}
	query := url.Values{"since": {since}, "per_page": {"100"}}
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/repos/"+owner+"/"+repo+"/commits", query, a.headers(), &commits)
	if err != nil {
		// Commit velocity is best-effort; repo stats stand on their own.
		a.logger.Debug("Commit count fetch failed", map[string]interface{}{
			"owner": owner,
			"repo":  repo,
			"error": err.Error(),
		})
		return 0
	}
	return len(commits)
}

// splitRepoURL extracts owner and optional repo from a code-host URL or a
// bare owner/repo slug
func splitRepoURL(repoURL string) (owner, repo string, ok bool) {
	path := repoURL
	if i := strings.Index(path, "github.com/"); i >= 0 {
		path = path[i+len("github.com/"):]
	} else if strings.Contains(path, "://") {
		return "", "", false
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return "", "", false
	}

	parts := strings.SplitN(path, "/", 3)
	owner = parts[0]
	if len(parts) > 1 {
		repo = parts[1]
	}
	return owner, repo, true
}
