// Package forensic is the last rung of the discovery cascade. When no
// tracker knows a project, it hunts down a website, scrapes it for
// structured identity data and link signals, and assembles a low-confidence
// identity the orchestrator can persist.
package forensic

import (
	"context"
	"encoding/json"
	"strings"

	"fundflow/internal/classify"
	"fundflow/internal/logging"
	"fundflow/internal/signal"
	"fundflow/internal/signal/news"
	"fundflow/internal/webpage"
)

// SourceName labels provenance entries contributed by the researcher
const SourceName = "Web Forensic Mesh"

// sectorKeywords buckets page text into a sector hint. First bucket with a
// hit wins, in this order.
var sectorOrder = []string{"infrastructure", "defi", "security", "ai"}

var sectorKeywords = map[string][]string{
	"infrastructure": {"blockchain", "layer 1", "layer 2", "consensus", "scaling"},
	"defi":           {"liquidity", "yield", "protocol", "exchange", "dex", "trading"},
	"security":       {"audit", "threat", "protection", "monitoring", "shield"},
	"ai":             {"intelligence", "model", "training", "compute", "agent"},
}

// sublinkKeywords mark high-value sub-pages worth one extra hop
var sublinkKeywords = []string{
	"docs.", "documentation", "/docs", "/whitepaper",
	"/team", "/about", "/careers", "/jobs",
}

var hiringKeywords = []string{"careers", "jobs", "hiring"}

// Identity is the assembled result of one research pass
type Identity struct {
	Name         string
	Website      string
	RepoURL      string
	SocialHandle string
	DiscordURL   string
	TelegramURL  string
	LinkedInURL  string
	Description  string
	SectorHint   string
	Hiring       bool
}

// Researcher performs bounded forensic crawls
type Researcher struct {
	client *signal.Client
	news   *news.Adapter
	logger *logging.Logger

	// Crawl bounds are explicit so tests can pin them: depth is how many
	// hops below the homepage are allowed, maxSublinks how many
	// high-value sub-pages are followed per page.
	depth       int
	maxSublinks int
}

// New builds a researcher with explicit crawl bounds
func New(client *signal.Client, newsAdapter *news.Adapter, depth, maxSublinks int, logger *logging.Logger) *Researcher {
	if depth < 0 {
		depth = 0
	}
	if maxSublinks < 0 {
		maxSublinks = 0
	}
	return &Researcher{
		client:      client,
		news:        newsAdapter,
		logger:      logger,
		depth:       depth,
		maxSublinks: maxSublinks,
	}
}

// Research assembles an identity for a query. The classified kind picks the
// initial website resolution: a domain is fetched directly, a repo slug maps
// to the code host, a handle goes through the news hunt.
func (r *Researcher) Research(ctx context.Context, query string, kind classify.Kind) Identity {
	r.logger.Info("Forensic research started", map[string]interface{}{
		"query": query,
		"kind":  kind.String(),
	})

	id := Identity{}
	cleanQuery := strings.ReplaceAll(strings.ToLower(query), " ", "")
	cleanQuery = strings.ReplaceAll(cleanQuery, "@", "")

	switch kind {
	case classify.KindDomain:
		id.Website = query
		if !strings.HasPrefix(query, "http") {
			id.Website = "https://" + query
		}
	case classify.KindRepoSlug:
		id.RepoURL = "https://github.com/" + query
	case classify.KindHandle:
		id.SocialHandle = strings.TrimPrefix(query, "@")
		id.Website = r.news.HuntWebsiteFromHandle(ctx, id.SocialHandle)
	}

	if id.Website == "" {
		id.Website = r.news.HuntWebsite(ctx, query, cleanQuery)
	}

	if id.Website != "" {
		r.scrapePage(ctx, id.Website, &id, r.depth)
	}

	if id.SocialHandle == "" && kind == classify.KindHandle {
		id.SocialHandle = cleanQuery
	}
	if id.Name == "" {
		id.Name = capitalize(strings.TrimPrefix(query, "@"))
	}
	return id
}

// scrapePage fetches one page, folds its facts into the identity and
// follows up to maxSublinks high-value links at depth-1. Existing identity
// fields are never overwritten.
func (r *Researcher) scrapePage(ctx context.Context, pageURL string, id *Identity, depth int) {
	body, err := r.client.GetHTML(ctx, pageURL)
	if err != nil {
		r.logger.Debug("Forensic fetch failed", map[string]interface{}{
			"url":   pageURL,
			"error": err.Error(),
		})
		return
	}
	page, err := webpage.Parse(body)
	if err != nil {
		return
	}

	// Meta description wins over JSON-LD; the JSON-LD name still wins over
	// the title fallback.
	if id.Description == "" && page.MetaDescription != "" {
		id.Description = page.MetaDescription
	}
	r.applyJSONLD(page, id)

	if id.Name == "" && page.Title != "" {
		id.Name = firstTitleSegment(page.Title)
	}

	var sublinks []string
	seen := map[string]bool{}
	for _, href := range page.Links {
		lower := strings.ToLower(href)
		full := href
		if !strings.HasPrefix(lower, "http") {
			full = strings.TrimRight(pageURL, "/") + "/" + strings.TrimLeft(href, "/")
		}

		if strings.Contains(lower, "github.com/") && id.RepoURL == "" {
			id.RepoURL = href
		}
		if (strings.Contains(lower, "twitter.com/") || strings.Contains(lower, "x.com/")) && id.SocialHandle == "" {
			id.SocialHandle = strings.Trim(lower[strings.Index(lower, ".com/")+len(".com/"):], "/")
		}
		if strings.Contains(lower, "t.me/") && id.TelegramURL == "" {
			id.TelegramURL = full
		}
		if (strings.Contains(lower, "discord.gg/") || strings.Contains(lower, "discord.com/invite/")) && id.DiscordURL == "" {
			id.DiscordURL = full
		}
		if strings.Contains(lower, "linkedin.com/company/") && id.LinkedInURL == "" {
			id.LinkedInURL = full
		}

		if containsAny(lower, hiringKeywords) {
			id.Hiring = true
		}
		if depth > 0 && containsAny(lower, sublinkKeywords) &&
			strings.HasPrefix(full, pageURL) && !seen[full] {
			seen[full] = true
			sublinks = append(sublinks, full)
		}
	}

	if id.SectorHint == "" {
		id.SectorHint = guessSector(page)
	}

	for i, sub := range sublinks {
		if i >= r.maxSublinks {
			break
		}
		r.scrapePage(ctx, sub, id, depth-1)
	}
}

func (r *Researcher) applyJSONLD(page *webpage.Page, id *Identity) {
	for _, raw := range page.JSONLD {
		var data struct {
			Type        string `json:"@type"`
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			continue
		}
		switch data.Type {
		case "Organization", "Corporation", "SoftwareApplication":
			if id.Name == "" {
				id.Name = data.Name
			}
			if id.Description == "" {
				id.Description = data.Description
			}
		}
	}
}

func guessSector(page *webpage.Page) string {
	for _, sector := range sectorOrder {
		if page.ContainsAny(sectorKeywords[sector]...) {
			return capitalize(sector)
		}
	}
	return ""
}

// firstTitleSegment strips taglines: "Acme | Settlement for rollups" -> "Acme"
func firstTitleSegment(title string) string {
	for _, sep := range []string{"|", "-", ":"} {
		if i := strings.Index(title, sep); i >= 0 {
			title = title[:i]
		}
	}
	return strings.TrimSpace(title)
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
