// Package people scrapes a project's own website for signs of life: hiring
// language, documentation, a team section and blog activity.
package people

import (
	"context"

	"fundflow/internal/logging"
	"fundflow/internal/signal"
	"fundflow/internal/webpage"
)

// SourceName labels provenance entries contributed by this adapter
const SourceName = "Website"

// Quality signal buckets
const (
	SignalHigh        = "Active Development (High)"
	SignalMedium      = "Live & Building (Medium)"
	SignalLow         = "Minimal Presence (Low)"
	SignalUnreachable = "Site Unreachable"
)

// Adapter fetches and scores project sites
type Adapter struct {
	client *signal.Client
	logger *logging.Logger
}

// New builds a people adapter
func New(client *signal.Client, logger *logging.Logger) *Adapter {
	return &Adapter{client: client, logger: logger}
}

// SiteSignals are the raw per-page observations
type SiteSignals struct {
	Hiring      bool
	Docs        bool
	Team        bool
	Blog        bool
	Description string
}

// ScrapeSite fetches the homepage and extracts keyword signals
func (a *Adapter) ScrapeSite(ctx context.Context, siteURL string) signal.Result[SiteSignals] {
	if siteURL == "" {
		return signal.NoData[SiteSignals](SourceName)
	}

	body, err := a.client.GetHTML(ctx, siteURL)
	if err != nil {
		a.logger.Debug("Site fetch failed", map[string]interface{}{
			"url":   siteURL,
			"error": err.Error(),
		})
		return signal.Failure[SiteSignals](SourceName, err)
	}

	page, err := webpage.Parse(body)
	if err != nil {
		return signal.Failure[SiteSignals](SourceName, err)
	}

	s := SiteSignals{
		Hiring:      page.ContainsAny("hiring", "careers", "join us", "open positions"),
		Docs:        page.ContainsAny("documentation", "docs", "whitepaper", "developers"),
		Team:        page.ContainsAny("team", "about us", "founders"),
		Blog:        page.ContainsAny("blog", "medium", "mirror", "updates"),
		Description: page.MetaDescription,
	}
	return signal.Data(SourceName, s)
}

// QualitySignal buckets a site into a presence label. Hiring, docs and blog
// each count one point: 3 high, 1-2 medium, 0 low.
func (a *Adapter) QualitySignal(ctx context.Context, siteURL string) string {
	res := a.ScrapeSite(ctx, siteURL)
	if !res.OK() {
		return SignalUnreachable
	}

	score := 0
	if res.Value.Hiring {
		score++
	}
	if res.Value.Docs {
		score++
	}
	if res.Value.Blog {
		score++
	}
	switch {
	case score >= 3:
		return SignalHigh
	case score >= 1:
		return SignalMedium
	default:
		return SignalLow
	}
}
