// Package capital wraps the primary market-data tracker. It is the
// authoritative source for funding rounds, investor lists and verification,
// and it resolves a record's missing tracker id by scanning a recent listing
// for an exact name or symbol match.
package capital

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/project"
	"fundflow/internal/signal"
)

// SourceName labels provenance entries contributed by this adapter
const SourceName = "CryptoRank"

// listingLimit is how many listing entries one id-resolution scan covers
const listingLimit = 100

// Adapter queries the market-data tracker
type Adapter struct {
	client *signal.Client
	cfg    config.CapitalSourceConfig
	logger *logging.Logger
}

// New builds a capital adapter
func New(client *signal.Client, cfg config.CapitalSourceConfig, logger *logging.Logger) *Adapter {
	return &Adapter{client: client, cfg: cfg, logger: logger}
}

// Candidate is one listing entry
type Candidate struct {
	ID     string
	Name   string
	Symbol string
	Slug   string
}

// Detail is the full tracker payload for one project
type Detail struct {
	ID             string
	Name           string
	Symbol         string
	Description    string
	Sector         string
	Category       string
	Stage          project.Stage
	Website        string
	SocialHandle   string
	RepoURL        string
	DiscordURL     string
	TelegramURL    string
	TotalRaisedUSD float64
	LastUpdated    time.Time
	Investors      []string
}

type listingPayload struct {
	Data []listingEntry `json:"data"`
}

type listingEntry struct {
	ID       trackerID `json:"id"`
	Name     string    `json:"name"`
	Symbol   string    `json:"symbol"`
	Slug     string    `json:"slug"`
	Category string    `json:"category"`
}

type detailPayload struct {
	Data detailEntry `json:"data"`
}

type detailEntry struct {
	ID               trackerID      `json:"id"`
	Name             string         `json:"name"`
	Symbol           string         `json:"symbol"`
	Slug             string         `json:"slug"`
	Description      string         `json:"description"`
	ShortDescription string         `json:"shortDescription"`
	Sector           string         `json:"sector"`
	Category         string         `json:"category"`
	Stage            string         `json:"stage"`
	LastUpdated      string         `json:"lastUpdated"`
	Links            []detailLink   `json:"links"`
	Tokens           []detailTokens `json:"tokens"`
	Investors        []detailInv    `json:"investors"`
}

type detailLink struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type detailTokens struct {
	TotalRaised float64 `json:"totalRaised"`
}

type detailInv struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ListCandidates fetches a page of the tracker's project listing
func (a *Adapter) ListCandidates(ctx context.Context, limit int) signal.Result[[]Candidate] {
	if limit <= 0 {
		limit = listingLimit
	}

	var payload listingPayload
	query := url.Values{"limit": {fmt.Sprint(limit)}}
	if a.cfg.APIKey != "" {
		query.Set("api_key", a.cfg.APIKey)
	}
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/currencies", query, nil, &payload)
	if err != nil {
		a.logger.Warn("Capital listing fetch failed", map[string]interface{}{"error": err.Error()})
		return signal.Failure[[]Candidate](SourceName, err)
	}
	if len(payload.Data) == 0 {
		return signal.NoData[[]Candidate](SourceName)
	}

	out := make([]Candidate, 0, len(payload.Data))
	for _, e := range payload.Data {
		out = append(out, Candidate{ID: string(e.ID), Name: e.Name, Symbol: e.Symbol, Slug: e.Slug})
	}
	return signal.Data(SourceName, out)
}

// ResolveID scans the recent listing for a candidate whose name or token
// symbol equals the given values exactly (case-insensitive). Only exact
// equality resolves; fuzzy containment never sets an id.
func (a *Adapter) ResolveID(ctx context.Context, name, symbol string) signal.Result[string] {
	listing := a.ListCandidates(ctx, listingLimit)
	if !listing.OK() {
		return signal.Result[string]{Status: listing.Status, Source: SourceName, Err: listing.Err}
	}

	nameLower := strings.ToLower(name)
	symbolLower := strings.ToLower(symbol)
	for _, c := range listing.Value {
		if strings.ToLower(c.Name) == nameLower {
			return signal.Data(SourceName, c.ID)
		}
		if symbolLower != "" && strings.ToLower(c.Symbol) == symbolLower {
			return signal.Data(SourceName, c.ID)
		}
	}
	return signal.NoData[string](SourceName)
}

// Detail fetches the full tracker payload for an id, including funding
// totals and the investor list
func (a *Adapter) Detail(ctx context.Context, id string) signal.Result[Detail] {
	var payload detailPayload
	query := url.Values{}
	if a.cfg.APIKey != "" {
		query.Set("api_key", a.cfg.APIKey)
	}
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/currencies/"+url.PathEscape(id), query, nil, &payload)
	if err != nil {
		a.logger.Warn("Capital detail fetch failed", map[string]interface{}{
			"id":    id,
			"error": err.Error(),
		})
		return signal.Failure[Detail](SourceName, err)
	}
	if payload.Data.Name == "" {
		return signal.NoData[Detail](SourceName)
	}

	e := payload.Data
	d := Detail{
		ID:          string(e.ID),
		Name:        e.Name,
		Symbol:      e.Symbol,
		Description: e.Description,
		Sector:      e.Sector,
		Category:    e.Category,
		Stage:       project.ParseStage(e.Stage),
	}
	if d.Description == "" {
		d.Description = e.ShortDescription
	}
	if d.Sector == "" {
		d.Sector = e.Category
	}
	if len(e.Tokens) > 0 {
		d.TotalRaisedUSD = e.Tokens[0].TotalRaised
	}
	if t, err := time.Parse(time.RFC3339, e.LastUpdated); err == nil {
		d.LastUpdated = t
	}
	for _, inv := range e.Investors {
		if inv.Name != "" {
			d.Investors = append(d.Investors, inv.Name)
		}
	}
	applyLinks(&d, e.Links)
	return signal.Data(SourceName, d)
}

// applyLinks maps the tracker's typed link list onto detail fields. Social
// links are reduced to the bare handle.
func applyLinks(d *Detail, links []detailLink) {
	for _, l := range links {
		v := l.Value
		if v == "" {
			continue
		}
		switch strings.ToLower(l.Type) {
		case "web":
			d.Website = v
		case "twitter":
			d.SocialHandle = handleFromURL(v)
		case "github":
			d.RepoURL = v
		case "discord":
			d.DiscordURL = v
		case "telegram":
			d.TelegramURL = v
		}
	}
}

func handleFromURL(v string) string {
	for _, host := range []string{"twitter.com/", "x.com/"} {
		if i := strings.Index(v, host); i >= 0 {
			return strings.Trim(v[i+len(host):], "/")
		}
	}
	return strings.TrimPrefix(v, "@")
}
