// Package news wraps the general search/news source. Besides the press
// signal it serves the forensic fallback as a website hunter: article text
// often carries a project's official URL before any tracker lists it.
package news

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/signal"
)

// SourceName labels provenance entries contributed by this adapter
const SourceName = "NewsAPI"

// Press coverage buckets from 30-day article counts
const (
	SignalHighPress = "High Press Coverage"
	SignalEmerging  = "Emerging Awareness"
	SignalSingle    = "Single Mention"
	SignalSilent    = "Silent"
)

var urlRe = regexp.MustCompile(`(https?://[^\s<>"]+|www\.[^\s<>"]+)`)

// excludedDomains never count as a project's official website
var excludedDomains = []string{
	"twitter.com", "t.me", "medium.com", "news.",
	"globenewswire", "cryptorank", "coingecko",
}

// Adapter queries the news source
type Adapter struct {
	client *signal.Client
	cfg    config.NewsSourceConfig
	logger *logging.Logger
}

// New builds a news adapter
func New(client *signal.Client, cfg config.NewsSourceConfig, logger *logging.Logger) *Adapter {
	return &Adapter{client: client, cfg: cfg, logger: logger}
}

// Article is one search hit
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
}

type searchPayload struct {
	Articles []Article `json:"articles"`
}

// Search runs a raw query against the news source
func (a *Adapter) Search(ctx context.Context, query string, pageSize int) signal.Result[[]Article] {
	if pageSize <= 0 {
		pageSize = 5
	}

	params := url.Values{
		"q":        {query},
		"sortBy":   {"relevancy"},
		"language": {"en"},
		"pageSize": {fmt.Sprint(pageSize)},
		"from":     {time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")},
	}
	if a.cfg.APIKey != "" {
		params.Set("apiKey", a.cfg.APIKey)
	}

	var payload searchPayload
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/everything", params, nil, &payload)
	if err != nil {
		a.logger.Debug("News search failed", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return signal.Failure[[]Article](SourceName, err)
	}
	if len(payload.Articles) == 0 {
		return signal.NoData[[]Article](SourceName)
	}
	return signal.Data(SourceName, payload.Articles)
}

// PressSignal buckets the 30-day mention count for a project name
func (a *Adapter) PressSignal(ctx context.Context, projectName string) string {
	res := a.Search(ctx, fmt.Sprintf("%q AND (crypto OR blockchain OR funding)", projectName), 5)
	if !res.OK() {
		return SignalSilent
	}
	switch n := len(res.Value); {
	case n >= 5:
		return SignalHighPress
	case n >= 2:
		return SignalEmerging
	case n > 0:
		return SignalSingle
	default:
		return SignalSilent
	}
}

// HuntWebsite searches article text for an official-looking URL containing
// the cleaned query token
func (a *Adapter) HuntWebsite(ctx context.Context, query, cleanQuery string) string {
	queries := []string{
		fmt.Sprintf("%q crypto official", query),
		fmt.Sprintf("%q funding protocol", query),
	}
	for _, q := range queries {
		res := a.Search(ctx, q, 5)
		if !res.OK() {
			continue
		}
		for _, art := range res.Value {
			text := art.URL + " " + art.Description + " " + art.Title
			if found := firstCandidateURL(text, cleanQuery); found != "" {
				return found
			}
		}
	}
	return ""
}

// HuntWebsiteFromHandle looks for a website in articles that mention a
// social profile URL
func (a *Adapter) HuntWebsiteFromHandle(ctx context.Context, handle string) string {
	res := a.Search(ctx, "twitter.com/"+handle, 3)
	if !res.OK() {
		return ""
	}
	for _, art := range res.Value {
		text := art.Description + " " + art.Content
		for _, found := range urlRe.FindAllString(text, -1) {
			found = strings.TrimRight(found, ".,)/")
			lower := strings.ToLower(found)
			if strings.Contains(lower, "twitter.com") || strings.Contains(lower, "t.me") {
				continue
			}
			return found
		}
	}
	return ""
}

func firstCandidateURL(text, cleanQuery string) string {
	for _, found := range urlRe.FindAllString(text, -1) {
		found = strings.TrimRight(found, ".,)/")
		lower := strings.ToLower(found)
		if excluded(lower) {
			continue
		}
		if strings.Contains(lower, strings.ToLower(cleanQuery)) {
			return found
		}
	}
	return ""
}

func excluded(lowerURL string) bool {
	for _, d := range excludedDomains {
		if strings.Contains(lowerURL, d) {
			return true
		}
	}
	return false
}
