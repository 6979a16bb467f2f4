package capital

import (
	"context"
	"net/url"

	"fundflow/internal/signal"
)

// SecondarySourceName labels provenance from the secondary tracker
const SecondarySourceName = "CoinGecko"

// SecondaryCandidate is one secondary-tracker search hit
type SecondaryCandidate struct {
	ID     string
	Name   string
	Symbol string
}

// SecondaryDetail carries the secondary-tracker fields we care about,
// chiefly the repository link the primary tracker rarely has
type SecondaryDetail struct {
	ID          string
	Description string
	PlatformID  string
	RepoURL     string
}

type secondarySearchPayload struct {
	Coins []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	} `json:"coins"`
}

type secondaryDetailPayload struct {
	ID              string `json:"id"`
	AssetPlatformID string `json:"asset_platform_id"`
	Description     struct {
		EN string `json:"en"`
	} `json:"description"`
	Links struct {
		ReposURL struct {
			Github []string `json:"github"`
		} `json:"repos_url"`
	} `json:"links"`
}

// SearchSecondary queries the secondary tracker and returns the top hit
func (a *Adapter) SearchSecondary(ctx context.Context, term string) signal.Result[SecondaryCandidate] {
	var payload secondarySearchPayload
	query := url.Values{"query": {term}}
	err := a.client.GetJSON(ctx, a.cfg.SecondaryBaseURL+"/search", query, nil, &payload)
	if err != nil {
		a.logger.Warn("Secondary tracker search failed", map[string]interface{}{
			"term":  term,
			"error": err.Error(),
		})
		return signal.Failure[SecondaryCandidate](SecondarySourceName, err)
	}
	if len(payload.Coins) == 0 {
		return signal.NoData[SecondaryCandidate](SecondarySourceName)
	}

	top := payload.Coins[0]
	return signal.Data(SecondarySourceName, SecondaryCandidate{
		ID:     top.ID,
		Name:   top.Name,
		Symbol: top.Symbol,
	})
}

// SecondaryDetail fetches full secondary-tracker detail for an id
func (a *Adapter) SecondaryDetail(ctx context.Context, id string) signal.Result[SecondaryDetail] {
	var payload secondaryDetailPayload
	query := url.Values{
		"localization":   {"false"},
		"tickers":        {"false"},
		"market_data":    {"false"},
		"community_data": {"false"},
		"developer_data": {"false"},
		"sparkline":      {"false"},
	}
	err := a.client.GetJSON(ctx, a.cfg.SecondaryBaseURL+"/coins/"+url.PathEscape(id), query, nil, &payload)
	if err != nil {
		a.logger.Warn("Secondary tracker detail failed", map[string]interface{}{
			"id":    id,
			"error": err.Error(),
		})
		return signal.Failure[SecondaryDetail](SecondarySourceName, err)
	}
	if payload.ID == "" {
		return signal.NoData[SecondaryDetail](SecondarySourceName)
	}

	d := SecondaryDetail{
		ID:          payload.ID,
		Description: payload.Description.EN,
		PlatformID:  payload.AssetPlatformID,
	}
	if repos := payload.Links.ReposURL.Github; len(repos) > 0 {
		d.RepoURL = repos[0]
	}
	return signal.Data(SecondarySourceName, d)
}
