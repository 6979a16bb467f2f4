// Package usage wraps the protocol-analytics source. Base-layer sectors
// prefer chain-level TVL with a 30-day delta; everything else goes through
// protocol matching: exact name, then symbol (larger TVL wins ties), then
// fuzzy containment (largest TVL).
package usage

import (
	"context"
	"net/url"
	"strings"

	"fundflow/internal/config"
	"fundflow/internal/logging"
	"fundflow/internal/signal"
)

// SourceName labels provenance entries contributed by this adapter
const SourceName = "DefiLlama"

// baseLayerSectors route to chain-level TVL instead of protocol matching
var baseLayerSectors = map[string]bool{
	"l1":             true,
	"l2":             true,
	"infrastructure": true,
	"layer 1":        true,
	"layer 2":        true,
}

// chainNames canonicalizes common chain spellings for the chain-TVL endpoint
var chainNames = map[string]string{
	"optimism":  "Optimism",
	"arbitrum":  "Arbitrum",
	"polygon":   "Polygon",
	"avalanche": "Avalanche",
	"base":      "Base",
}

// Adapter queries the analytics source
type Adapter struct {
	client *signal.Client
	cfg    config.UsageSourceConfig
	logger *logging.Logger

	protocols []Protocol
}

// New builds a usage adapter
func New(client *signal.Client, cfg config.UsageSourceConfig, logger *logging.Logger) *Adapter {
	return &Adapter{client: client, cfg: cfg, logger: logger}
}

// Protocol is one entry of the analytics source's protocol list
type Protocol struct {
	Name     string   `json:"name"`
	Symbol   string   `json:"symbol"`
	Slug     string   `json:"slug"`
	Category string   `json:"category"`
	Chains   []string `json:"chains"`
	TVL      float64  `json:"tvl"`
}

// Metrics is the on-chain attribute bag for one project
type Metrics struct {
	TVL          float64
	TVLKnown     bool
	TVL30dChange float64
	Revenue24h   float64
	RevenueKnown bool
	Category     string
	Slug         string

	// Exact is true when the match was by chain name or exact
	// name/symbol equality. Fuzzy containment matches never verify
	// a record.
	Exact bool
}

// ProtocolStats finds the best matching protocol or chain for a project and
// returns its metrics
func (a *Adapter) ProtocolStats(ctx context.Context, name, symbol, sector string) signal.Result[Metrics] {
	if baseLayerSectors[strings.ToLower(sector)] {
		if res := a.ChainStats(ctx, name); res.OK() {
			return res
		}
	}

	protocols, err := a.protocolList(ctx)
	if err != nil {
		a.logger.Warn("Protocol list fetch failed", map[string]interface{}{"error": err.Error()})
		return signal.Failure[Metrics](SourceName, err)
	}

	best, exact := matchProtocol(protocols, name, symbol)
	if best == nil {
		// Some chains carry no protocol entry at all.
		return a.ChainStats(ctx, name)
	}

	m := Metrics{
		TVL:      best.TVL,
		TVLKnown: true,
		Category: best.Category,
		Slug:     best.Slug,
		Exact:    exact,
	}
	if rev, ok := a.fees(ctx, best.Slug); ok {
		m.Revenue24h = rev
		m.RevenueKnown = true
	}
	return signal.Data(SourceName, m)
}

// matchProtocol applies the matching ladder over a protocol list.
// Bridge slugs are skipped unless the query name appears in the slug.
func matchProtocol(protocols []Protocol, name, symbol string) (best *Protocol, exact bool) {
	nameLower := strings.ToLower(name)
	symbolLower := strings.ToLower(symbol)

	for i := range protocols {
		p := &protocols[i]
		slug := strings.ToLower(p.Slug)
		if strings.Contains(slug, "-bridge") && !strings.Contains(slug, nameLower) {
			continue
		}
		if strings.ToLower(p.Name) == nameLower {
			return p, true
		}
		if symbolLower != "" && strings.ToLower(p.Symbol) == symbolLower {
			if best == nil || p.TVL > best.TVL {
				best = p
			}
		}
	}
	if best != nil {
		return best, true
	}

	for i := range protocols {
		p := &protocols[i]
		if strings.Contains(strings.ToLower(p.Name), nameLower) {
			if best == nil || p.TVL > best.TVL {
				best = p
			}
		}
	}
	return best, false
}

type chainTVLPoint struct {
	Date int64   `json:"date"`
	TVL  float64 `json:"tvl"`
}

// ChainStats fetches chain-level TVL and computes the 30-day delta from the
// historical series
func (a *Adapter) ChainStats(ctx context.Context, chainName string) signal.Result[Metrics] {
	name, ok := chainNames[strings.ToLower(chainName)]
	if !ok {
		name = capitalize(chainName)
	}

	var series []chainTVLPoint
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/v2/historicalChainTvl/"+url.PathEscape(name), nil, nil, &series)
	if err != nil {
		a.logger.Debug("Chain TVL fetch failed", map[string]interface{}{
			"chain": name,
			"error": err.Error(),
		})
		return signal.Failure[Metrics](SourceName, err)
	}
	if len(series) == 0 {
		return signal.NoData[Metrics](SourceName)
	}

	latest := series[len(series)-1]
	prev := series[0]
	if len(series) >= 30 {
		prev = series[len(series)-30]
	}
	var change float64
	if prev.TVL > 0 {
		change = (latest.TVL - prev.TVL) / prev.TVL * 100
	}
	return signal.Data(SourceName, Metrics{
		TVL:          latest.TVL,
		TVLKnown:     true,
		TVL30dChange: change,
		Category:     "L1/L2 Infrastructure",
		Exact:        true,
	})
}

type feesPayload struct {
	Total24h *float64 `json:"total24h"`
}

func (a *Adapter) fees(ctx context.Context, slug string) (float64, bool) {
	var payload feesPayload
	err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/summary/fees/"+url.PathEscape(slug), nil, nil, &payload)
	if err != nil || payload.Total24h == nil {
		return 0, false
	}
	return *payload.Total24h, true
}

func (a *Adapter) protocolList(ctx context.Context) ([]Protocol, error) {
	if a.protocols != nil {
		return a.protocols, nil
	}
	var protocols []Protocol
	if err := a.client.GetJSON(ctx, a.cfg.BaseURL+"/protocols", nil, nil, &protocols); err != nil {
		return nil, err
	}
	a.protocols = protocols
	return protocols, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
