// Package project defines the canonical entity model: one deduplicated record
// per tracked project, plus its owned funding rounds and referenced investors.
package project

import "time"

// Stage is a project's development stage
type Stage string

const (
	StageConcept     Stage = "concept"
	StageDevelopment Stage = "development"
	StageTestnet     Stage = "testnet"
	StageMainnet     Stage = "mainnet"
	StageLaunched    Stage = "launched"
	StageDeprecated  Stage = "deprecated"
)

// ParseStage maps a free-form stage string to a Stage; unknown values map to
// the empty stage.
func ParseStage(s string) Stage {
	switch Stage(s) {
	case StageConcept, StageDevelopment, StageTestnet, StageMainnet, StageLaunched, StageDeprecated:
		return Stage(s)
	default:
		return ""
	}
}

// RoundKind classifies a funding round
type RoundKind string

const (
	RoundSeed      RoundKind = "seed"
	RoundPrivate   RoundKind = "private"
	RoundSeriesA   RoundKind = "series_a"
	RoundSeriesB   RoundKind = "series_b"
	RoundSeriesC   RoundKind = "series_c"
	RoundStrategic RoundKind = "strategic"
	RoundTokenSale RoundKind = "token_sale"
	RoundIDO       RoundKind = "ido"
	RoundICO       RoundKind = "ico"
	RoundGrant     RoundKind = "grant"
	RoundOther     RoundKind = "other"
)

// ParseRoundKind maps a source's round label to a RoundKind
func ParseRoundKind(s string) RoundKind {
	switch s {
	case "seed":
		return RoundSeed
	case "private":
		return RoundPrivate
	case "series a", "series_a":
		return RoundSeriesA
	case "series b", "series_b":
		return RoundSeriesB
	case "series c", "series_c":
		return RoundSeriesC
	case "strategic":
		return RoundStrategic
	case "token sale", "token_sale":
		return RoundTokenSale
	case "ido":
		return RoundIDO
	case "ico":
		return RoundICO
	case "grant":
		return RoundGrant
	default:
		return RoundOther
	}
}

// Provenance is the append-only record of which sources contributed to a
// record. Sources is a union that only grows; Signals holds qualitative
// adapter outputs (code velocity, hiring, press) keyed by signal name; IDs
// holds source-specific identifiers keyed by source.
type Provenance struct {
	Sources []string          `json:"sources"`
	Signals map[string]string `json:"signals,omitempty"`
	IDs     map[string]string `json:"ids,omitempty"`
}

// AddSource appends a source name if not already present
func (p *Provenance) AddSource(name string) {
	for _, s := range p.Sources {
		if s == name {
			return
		}
	}
	p.Sources = append(p.Sources, name)
}

// HasSource reports whether a source has contributed
func (p *Provenance) HasSource(name string) bool {
	for _, s := range p.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// SetSignal records a qualitative adapter signal
func (p *Provenance) SetSignal(key, value string) {
	if p.Signals == nil {
		p.Signals = map[string]string{}
	}
	p.Signals[key] = value
}

// SetID records a source-specific identifier
func (p *Provenance) SetID(source, id string) {
	if p.IDs == nil {
		p.IDs = map[string]string{}
	}
	p.IDs[source] = id
}

// CategoryScore is one entry in the explainable grade breakdown
type CategoryScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Grade is the result of a scoring pass
type Grade struct {
	Score      float64                  `json:"score"`
	Letter     string                   `json:"letter"`
	Confidence float64                  `json:"confidence"`
	Breakdown  map[string]CategoryScore `json:"breakdown"`
	Risks      []string                 `json:"risks"`
	GradedAt   time.Time                `json:"gradedAt"`
}

// Project is the canonical entity. Name (case-insensitive) and Slug are
// globally unique; the store enforces both.
type Project struct {
	ID   int64
	Name string
	Slug string

	Description string
	Website     string

	Sector   string
	Category string
	Stage    Stage

	SocialHandle    string
	SocialFollowers int64
	RepoURL         string
	DiscordURL      string
	TelegramURL     string

	HasToken    bool
	TokenSymbol string
	SecondaryID string // secondary tracker identifier (e.g. coingecko id)

	RepoStars        int64
	RepoForks        int64
	RepoContributors int64

	TVL          float64
	TVLKnown     bool
	TVL30dChange float64
	DAU          int64
	Revenue24h   float64
	RevenueKnown bool

	GradeScore     float64
	GradeLetter    string
	DataConfidence float64
	Verified       bool
	VerifySource   string
	Breakdown      map[string]CategoryScore
	RiskFactors    []string
	LastGraded     time.Time

	FirstSeen   time.Time
	LastUpdated time.Time
	Provenance  Provenance

	// Loaded relations; populated by store reads that request them.
	FundingRounds []FundingRound
}

// FundingRound is owned by exactly one project and deleted with it
type FundingRound struct {
	ID        int64
	ProjectID int64

	Kind           RoundKind
	AmountUSD      float64
	Valuation      float64
	ValuationBasis string // "pre" or "post"

	AnnouncedAt time.Time

	LeadInvestorID int64
	Investors      []Investor

	SourceURL string
	Source    string
}

// Investor is referenced, never owned, by funding rounds. Tier is classified
// once from static reputation lists: 1 top-tier, 2 second-tier, 3 default.
type Investor struct {
	ID   int64
	Name string
	Slug string
	Tier int

	Type    string
	Website string
}
