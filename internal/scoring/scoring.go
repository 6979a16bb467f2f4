// Package scoring implements the weighted deterministic grading model. It is
// a pure function of a project's current attributes: same record in, same
// score out, no clock, no randomness, no I/O.
//
// Maturity picks the weighting table. A project is a startup when its stage
// is pre-testnet or its TVL is unknown or under one million USD; startups are
// graded on funding quality, social velocity and risk. Mature projects are
// graded on network usage, economics, ecosystem, token mechanics and risk.
package scoring

import (
	"sort"

	"fundflow/internal/project"
)

// Category names used in the breakdown
const (
	CategoryFunding   = "funding_quality"
	CategorySocial    = "social_velocity"
	CategoryUsage     = "network_usage"
	CategoryEconomic  = "economic_sustainability"
	CategoryEcosystem = "ecosystem_growth"
	CategoryToken     = "token_mechanics"
	CategoryRisk      = "risk_profile"
)

// Named risk factors
const (
	RiskMissingWebsite = "Missing Website"
	RiskSequencer      = "Sequencer Centralization"
)

// GradeNA is returned when confidence is below the grading floor
const GradeNA = "N/A"

// confidenceFloor is the minimum confidence for a letter grade
const confidenceFloor = 40

// startupTVLCeiling splits startup from mature records
const startupTVLCeiling = 1_000_000

// Result is one grading pass
type Result struct {
	Score       float64
	Grade       string
	Confidence  float64
	Breakdown   map[string]project.CategoryScore
	RiskFactors []string
	Startup     bool
}

// Score grades a project record
func Score(p *project.Project) Result {
	if IsStartup(p) {
		return scoreStartup(p)
	}
	return scoreMature(p)
}

// IsStartup classifies maturity: pre-testnet stage, or TVL unknown or under
// one million USD
func IsStartup(p *project.Project) bool {
	if p.Stage == project.StageConcept || p.Stage == project.StageDevelopment {
		return true
	}
	return !p.TVLKnown || p.TVL < startupTVLCeiling
}

func scoreStartup(p *project.Project) Result {
	breakdown := map[string]project.CategoryScore{
		CategoryFunding: {Score: 30, Weight: 0.40},
		CategorySocial:  {Score: 30, Weight: 0.40},
		CategoryRisk:    {Score: 100, Weight: 0.20},
	}

	funding := 30.0
	t1, t2 := investorTiers(p)
	funding += float64(t1)*25 + float64(t2)*10
	breakdown[CategoryFunding] = project.CategoryScore{Score: capped(funding), Weight: 0.40}

	social := 30.0
	if p.SocialFollowers > 0 {
		social += min(70, float64(p.SocialFollowers)/5000*10)
	}
	switch p.Provenance.Signals["news_signal"] {
	case "High Press Coverage":
		social += 20
	case "Emerging Awareness":
		social += 10
	}
	breakdown[CategorySocial] = project.CategoryScore{Score: capped(social), Weight: 0.40}

	risk := 100.0
	var risks []string
	if p.Website == "" {
		risk -= 20
		risks = append(risks, RiskMissingWebsite)
	}
	breakdown[CategoryRisk] = project.CategoryScore{Score: risk, Weight: 0.20}

	populated := 0
	if len(p.FundingRounds) > 0 {
		populated++
	}
	if p.SocialFollowers > 0 || p.Provenance.Signals["news_signal"] != "" {
		populated++
	}
	if p.Website != "" {
		populated++
	}

	return finish(breakdown, risks, populated, 3, true)
}

func scoreMature(p *project.Project) Result {
	breakdown := map[string]project.CategoryScore{
		CategoryUsage:     {Score: 0, Weight: 0.25},
		CategoryEconomic:  {Score: 20, Weight: 0.20},
		CategoryEcosystem: {Score: 40, Weight: 0.20},
		CategoryToken:     {Score: 15, Weight: 0.15},
		CategoryRisk:      {Score: 100, Weight: 0.20},
	}
	populated := 0

	if p.TVLKnown && p.TVL > 0 {
		usage := 50.0
		if p.TVL30dChange > 0 {
			usage += min(40, p.TVL30dChange*2)
		}
		breakdown[CategoryUsage] = project.CategoryScore{Score: usage, Weight: 0.25}
		populated++
	}

	if p.RevenueKnown && p.Revenue24h > 0 {
		rev := min(100, p.Revenue24h/100000*100)
		breakdown[CategoryEconomic] = project.CategoryScore{Score: rev, Weight: 0.20}
		populated++
	}

	eco := 40.0
	t1, t2 := investorTiers(p)
	eco += float64(t1)*15 + float64(t2)*5
	breakdown[CategoryEcosystem] = project.CategoryScore{Score: capped(eco), Weight: 0.20}
	populated++

	if p.HasToken {
		token := 30.0
		if p.TokenSymbol != "" {
			token = 60
		}
		breakdown[CategoryToken] = project.CategoryScore{Score: token, Weight: 0.15}
		populated++
	}

	risk := 100.0
	var risks []string
	if p.Sector == "L2" || p.Sector == "Rollup" {
		risk -= 15
		risks = append(risks, RiskSequencer)
	}
	if p.Website == "" {
		risk -= 20
		risks = append(risks, RiskMissingWebsite)
	}
	breakdown[CategoryRisk] = project.CategoryScore{Score: risk, Weight: 0.20}
	populated++

	return finish(breakdown, risks, populated, 5, false)
}

func finish(breakdown map[string]project.CategoryScore, risks []string, populated, denominator int, startup bool) Result {
	// Summation order is fixed so repeated passes agree to the last bit.
	keys := make([]string, 0, len(breakdown))
	for k := range breakdown {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var score float64
	for _, k := range keys {
		score += breakdown[k].Score * breakdown[k].Weight
	}
	confidence := float64(populated) / float64(denominator) * 100

	return Result{
		Score:       score,
		Grade:       grade(score, confidence),
		Confidence:  confidence,
		Breakdown:   breakdown,
		RiskFactors: risks,
		Startup:     startup,
	}
}

func grade(score, confidence float64) string {
	if confidence < confidenceFloor {
		return GradeNA
	}
	switch {
	case score >= 85:
		return "A+"
	case score >= 70:
		return "A"
	case score >= 55:
		return "B"
	case score >= 40:
		return "C"
	case score >= 25:
		return "D"
	default:
		return "F"
	}
}

// investorTiers counts tier-1 and tier-2 investors across all funding rounds
func investorTiers(p *project.Project) (t1, t2 int) {
	for _, r := range p.FundingRounds {
		for _, inv := range r.Investors {
			switch inv.Tier {
			case 1:
				t1++
			case 2:
				t2++
			}
		}
	}
	return t1, t2
}

func capped(v float64) float64 {
	return min(100, v)
}

// Apply writes a grading pass back onto the record
func Apply(p *project.Project, r Result) {
	p.GradeScore = r.Score
	p.GradeLetter = r.Grade
	p.DataConfidence = r.Confidence
	p.Breakdown = r.Breakdown
	p.RiskFactors = r.RiskFactors
}
