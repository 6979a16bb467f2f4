package scoring

import (
	"math"
	"testing"

	"fundflow/internal/project"
)

func roundsWithTiers(tiers ...int) []project.FundingRound {
	r := project.FundingRound{}
	for _, t := range tiers {
		r.Investors = append(r.Investors, project.Investor{Tier: t})
	}
	return []project.FundingRound{r}
}

func TestMaturityClassification(t *testing.T) {
	tests := []struct {
		name    string
		p       project.Project
		startup bool
	}{
		{"concept stage", project.Project{Stage: project.StageConcept, TVLKnown: true, TVL: 5_000_000}, true},
		{"development stage", project.Project{Stage: project.StageDevelopment}, true},
		{"no tvl", project.Project{Stage: project.StageMainnet}, true},
		{"small tvl", project.Project{Stage: project.StageMainnet, TVLKnown: true, TVL: 500_000}, true},
		{"mature", project.Project{Stage: project.StageMainnet, TVLKnown: true, TVL: 2_000_000}, false},
	}
	for _, tt := range tests {
		if got := IsStartup(&tt.p); got != tt.startup {
			t.Errorf("%s: IsStartup = %v, want %v", tt.name, got, tt.startup)
		}
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	p := project.Project{
		Name:          "Acme",
		Website:       "https://acme.io",
		FundingRounds: roundsWithTiers(1, 2),
	}
	first := Score(&p)
	for i := 0; i < 5; i++ {
		again := Score(&p)
		if again.Score != first.Score || again.Grade != first.Grade || again.Confidence != first.Confidence {
			t.Fatalf("pass %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

func TestEmptyRecordGetsNoGrade(t *testing.T) {
	p := project.Project{Name: "Ghost"}
	r := Score(&p)
	if !r.Startup {
		t.Fatal("empty record must take the startup branch")
	}
	if r.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", r.Confidence)
	}
	if r.Grade != GradeNA {
		t.Errorf("grade = %q, want %q", r.Grade, GradeNA)
	}
}

func TestTierOneInvestorRaisesStartupScore(t *testing.T) {
	base := project.Project{Name: "Acme", Website: "https://acme.io"}
	withInvestor := base
	withInvestor.FundingRounds = roundsWithTiers(1)

	before := Score(&base)
	after := Score(&withInvestor)

	if after.Breakdown[CategoryFunding].Score <= before.Breakdown[CategoryFunding].Score {
		t.Errorf("funding sub-score did not increase: %v -> %v",
			before.Breakdown[CategoryFunding].Score, after.Breakdown[CategoryFunding].Score)
	}
	if after.Score <= before.Score {
		t.Errorf("final score did not increase: %v -> %v", before.Score, after.Score)
	}
}

func TestStartupFundingQuality(t *testing.T) {
	p := project.Project{
		Name:          "Acme",
		Website:       "https://acme.io",
		FundingRounds: roundsWithTiers(1, 1, 2, 3),
	}
	r := Score(&p)
	// 30 base + 25 + 25 + 10, tier 3 ignored.
	if got := r.Breakdown[CategoryFunding].Score; got != 90 {
		t.Errorf("funding score = %v, want 90", got)
	}

	p.FundingRounds = roundsWithTiers(1, 1, 1, 1)
	r = Score(&p)
	if got := r.Breakdown[CategoryFunding].Score; got != 100 {
		t.Errorf("funding score = %v, want capped at 100", got)
	}
}

func TestStartupSocialVelocity(t *testing.T) {
	p := project.Project{
		Name:            "Acme",
		Website:         "https://acme.io",
		SocialFollowers: 15000,
	}
	p.Provenance.SetSignal("news_signal", "High Press Coverage")
	r := Score(&p)
	// 30 base + 30 followers + 20 press.
	if got := r.Breakdown[CategorySocial].Score; got != 80 {
		t.Errorf("social score = %v, want 80", got)
	}

	p.SocialFollowers = 1_000_000
	r = Score(&p)
	if got := r.Breakdown[CategorySocial].Score; got != 100 {
		t.Errorf("social score = %v, want capped at 100", got)
	}
}

func TestStartupMissingWebsiteRisk(t *testing.T) {
	p := project.Project{Name: "Acme", FundingRounds: roundsWithTiers(1)}
	r := Score(&p)
	if got := r.Breakdown[CategoryRisk].Score; got != 80 {
		t.Errorf("risk score = %v, want 80", got)
	}
	if len(r.RiskFactors) != 1 || r.RiskFactors[0] != RiskMissingWebsite {
		t.Errorf("risk factors = %v", r.RiskFactors)
	}
}

func TestMatureScenario(t *testing.T) {
	p := project.Project{
		Name:          "Optimism",
		Website:       "https://optimism.io",
		Stage:         project.StageMainnet,
		TVL:           2_000_000,
		TVLKnown:      true,
		TVL30dChange:  10,
		Revenue24h:    50_000,
		RevenueKnown:  true,
		HasToken:      true,
		TokenSymbol:   "OP",
		FundingRounds: roundsWithTiers(1, 1),
	}

	r := Score(&p)
	if r.Startup {
		t.Fatal("record must take the mature branch")
	}

	want := map[string]float64{
		CategoryUsage:     70,
		CategoryEconomic:  50,
		CategoryEcosystem: 70,
		CategoryToken:     60,
		CategoryRisk:      100,
	}
	for cat, score := range want {
		if got := r.Breakdown[cat].Score; got != score {
			t.Errorf("%s = %v, want %v", cat, got, score)
		}
	}
	if math.Abs(r.Score-70.5) > 1e-9 {
		t.Errorf("final score = %v, want 70.5", r.Score)
	}
	if r.Confidence != 100 {
		t.Errorf("confidence = %v, want 100", r.Confidence)
	}
	if r.Grade != "A" {
		t.Errorf("grade = %q, want A", r.Grade)
	}
}

func TestMatureSequencerRisk(t *testing.T) {
	p := project.Project{
		Name:     "Rollup Inc",
		Website:  "https://rollup.io",
		Stage:    project.StageMainnet,
		Sector:   "L2",
		TVL:      5_000_000,
		TVLKnown: true,
	}
	r := Score(&p)
	if got := r.Breakdown[CategoryRisk].Score; got != 85 {
		t.Errorf("risk score = %v, want 85", got)
	}
	if len(r.RiskFactors) != 1 || r.RiskFactors[0] != RiskSequencer {
		t.Errorf("risk factors = %v", r.RiskFactors)
	}
}

func TestGradeThresholds(t *testing.T) {
	tests := []struct {
		score      float64
		confidence float64
		want       string
	}{
		{90, 100, "A+"},
		{85, 100, "A+"},
		{70, 100, "A"},
		{55, 100, "B"},
		{40, 100, "C"},
		{25, 100, "D"},
		{24, 100, "F"},
		{90, 39, GradeNA},
		{90, 40, "A+"},
	}
	for _, tt := range tests {
		if got := grade(tt.score, tt.confidence); got != tt.want {
			t.Errorf("grade(%v, %v) = %q, want %q", tt.score, tt.confidence, got, tt.want)
		}
	}
}

func TestForensicRecordStaysUngraded(t *testing.T) {
	// The shape a forensic-fallback record has: website found, nothing else.
	p := project.Project{
		Name:    "Shadow",
		Website: "https://shadow.xyz",
		Stage:   project.StageDevelopment,
	}
	r := Score(&p)
	if r.Confidence >= 40 {
		t.Fatalf("confidence = %v, want below grading floor", r.Confidence)
	}
	if r.Grade != GradeNA {
		t.Errorf("grade = %q, want %q", r.Grade, GradeNA)
	}
}
