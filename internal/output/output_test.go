package output

import (
	"strings"
	"testing"
	"time"

	"fundflow/internal/project"
	"fundflow/internal/scoring"
	"fundflow/internal/storage"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "$0"},
		{950, "$950"},
		{45_000, "$45.0K"},
		{1_500_000, "$1.5M"},
		{73_000_000, "$73.0M"},
		{2_300_000_000, "$2.3B"},
	}
	for _, tt := range tests {
		if got := Money(tt.v); got != tt.want {
			t.Errorf("Money(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}

func TestProjectCard(t *testing.T) {
	p := &project.Project{
		Name:            "Drosera",
		TokenSymbol:     "dro",
		Stage:           project.StageTestnet,
		Sector:          "Security",
		Website:         "https://drosera.io",
		SocialHandle:    "DroseraNetwork",
		RepoURL:         "https://github.com/drosera-network/core",
		Verified:        true,
		VerifySource:    "CryptoRank Institutional Hub",
		GradeScore:      71.2,
		GradeLetter:     "A",
		DataConfidence:  100,
		TVL:             250_000,
		TVLKnown:        true,
		SocialFollowers: 18_400,
		RepoStars:       210,
		Breakdown: map[string]project.CategoryScore{
			scoring.CategoryFunding: {Score: 80, Weight: 0.40},
			scoring.CategorySocial:  {Score: 60, Weight: 0.40},
			scoring.CategoryRisk:    {Score: 100, Weight: 0.20},
		},
		RiskFactors: []string{scoring.RiskSequencer},
		FundingRounds: []project.FundingRound{{
			Kind:        project.RoundSeed,
			AmountUSD:   1_500_000,
			AnnouncedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			Investors:   []project.Investor{{Name: "Paradigm", Tier: 1}},
		}},
	}
	p.Provenance.AddSource("CryptoRank")
	p.Provenance.SetSignal("hiring_signal", "Active Development (High)")

	card := Project(p)

	for _, want := range []string{
		"Drosera ($DRO)",
		"Grade:       A (71.2/100, confidence 100%)",
		"Verified:    yes (CryptoRank Institutional Hub)",
		"https://drosera.io",
		"https://twitter.com/DroseraNetwork",
		"TVL       $250.0K",
		"210 stars",
		"18.4K followers",
		"Funding Quality",
		"Sequencer Centralization",
		"2025-06-01",
		"$1.5M",
		"Paradigm",
		"Active Development (High)",
		"Sources: CryptoRank",
	} {
		if !strings.Contains(card, want) {
			t.Errorf("card missing %q\n%s", want, card)
		}
	}
}

func TestProjectCardOmitsEmptySections(t *testing.T) {
	card := Project(&project.Project{Name: "Ghost"})
	for _, banned := range []string{"Links:", "Metrics:", "Signals:", "Funding:", "Risk factors:"} {
		if strings.Contains(card, banned) {
			t.Errorf("empty record card must not contain %q\n%s", banned, card)
		}
	}
	if !strings.Contains(card, "Verified:    no") {
		t.Errorf("card missing verification line\n%s", card)
	}
}

func TestFundingList(t *testing.T) {
	entries := []storage.FundingEntry{
		{
			ProjectName: "Drosera",
			Kind:        project.RoundSeed,
			AmountUSD:   1_500_000,
			AnnouncedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			GradeLetter: "A",
			LeadName:    "Paradigm",
		},
		{
			ProjectName: "Shadow",
			Kind:        project.RoundOther,
			AmountUSD:   500_000,
			AnnouncedAt: time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	out := FundingList(entries, 30)
	for _, want := range []string{"last 30 days", "Drosera", "$1.5M", "[A]", "lead: Paradigm", "[N/A]"} {
		if !strings.Contains(out, want) {
			t.Errorf("listing missing %q\n%s", want, out)
		}
	}

	empty := FundingList(nil, 7)
	if !strings.Contains(empty, "No funding rounds in the last 7 days") {
		t.Errorf("empty listing = %q", empty)
	}
}

func TestStatsSectorOrdering(t *testing.T) {
	out := Stats(&storage.FundingStats{
		Rounds: 3, Projects: 2, TotalUSD: 10_000_000, AvgUSD: 3_333_333, WindowDays: 30,
	}, map[string]float64{
		"DeFi":     2_000_000,
		"Security": 8_000_000,
	})

	sec := strings.Index(out, "Security")
	defi := strings.Index(out, "DeFi")
	if sec < 0 || defi < 0 || sec > defi {
		t.Errorf("sectors not ordered by total raised:\n%s", out)
	}
	if !strings.Contains(out, "Total raised: $10.0M") {
		t.Errorf("stats missing total:\n%s", out)
	}
}

func TestInvestorProfile(t *testing.T) {
	inv := &project.Investor{Name: "Paradigm", Tier: 1, Website: "https://paradigm.xyz"}
	out := Investor(inv, []storage.FundingEntry{{
		ProjectName: "Drosera",
		Kind:        project.RoundSeed,
		AmountUSD:   1_500_000,
		AnnouncedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}})
	for _, want := range []string{"Paradigm (tier 1)", "https://paradigm.xyz", "Drosera", "$1.5M"} {
		if !strings.Contains(out, want) {
			t.Errorf("profile missing %q\n%s", want, out)
		}
	}

	bare := Investor(inv, nil)
	if !strings.Contains(bare, "No recorded investments") {
		t.Errorf("bare profile = %q", bare)
	}
}
