// Package output renders engine results as plain text for the CLI. Rendering
// is presentation only; every function takes finished domain values and
// returns a string, no I/O and no mutation.
package output

import (
	"fmt"
	"sort"
	"strings"

	"fundflow/internal/project"
	"fundflow/internal/scoring"
	"fundflow/internal/storage"
)

// categoryLabels maps breakdown keys to display names
var categoryLabels = map[string]string{
	scoring.CategoryFunding:   "Funding Quality",
	scoring.CategorySocial:    "Social Velocity",
	scoring.CategoryUsage:     "Network Usage",
	scoring.CategoryEconomic:  "Economic Sustainability",
	scoring.CategoryEcosystem: "Ecosystem Growth",
	scoring.CategoryToken:     "Token Mechanics",
	scoring.CategoryRisk:      "Risk Profile",
}

// categoryOrder fixes the breakdown display order across both maturity models
var categoryOrder = []string{
	scoring.CategoryFunding,
	scoring.CategorySocial,
	scoring.CategoryUsage,
	scoring.CategoryEconomic,
	scoring.CategoryEcosystem,
	scoring.CategoryToken,
	scoring.CategoryRisk,
}

// Project renders the full summary card for one record
func Project(p *project.Project) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s", p.Name)
	if p.TokenSymbol != "" {
		fmt.Fprintf(&b, " ($%s)", strings.ToUpper(p.TokenSymbol))
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len(p.Name)+2) + "\n")

	if p.GradeLetter != "" {
		fmt.Fprintf(&b, "Grade:       %s (%.1f/100, confidence %.0f%%)\n",
			p.GradeLetter, p.GradeScore, p.DataConfidence)
	}
	if p.Verified {
		fmt.Fprintf(&b, "Verified:    yes (%s)\n", p.VerifySource)
	} else {
		b.WriteString("Verified:    no\n")
	}
	if p.Stage != "" {
		fmt.Fprintf(&b, "Stage:       %s\n", p.Stage)
	}
	if p.Sector != "" {
		fmt.Fprintf(&b, "Sector:      %s\n", p.Sector)
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "About:       %s\n", truncate(p.Description, 160))
	}

	writeLinks(&b, p)
	writeMetrics(&b, p)
	writeSignals(&b, p)
	writeBreakdown(&b, p)

	if len(p.RiskFactors) > 0 {
		b.WriteString("\nRisk factors:\n")
		for _, r := range p.RiskFactors {
			fmt.Fprintf(&b, "  ! %s\n", r)
		}
	}

	if len(p.FundingRounds) > 0 {
		b.WriteString("\nFunding:\n")
		for _, r := range p.FundingRounds {
			b.WriteString("  " + roundLine(r) + "\n")
		}
	}

	if len(p.Provenance.Sources) > 0 {
		fmt.Fprintf(&b, "\nSources: %s\n", strings.Join(p.Provenance.Sources, ", "))
	}
	return b.String()
}

func writeLinks(b *strings.Builder, p *project.Project) {
	links := []struct{ label, value string }{
		{"Website", p.Website},
		{"Twitter", handleURL(p.SocialHandle)},
		{"Code", p.RepoURL},
		{"Discord", p.DiscordURL},
		{"Telegram", p.TelegramURL},
	}
	wrote := false
	for _, l := range links {
		if l.value == "" {
			continue
		}
		if !wrote {
			b.WriteString("\nLinks:\n")
			wrote = true
		}
		fmt.Fprintf(b, "  %-9s %s\n", l.label, l.value)
	}
}

func writeMetrics(b *strings.Builder, p *project.Project) {
	var lines []string
	if p.TVLKnown {
		line := fmt.Sprintf("TVL       %s", Money(p.TVL))
		if p.TVL30dChange != 0 {
			line += fmt.Sprintf(" (%+.1f%% 30d)", p.TVL30dChange)
		}
		lines = append(lines, line)
	}
	if p.RevenueKnown {
		lines = append(lines, fmt.Sprintf("Revenue   %s / 24h", Money(p.Revenue24h)))
	}
	if p.RepoStars > 0 || p.RepoForks > 0 {
		lines = append(lines, fmt.Sprintf("Repo      %d stars, %d forks", p.RepoStars, p.RepoForks))
	}
	if p.SocialFollowers > 0 {
		lines = append(lines, fmt.Sprintf("Audience  %s followers", count(p.SocialFollowers)))
	}
	if len(lines) == 0 {
		return
	}
	b.WriteString("\nMetrics:\n")
	for _, l := range lines {
		b.WriteString("  " + l + "\n")
	}
}

func writeSignals(b *strings.Builder, p *project.Project) {
	if len(p.Provenance.Signals) == 0 {
		return
	}
	keys := make([]string, 0, len(p.Provenance.Signals))
	for k := range p.Provenance.Signals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	b.WriteString("\nSignals:\n")
	for _, k := range keys {
		label := strings.ReplaceAll(strings.TrimSuffix(k, "_signal"), "_", " ")
		fmt.Fprintf(b, "  %-9s %s\n", label, p.Provenance.Signals[k])
	}
}

func writeBreakdown(b *strings.Builder, p *project.Project) {
	if len(p.Breakdown) == 0 {
		return
	}
	b.WriteString("\nScore breakdown:\n")
	for _, key := range categoryOrder {
		c, ok := p.Breakdown[key]
		if !ok {
			continue
		}
		fmt.Fprintf(b, "  %-24s %5.1f  x %.2f\n", categoryLabels[key], c.Score, c.Weight)
	}
}

func roundLine(r project.FundingRound) string {
	line := fmt.Sprintf("%s  %-10s %s", r.AnnouncedAt.Format("2006-01-02"), r.Kind, Money(r.AmountUSD))
	var names []string
	for _, inv := range r.Investors {
		names = append(names, inv.Name)
	}
	if len(names) > 0 {
		line += "  (" + strings.Join(names, ", ") + ")"
	}
	return line
}

// FundingList renders recent funding entries, one line each
func FundingList(entries []storage.FundingEntry, days int) string {
	if len(entries) == 0 {
		return fmt.Sprintf("No funding rounds in the last %d days.\n", days)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Funding rounds, last %d days:\n\n", days)
	for _, e := range entries {
		grade := e.GradeLetter
		if grade == "" {
			grade = scoring.GradeNA
		}
		fmt.Fprintf(&b, "  %s  %-24s %-10s %10s  [%s]",
			e.AnnouncedAt.Format("2006-01-02"), truncate(e.ProjectName, 24),
			e.Kind, Money(e.AmountUSD), grade)
		if e.LeadName != "" {
			fmt.Fprintf(&b, "  lead: %s", e.LeadName)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Investor renders an investor profile with its recent portfolio
func Investor(inv *project.Investor, portfolio []storage.FundingEntry) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s (tier %d)\n", inv.Name, inv.Tier)
	if inv.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", inv.Website)
	}

	if len(portfolio) == 0 {
		b.WriteString("\nNo recorded investments.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "\nRecent investments (%d):\n", len(portfolio))
	for _, e := range portfolio {
		fmt.Fprintf(&b, "  %s  %-24s %-10s %10s\n",
			e.AnnouncedAt.Format("2006-01-02"), truncate(e.ProjectName, 24),
			e.Kind, Money(e.AmountUSD))
	}
	return b.String()
}

// Stats renders aggregate funding activity with the sector split
func Stats(stats *storage.FundingStats, sectors map[string]float64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Funding activity, last %d days:\n\n", stats.WindowDays)
	fmt.Fprintf(&b, "  Rounds:       %d\n", stats.Rounds)
	fmt.Fprintf(&b, "  Projects:     %d\n", stats.Projects)
	fmt.Fprintf(&b, "  Total raised: %s\n", Money(stats.TotalUSD))
	if stats.Rounds > 0 {
		fmt.Fprintf(&b, "  Average:      %s\n", Money(stats.AvgUSD))
	}

	if len(sectors) > 0 {
		type row struct {
			sector string
			total  float64
		}
		rows := make([]row, 0, len(sectors))
		for s, t := range sectors {
			rows = append(rows, row{s, t})
		}
		sort.Slice(rows, func(i, j int) bool {
			if rows[i].total != rows[j].total {
				return rows[i].total > rows[j].total
			}
			return rows[i].sector < rows[j].sector
		})

		b.WriteString("\n  By sector:\n")
		for _, r := range rows {
			fmt.Fprintf(&b, "    %-16s %s\n", r.sector, Money(r.total))
		}
	}
	return b.String()
}

// Money humanizes a USD amount: $950, $45.0K, $1.5M, $2.3B
func Money(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	default:
		return fmt.Sprintf("$%.0f", v)
	}
}

func count(n int64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1e6)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1e3)
	default:
		return fmt.Sprint(n)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func handleURL(handle string) string {
	if handle == "" {
		return ""
	}
	return "https://twitter.com/" + handle
}
