// Package registry is the entity-resolution layer: a static, case-insensitive
// alias table mapping alternate spellings to one canonical name, plus investor
// tier classification and canonical external keys. The registry is built once
// at startup and injected; it is never mutated afterwards.
package registry

import (
	_ "embed"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"fundflow/internal/project"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Aliases             map[string]string `yaml:"aliases"`
	TopTierInvestors    []string          `yaml:"topTierInvestors"`
	SecondTierInvestors []string          `yaml:"secondTierInvestors"`
}

// Registry resolves aliases and classifies investors
type Registry struct {
	aliases    map[string]string
	topTier    map[string]struct{}
	secondTier map[string]struct{}
}

// New builds a registry from the embedded seed data
func New() *Registry {
	r, err := fromYAML(seedYAML)
	if err != nil {
		// The embedded seed is validated by tests; a parse failure here is a
		// build defect, not a runtime condition.
		panic("registry: invalid embedded seed: " + err.Error())
	}
	return r
}

// LoadFile builds a registry from a YAML file with the seed schema,
// for deployments that maintain their own alias table
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return fromYAML(data)
}

func fromYAML(data []byte) (*Registry, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, err
	}

	r := &Registry{
		aliases:    make(map[string]string, len(seed.Aliases)),
		topTier:    make(map[string]struct{}, len(seed.TopTierInvestors)),
		secondTier: make(map[string]struct{}, len(seed.SecondTierInvestors)),
	}
	for alias, canonical := range seed.Aliases {
		r.aliases[strings.ToLower(strings.TrimSpace(alias))] = canonical
	}
	for _, name := range seed.TopTierInvestors {
		r.topTier[strings.ToLower(name)] = struct{}{}
	}
	for _, name := range seed.SecondTierInvestors {
		r.secondTier[strings.ToLower(name)] = struct{}{}
	}
	return r, nil
}

// Resolve returns the canonical name for a known alias, or the input
// unchanged (case preserved) when no alias entry exists
func (r *Registry) Resolve(name string) string {
	if canonical, ok := r.aliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return canonical
	}
	return name
}

// InvestorTier classifies an investor from the static reputation lists:
// 1 top-tier, 2 second-tier, 3 default
func (r *Registry) InvestorTier(name string) int {
	n := strings.ToLower(strings.TrimSpace(name))
	if _, ok := r.topTier[n]; ok {
		return 1
	}
	if _, ok := r.secondTier[n]; ok {
		return 2
	}
	return 3
}

// CanonicalKey derives a stable external key for a record, used to detect
// "already ingested" projects across adapters that disagree on naming.
// Preference: market-tracker id, then secondary-tracker id, then the
// normalized name.
func (r *Registry) CanonicalKey(p *project.Project) string {
	if id, ok := p.Provenance.IDs["cryptorank"]; ok && id != "" {
		return "cr_" + id
	}
	if p.SecondaryID != "" {
		return "cg_" + p.SecondaryID
	}
	return strings.ReplaceAll(strings.ToLower(p.Name), " ", "_")
}

var (
	slugStripRe    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapseRe = regexp.MustCompile(`[\s_-]+`)
	slugTrimRe     = regexp.MustCompile(`^-+|-+$`)
)

// Slugify converts a name to its URL-friendly slug. The slug is part of the
// record's unique identity, so this must stay stable.
func Slugify(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ToLower(text)
	s = slugStripRe.ReplaceAllString(s, "")
	s = slugCollapseRe.ReplaceAllString(s, "-")
	s = slugTrimRe.ReplaceAllString(s, "")
	return s
}
