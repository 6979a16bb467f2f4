package discovery

import (
	"regexp"
	"strings"
)

var parentheticalRe = regexp.MustCompile(`\((.*?)\)`)

// ExpandTerms generates the ordered search variants for a query: the cleaned
// token, underscores as spaces, the prefix before the first underscore, and
// any parenthetical alternate name from the raw query. Duplicates are removed
// preserving first-seen order; variants shorter than minLen are dropped.
func ExpandTerms(raw, clean string, minLen int) []string {
	base := strings.TrimSpace(parentheticalRe.ReplaceAllString(clean, ""))

	var alt string
	if m := parentheticalRe.FindStringSubmatch(raw); m != nil {
		alt = strings.TrimSpace(m[1])
	}

	candidates := []string{base}
	if strings.Contains(base, "_") {
		candidates = append(candidates,
			strings.ReplaceAll(base, "_", " "),
			base[:strings.Index(base, "_")],
		)
	}
	if alt != "" {
		candidates = append(candidates, alt)
	}

	seen := map[string]bool{}
	var out []string
	for _, c := range candidates {
		if len(c) < minLen || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
