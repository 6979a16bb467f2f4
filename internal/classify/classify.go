// Package classify turns a free-form user query into one of four query kinds
// plus a cleaned token. Classification is a pure function; the orchestrator
// branches on the kind and must handle every variant.
package classify

import (
	"regexp"
	"strings"
)

// Kind is the closed set of query kinds
type Kind int

const (
	// KindName is a generic project name (the default)
	KindName Kind = iota
	// KindHandle is a social-media handle
	KindHandle
	// KindDomain is a web domain
	KindDomain
	// KindRepoSlug is an owner/repo pair
	KindRepoSlug
)

// String returns the display name of the kind
func (k Kind) String() string {
	switch k {
	case KindHandle:
		return "social handle"
	case KindDomain:
		return "web domain"
	case KindRepoSlug:
		return "repository slug"
	default:
		return "project name"
	}
}

var (
	profileURLRe = regexp.MustCompile(`(?:x\.com|twitter\.com)/([a-zA-Z0-9_]{1,15})`)
	domainRe     = regexp.MustCompile(`\.[a-z]{2,10}$`)
	repoSlugRe   = regexp.MustCompile(`^[a-zA-Z0-9\-_]+/[a-zA-Z0-9\-_]+$`)
)

// handleSuffixes are suffixes that mark a bare word as a social handle
// (e.g. "strata_fi", "drosera_network")
var handleSuffixes = []string{"_app", "_fi", "_xyz", "_network"}

// Classify determines the research strategy for a query. Rules are evaluated
// in fixed priority order; the first match wins.
func Classify(query string) (Kind, string) {
	query = strings.TrimSpace(query)
	lower := strings.ToLower(query)

	// 1. Social handle: leading @ or a profile URL.
	if strings.HasPrefix(query, "@") {
		return KindHandle, strings.ReplaceAll(query, "@", "")
	}
	if m := profileURLRe.FindStringSubmatch(lower); m != nil {
		return KindHandle, m[1]
	}

	// 2. Web domain: single token ending in a TLD-like suffix.
	if domainRe.MatchString(lower) && !strings.Contains(query, " ") {
		return KindDomain, lower
	}

	// 3. Repository slug: owner/repo with no whitespace.
	if repoSlugRe.MatchString(query) && !strings.Contains(query, " ") {
		return KindRepoSlug, query
	}

	// 4. Handle-like suffixes.
	for _, suffix := range handleSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return KindHandle, query
		}
	}

	return KindName, query
}
