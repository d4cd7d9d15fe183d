// Package validate checks that promise sources can be cited: reachable,
// or replaced by an archived copy, and classified by authority.
package validate

import (
	"net/url"
	"sort"
	"strings"

	"github.com/ppiankov/politikcred/internal/model"
)

// institutionalSuffixes are public-sector hosts trusted without configuration
var institutionalSuffixes = []string{".gouv.fr", ".europa.eu", ".gov"}

// AuthorityClassifier sorts source hosts into authority tiers
type AuthorityClassifier struct {
	domainMap map[string]model.AuthorityTier
	primary   []string
	secondary []string
}

// NewAuthorityClassifier builds a classifier; a nil config uses the defaults
func NewAuthorityClassifier(config *model.AuthorityConfig) *AuthorityClassifier {
	if config == nil {
		config = &model.DefaultConfig().Authority
	}

	c := &AuthorityClassifier{
		domainMap: make(map[string]model.AuthorityTier, len(config.DomainMap)),
		primary:   normalizeDomains(config.PrimaryDomains),
		secondary: normalizeDomains(config.SecondaryDomains),
	}
	for host, tier := range config.DomainMap {
		c.domainMap[strings.ToLower(host)] = parseTierString(tier)
	}
	return c
}

// Classify returns the tier of rawURL. Unparseable URLs are tertiary.
func (a *AuthorityClassifier) Classify(rawURL string) model.AuthorityTier {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return model.TierTertiary
	}
	host := strings.ToLower(parsed.Hostname())

	if tier, ok := a.domainMap[host]; ok {
		return tier
	}
	if matchesDomain(host, a.primary) {
		return model.TierPrimary
	}
	if matchesDomain(host, a.secondary) {
		return model.TierSecondary
	}
	for _, suffix := range institutionalSuffixes {
		if strings.HasSuffix(host, suffix) {
			return model.TierPrimary
		}
	}
	return model.TierTertiary
}

// matchesDomain reports whether host is one of domains or a subdomain of one
func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// normalizeDomains lower-cases and orders domains longest first so the
// most specific entry wins
func normalizeDomains(domains []string) []string {
	out := make([]string, 0, len(domains))
	for _, d := range domains {
		d = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(d)), "www.")
		if d != "" {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

// parseTierString converts a configured tier label
func parseTierString(tier string) model.AuthorityTier {
	switch strings.ToLower(strings.TrimSpace(tier)) {
	case "primary", "1":
		return model.TierPrimary
	case "secondary", "2":
		return model.TierSecondary
	default:
		return model.TierTertiary
	}
}
