package suggestion

import (
	"strings"
	"unicode/utf8"

	"github.com/Domenick1991/mysterytrips/internal/domain"
	"github.com/Domenick1991/mysterytrips/internal/textutil"
)

// ExclusionPredicate decides whether a customer's preferences rule a destination out.
type ExclusionPredicate interface {
	Excludes(d domain.Destination) bool
}

// ExclusionFactory builds the predicate for one booking.
type ExclusionFactory func(p domain.Preferences) ExclusionPredicate

// minSubstringLen keeps stray one- or two-letter tokens such as "fc" from
// excluding most of the catalog. Shorter tokens only match a whole field.
const minSubstringLen = 3

// PreferenceExclusion matches exclusion tokens against the destination's
// name, city and league, ignoring case and accents. A token matches when the
// field contains it, so "Ajax" rules out "AFC Ajax"; a short token like "AZ"
// must equal the field.
type PreferenceExclusion struct {
	tokens []string
}

func NewPreferenceExclusion(p domain.Preferences) ExclusionPredicate {
	var tokens []string
	for _, raw := range p.Excluded {
		for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' }) {
			if tok := textutil.Fold(part); tok != "" {
				tokens = append(tokens, tok)
			}
		}
	}
	return &PreferenceExclusion{tokens: tokens}
}

func (e *PreferenceExclusion) Excludes(d domain.Destination) bool {
	if len(e.tokens) == 0 {
		return false
	}
	fields := []string{textutil.Fold(d.Name), textutil.Fold(d.City), textutil.Fold(d.League)}
	for _, tok := range e.tokens {
		substring := utf8.RuneCountInString(tok) >= minSubstringLen
		for _, f := range fields {
			if f == "" {
				continue
			}
			if f == tok || (substring && strings.Contains(f, tok)) {
				return true
			}
		}
	}
	return false
}
