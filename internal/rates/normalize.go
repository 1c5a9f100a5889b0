package rates

import "strings"

// Normalizer canonicalizes state, county, and city names before rate table
// lookups. The county alias table is injected at construction so the rules
// are testable in isolation and swappable per supported jurisdiction.
type Normalizer struct {
	countyAliases map[string]string
	stateAliases  map[string]string
}

// DefaultCountyAliases maps New York borough names to the county values used
// by the rate dataset. Boroughs that share a county with a colloquial name
// resolve to the "<County> (<Borough>)" form the dataset carries.
func DefaultCountyAliases() map[string]string {
	return map[string]string{
		"kings":         "Kings (Brooklyn)",
		"brooklyn":      "Brooklyn",
		"new york":      "New York (Manhattan)",
		"manhattan":     "Manhattan",
		"richmond":      "Richmond (Staten Island)",
		"staten island": "Staten Island",
	}
}

// DefaultStateAliases maps full state names to postal codes.
func DefaultStateAliases() map[string]string {
	return map[string]string{
		"new york": "ny",
	}
}

// NewNormalizer creates a Normalizer with the given alias tables. Alias keys
// are matched case-insensitively.
func NewNormalizer(countyAliases, stateAliases map[string]string) *Normalizer {
	counties := make(map[string]string, len(countyAliases))
	for k, v := range countyAliases {
		counties[normalize(k)] = v
	}
	states := make(map[string]string, len(stateAliases))
	for k, v := range stateAliases {
		states[normalize(k)] = normalize(v)
	}
	return &Normalizer{countyAliases: counties, stateAliases: states}
}

// NewDefaultNormalizer creates a Normalizer with the New York alias tables.
func NewDefaultNormalizer() *Normalizer {
	return NewNormalizer(DefaultCountyAliases(), DefaultStateAliases())
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeState returns the lower-cased postal form of a state name.
func (n *Normalizer) NormalizeState(s string) string {
	norm := normalize(s)
	if mapped, ok := n.stateAliases[norm]; ok {
		return mapped
	}
	return norm
}

// NormalizeCounty trims the input, strips a trailing "County" token, and
// applies the alias table. The alias value's casing is preserved; matching
// against the rate table is case-insensitive.
func (n *Normalizer) NormalizeCounty(s string) string {
	c := strings.TrimSpace(s)
	if len(c) >= 7 && strings.EqualFold(c[len(c)-7:], " county") {
		c = strings.TrimSpace(c[:len(c)-7])
	}
	if mapped, ok := n.countyAliases[normalize(c)]; ok {
		return mapped
	}
	return c
}

// NormalizeCity lower-cases the input and strips a leading
// "City of "/"Town of "/"Village of " token.
func (n *Normalizer) NormalizeCity(s string) string {
	c := normalize(s)
	for _, prefix := range []string{"city of ", "town of ", "village of "} {
		if strings.HasPrefix(c, prefix) {
			return strings.TrimSpace(c[len(prefix):])
		}
	}
	return c
}

// CountiesMatch reports whether two county names refer to the same county.
// When either operand carries a parenthetical suffix ("Kings (Brooklyn)"),
// the portion before the parenthesis is compared against the other operand,
// in both directions, before falling back to plain equality.
func (n *Normalizer) CountiesMatch(a, b string) bool {
	na, nb := normalize(a), normalize(b)
	if na == nb {
		return true
	}
	if base, ok := parenBase(na); ok && base == nb {
		return true
	}
	if base, ok := parenBase(nb); ok && base == na {
		return true
	}
	return false
}

// parenBase returns the portion of s before a parenthetical suffix.
func parenBase(s string) (string, bool) {
	i := strings.Index(s, "(")
	if i <= 0 {
		return "", false
	}
	return strings.TrimSpace(s[:i]), true
}
