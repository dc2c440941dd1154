package connector

import "fmt"

// Wildcard matches any single character of a lowercase subtype.
const Wildcard = '*'

// LowerMatcher decides whether two lowercase subtypes of the same class match.
type LowerMatcher func(a, b string) bool

// StrictLower matches subtypes of equal length whose characters are equal
// position by position, or where either side holds a wildcard.
func StrictLower(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return lowerPrefixMatch(a, b)
}

// PaddedLower treats the shorter subtype as padded with wildcards, which
// is the usual dictionary naming convention ("S" links to both "Ss" and "Sp").
func PaddedLower(a, b string) bool {
	return lowerPrefixMatch(a, b)
}

func lowerPrefixMatch(a, b string) bool {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] && a[i] != Wildcard && b[i] != Wildcard {
			return false
		}
	}
	return true
}

// ParseLowerMatcher maps a configuration name to a predicate.
func ParseLowerMatcher(name string) (LowerMatcher, error) {
	switch name {
	case "", "strict":
		return StrictLower, nil
	case "padded":
		return PaddedLower, nil
	default:
		return nil, fmt.Errorf("unknown lowercase match mode %q", name)
	}
}

// Match is the full connector test: same class and matching subtypes.
func Match(a, b *Descriptor, lower LowerMatcher) bool {
	return ClassEqual(a, b) && lower(a.Lower, b.Lower)
}
