package reconcile

import (
	"sort"
	"strings"
)

// Sort key splitting a string into alternating non-digit and digit
// runs. Digit runs compare as numbers, the rest case insensitively.
// The first part is always a (possibly empty) non-digit run.
type Key []keyPart

type keyPart struct {
	digits bool
	// For digit runs: the run without leading zeros. Otherwise the
	// lower-cased run.
	text string
}

func NaturalSortKey(s string) Key {
	key := Key{}
	i := 0
	for {
		j := i
		for j < len(s) && !isDigit(s[j]) {
			j++
		}
		key = append(key, keyPart{text: strings.ToLower(s[i:j])})
		if j == len(s) {
			return key
		}

		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		key = append(key, keyPart{digits: true, text: strings.TrimLeft(s[j:k], "0")})
		i = k
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// Compares two keys: -1, 0 or 1.
func (k Key) Compare(other Key) int {
	for i := 0; i < len(k) && i < len(other); i++ {
		if c := comparePart(k[i], other[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(k) < len(other):
		return -1
	case len(k) > len(other):
		return 1
	}
	return 0
}

func (k Key) Less(other Key) bool {
	return k.Compare(other) < 0
}

func comparePart(a, b keyPart) int {
	if a.digits && b.digits {
		if len(a.text) != len(b.text) {
			if len(a.text) < len(b.text) {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(a.text, b.text)
}

// Natural ordering, falling back to plain string order for keys that
// compare equal ("01" vs "1", "a" vs "A") so sorting is deterministic.
func NaturalLess(a, b string) bool {
	if c := NaturalSortKey(a).Compare(NaturalSortKey(b)); c != 0 {
		return c < 0
	}
	return a < b
}

// Sorts line names in natural order, in place.
func SortNatural(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}
