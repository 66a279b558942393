package filing

import (
	"math/big"
	"regexp"
	"sort"
	"strings"
)

var digitRun = regexp.MustCompile(`\d+`)

// naturalToken is one run of a natural sort key: either a number or a lower-cased string.
type naturalToken struct {
	number  *big.Int
	text    string
	numeric bool
}

// naturalKey splits a name into alternating non-digit and digit runs.
// Digit runs become numbers, everything else is lower-cased.
// Empty runs produced at the edges of the name are kept so that keys of
// well-formed names always alternate text, number, text, ...
func naturalKey(name string) []naturalToken {
	bounds := digitRun.FindAllStringIndex(name, -1)
	tokens := make([]naturalToken, 0, 2*len(bounds)+1)

	prev := 0
	for _, b := range bounds {
		tokens = append(tokens, naturalToken{text: strings.ToLower(name[prev:b[0]])})
		n, _ := new(big.Int).SetString(name[b[0]:b[1]], 10)
		tokens = append(tokens, naturalToken{number: n, numeric: true})
		prev = b[1]
	}
	tokens = append(tokens, naturalToken{text: strings.ToLower(name[prev:])})
	return tokens
}

// NaturalLess reports whether a sorts before b in natural order:
// "Region 2" < "Region 10", and letters compare case-insensitively.
func NaturalLess(a, b string) bool {
	return compareNaturalKeys(naturalKey(a), naturalKey(b)) < 0
}

func compareNaturalKeys(a, b []naturalToken) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareTokens(a[i], b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

func compareTokens(a, b naturalToken) int {
	switch {
	case a.numeric && b.numeric:
		return a.number.Cmp(b.number)
	case a.numeric:
		// numbers before text keeps the ordering total for malformed names
		return -1
	case b.numeric:
		return 1
	}
	return strings.Compare(a.text, b.text)
}

// SortNaturally sorts names in place, keeping the input order for equal keys.
func SortNaturally(names []string) {
	sort.SliceStable(names, func(i, j int) bool {
		return NaturalLess(names[i], names[j])
	})
}

// SortRegionsNaturally sorts regions by name in natural order, stable for equal keys.
func SortRegionsNaturally(regions []Region) {
	sort.SliceStable(regions, func(i, j int) bool {
		return NaturalLess(regions[i].Name, regions[j].Name)
	})
}
