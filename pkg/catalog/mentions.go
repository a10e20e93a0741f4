package catalog

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

type span struct {
	start, end int
	index      int
}

// names lists the lowercase strings that count as a mention of p. Bare model
// names that are too short or purely numeric ("14", "12") only count through
// the full name.
func (p Product) names() []string {
	names := []string{strings.ToLower(p.FullName()), strings.ToLower(p.ID)}
	model := strings.ToLower(p.Model)
	if len(model) >= 3 && strings.IndexFunc(model, unicode.IsLetter) >= 0 {
		names = append(names, model)
	}
	for _, a := range p.Aliases {
		names = append(names, strings.ToLower(a))
	}
	return names
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// bounded reports whether text[start:end] is not glued to a neighbouring
// letter or digit, so "pixel 8" does not fire inside "pixel 8a".
func bounded(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func findAll(text, needle string) [][2]int {
	var out [][2]int
	if needle == "" {
		return out
	}
	offset := 0
	for {
		i := strings.Index(text[offset:], needle)
		if i < 0 {
			return out
		}
		start := offset + i
		end := start + len(needle)
		if bounded(text, start, end) {
			out = append(out, [2]int{start, end})
		}
		offset = start + 1
	}
}

// Mentioned returns the products named in text, ordered by first mention.
// A mention nested inside a longer mention of another product is ignored
// ("galaxy s24" inside "galaxy s24 ultra"). Brand-only mentions never count.
func (s *Store) Mentioned(text string) []Product {
	lower := strings.ToLower(text)

	var spans []span
	for i, p := range s.products {
		for _, name := range p.names() {
			for _, loc := range findAll(lower, name) {
				spans = append(spans, span{start: loc[0], end: loc[1], index: i})
			}
		}
	}

	first := make(map[int]int)
	for _, a := range spans {
		shadowed := false
		for _, b := range spans {
			if b.index == a.index {
				continue
			}
			if b.start <= a.start && b.end >= a.end && (b.end-b.start) > (a.end-a.start) {
				shadowed = true
				break
			}
		}
		if shadowed {
			continue
		}
		if pos, ok := first[a.index]; !ok || a.start < pos {
			first[a.index] = a.start
		}
	}

	indexes := make([]int, 0, len(first))
	for i := range first {
		indexes = append(indexes, i)
	}
	sort.Slice(indexes, func(x, y int) bool {
		if first[indexes[x]] != first[indexes[y]] {
			return first[indexes[x]] < first[indexes[y]]
		}
		return indexes[x] < indexes[y]
	})

	out := make([]Product, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, s.products[i])
	}
	return out
}

// ambiguousBrands are brand names that are also everyday words; they only
// count when followed by one of the listed qualifiers.
var ambiguousBrands = map[string][]string{
	"nothing": {"phone", "phones"},
}

// BrandIn returns the catalog brand named in text as a whole word, or "".
func (s *Store) BrandIn(text string) string {
	lower := strings.ToLower(text)
	for _, brand := range s.brands {
		b := strings.ToLower(brand)
		for _, loc := range findAll(lower, b) {
			qualifiers, ambiguous := ambiguousBrands[b]
			if !ambiguous {
				return brand
			}
			rest := strings.Fields(lower[loc[1]:])
			if len(rest) > 0 {
				for _, q := range qualifiers {
					if strings.HasPrefix(rest[0], q) {
						return brand
					}
				}
			}
		}
	}
	return ""
}
