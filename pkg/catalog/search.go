package catalog

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTokenOverlap is the share of query tokens that must appear in a
// product's model, brand or id for a multi-word fuzzy match.
const DefaultTokenOverlap = 0.6

type SearchConfig struct {
	TokenOverlap  float64
	Abbreviations map[string]string
}

type abbreviationFile struct {
	Version       int               `yaml:"version"`
	Abbreviations map[string]string `yaml:"abbreviations"`
}

// ParseAbbreviations reads an abbreviation table in the embedded YAML format.
func ParseAbbreviations(r io.Reader) (map[string]string, error) {
	var doc abbreviationFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode abbreviations: %w", err)
	}
	out := make(map[string]string, len(doc.Abbreviations))
	for k, v := range doc.Abbreviations {
		out[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}
	return out, nil
}

// DefaultSearchConfig loads the embedded abbreviation table.
func DefaultSearchConfig() SearchConfig {
	cfg := SearchConfig{TokenOverlap: DefaultTokenOverlap, Abbreviations: map[string]string{}}

	f, err := dataFS.Open("data/abbreviations.yaml")
	if err != nil {
		return cfg
	}
	defer f.Close()

	if abbr, err := ParseAbbreviations(f); err == nil {
		cfg.Abbreviations = abbr
	}
	return cfg
}

// Searcher does the forgiving text search used for user-typed product names.
type Searcher struct {
	store *Store
	cfg   SearchConfig
}

func NewSearcher(store *Store, cfg SearchConfig) *Searcher {
	if cfg.TokenOverlap <= 0 || cfg.TokenOverlap > 1 {
		cfg.TokenOverlap = DefaultTokenOverlap
	}
	if cfg.Abbreviations == nil {
		cfg.Abbreviations = map[string]string{}
	}
	return &Searcher{store: store, cfg: cfg}
}

func (s *Searcher) expand(tokens []string) string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		if full, ok := s.cfg.Abbreviations[t]; ok {
			out[i] = full
		} else {
			out[i] = t
		}
	}
	return strings.Join(out, " ")
}

// Search matches, in order of preference per product: direct substring on
// model/brand/full name/id, abbreviation-expanded substring on model/full name,
// then token overlap for multi-word queries. Results keep catalog order.
func (s *Searcher) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	tokens := strings.Fields(q)
	expanded := s.expand(tokens)

	var results []Product
	for _, p := range s.store.products {
		model := strings.ToLower(p.Model)
		brand := strings.ToLower(p.Brand)
		full := strings.ToLower(p.FullName())
		id := strings.ToLower(p.ID)

		switch {
		case strings.Contains(model, q), strings.Contains(brand, q),
			strings.Contains(full, q), strings.Contains(id, q):
			results = append(results, p)
		case strings.Contains(model, expanded), strings.Contains(full, expanded):
			results = append(results, p)
		case len(tokens) >= 2 && s.tokenOverlap(tokens, model, brand, id):
			results = append(results, p)
		}
	}
	return results
}

func (s *Searcher) tokenOverlap(tokens []string, fields ...string) bool {
	matches := 0
	for _, t := range tokens {
		for _, f := range fields {
			if strings.Contains(f, t) {
				matches++
				break
			}
		}
	}
	return float64(matches) >= float64(len(tokens))*s.cfg.TokenOverlap
}
