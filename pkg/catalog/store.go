package catalog

import (
	"errors"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("product not found")

// Store is the immutable, process-wide product table. It is safe for concurrent
// readers without locking because nothing mutates it after NewStore returns.
type Store struct {
	products []Product
	byID     map[string]int
	brands   []string
}

// NewStore validates the records and indexes them by id. The slice is copied.
func NewStore(products []Product) (*Store, error) {
	s := &Store{
		products: make([]Product, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	copy(s.products, products)

	seenBrand := make(map[string]bool)
	for i, p := range s.products {
		if err := p.validate(i); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, &ValidationError{ID: p.ID, Index: i, Reason: "duplicate id"}
		}
		s.byID[p.ID] = i

		key := strings.ToLower(p.Brand)
		if !seenBrand[key] {
			seenBrand[key] = true
			s.brands = append(s.brands, p.Brand)
		}
	}
	sort.Strings(s.brands)

	return s, nil
}

// All returns a copy of the catalog in load order.
func (s *Store) All() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Len() int {
	return len(s.products)
}

// Head returns up to n products in catalog order.
func (s *Store) Head(n int) []Product {
	if n > len(s.products) {
		n = len(s.products)
	}
	out := make([]Product, n)
	copy(out, s.products[:n])
	return out
}

func (s *Store) Get(id string) (Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

// Lookup is Get with an error for callers that surface "not found" upward.
func (s *Store) Lookup(id string) (Product, error) {
	p, ok := s.Get(id)
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

// GetByIDs keeps the order of ids and silently skips unknown ones.
func (s *Store) GetByIDs(ids []string) []Product {
	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.Get(id); ok {
			out = append(out, p)
		}
	}
	return out
}

// Brands returns the distinct brand names, sorted.
func (s *Store) Brands() []string {
	out := make([]string, len(s.brands))
	copy(out, s.brands)
	return out
}

type Stats struct {
	TotalProducts int            `json:"total_products"`
	TotalBrands   int            `json:"total_brands"`
	MinPrice      int            `json:"min_price"`
	MaxPrice      int            `json:"max_price"`
	AvgPrice      int            `json:"avg_price"`
	ByBrand       map[string]int `json:"by_brand"`
}

func (s *Store) Stats() Stats {
	st := Stats{
		TotalProducts: len(s.products),
		TotalBrands:   len(s.brands),
		ByBrand:       make(map[string]int, len(s.brands)),
	}
	if len(s.products) == 0 {
		return st
	}

	total := 0
	st.MinPrice = s.products[0].PriceINR
	for _, p := range s.products {
		total += p.PriceINR
		if p.PriceINR < st.MinPrice {
			st.MinPrice = p.PriceINR
		}
		if p.PriceINR > st.MaxPrice {
			st.MaxPrice = p.PriceINR
		}
		st.ByBrand[p.Brand]++
	}
	st.AvgPrice = total / len(s.products)
	return st
}
