package service

import (
	"context"

	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/internal/mapper"
	"ai-shopping-agent-be/pkg/catalog"
	"ai-shopping-agent-be/pkg/ranking"
)

const (
	DefaultListLimit   = 20
	DefaultSearchLimit = 10
)

type IProductService interface {
	List(ctx context.Context, q dto.ListProductsQuery) []dto.ProductCard
	Get(ctx context.Context, id string) (*dto.ProductDetailResponse, error)
	Brands(ctx context.Context) *dto.BrandsResponse
	Stats(ctx context.Context) *dto.StatsResponse
	Search(ctx context.Context, query string, limit int) []dto.ProductCard
	// Compare returns catalog.ErrNotFound for unknown ids and
	// catalog.ErrCompareCount for fewer than 2 or more than 3 products.
	Compare(ctx context.Context, ids []string) (*dto.ComparisonData, error)
}

type productService struct {
	store    *catalog.Store
	searcher *catalog.Searcher
	mapper   *mapper.ProductMapper
}

func NewProductService(store *catalog.Store, searcher *catalog.Searcher, m *mapper.ProductMapper) IProductService {
	return &productService{store: store, searcher: searcher, mapper: m}
}

func (s *productService) List(_ context.Context, q dto.ListProductsQuery) []dto.ProductCard {
	c := ranking.Criteria{
		PriceMin:     q.MinPrice,
		PriceMax:     q.MaxPrice,
		Brand:        q.Brand,
		Compact:      q.Compact,
		FastCharging: q.FastCharging,
		MinRAM:       q.MinRAM,
		MinStorage:   q.MinStorage,
		MinBattery:   q.MinBattery,
	}
	products := ranking.Filter(c, s.store.All())

	key := ranking.SortRating
	if q.SortBy != "" {
		if parsed, err := ranking.ParseSortKey(q.SortBy); err == nil {
			key = parsed
		}
	}
	ranking.SortBy(products, key)

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return s.mapper.ToCards(products)
}

func (s *productService) Get(_ context.Context, id string) (*dto.ProductDetailResponse, error) {
	p, err := s.store.Lookup(id)
	if err != nil {
		return nil, err
	}
	detail := s.mapper.ToDetail(p)
	return &detail, nil
}

func (s *productService) Brands(_ context.Context) *dto.BrandsResponse {
	return &dto.BrandsResponse{Brands: s.store.Brands()}
}

func (s *productService) Stats(_ context.Context) *dto.StatsResponse {
	stats := s.mapper.ToStats(s.store.Stats())
	return &stats
}

func (s *productService) Search(_ context.Context, query string, limit int) []dto.ProductCard {
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	hits := s.searcher.Search(query)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return s.mapper.ToCards(hits)
}

func (s *productService) Compare(_ context.Context, ids []string) (*dto.ComparisonData, error) {
	if len(ids) < 2 || len(ids) > 3 {
		return nil, catalog.ErrCompareCount
	}
	cmp, err := s.store.CompareIDs(ids)
	if err != nil {
		return nil, err
	}
	return s.mapper.ToComparison(cmp), nil
}
