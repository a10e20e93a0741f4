package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := LoadEmbedded()
	require.NoError(t, err)
	require.NotZero(t, store.Len())
	return store
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestLoadEmbeddedCatalogIsValid(t *testing.T) {
	store := loadTestStore(t)

	seen := make(map[string]bool)
	for _, p := range store.All() {
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		assert.GreaterOrEqual(t, p.PriceINR, 0)
	}
	assert.Contains(t, store.Brands(), "Samsung")
}

func TestNewStoreRejectsBrokenRecords(t *testing.T) {
	tests := []struct {
		name     string
		products []Product
		reason   string
	}{
		{
			name:     "duplicate id",
			products: []Product{{ID: "a", Brand: "X", Model: "1"}, {ID: "a", Brand: "X", Model: "2"}},
			reason:   "duplicate id",
		},
		{
			name:     "negative price",
			products: []Product{{ID: "a", Brand: "X", Model: "1", PriceINR: -1}},
			reason:   "price_inr must be non-negative",
		},
		{
			name:     "missing id",
			products: []Product{{Brand: "X", Model: "1"}},
			reason:   "missing id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStore(tt.products)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.reason, verr.Reason)
		})
	}
}

func TestStoreAllReturnsCopy(t *testing.T) {
	store := loadTestStore(t)
	all := store.All()
	all[0].PriceINR = 1

	first, ok := store.Get(all[0].ID)
	require.True(t, ok)
	assert.NotEqual(t, 1, first.PriceINR)
}

func TestGetByIDsKeepsRequestOrder(t *testing.T) {
	store := loadTestStore(t)
	got := store.GetByIDs([]string{"oneplus-12r", "missing", "pixel-8a"})
	assert.Equal(t, []string{"oneplus-12r", "pixel-8a"}, ids(got))
}

func TestMentioned(t *testing.T) {
	store := loadTestStore(t)

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"compare pair", "Compare Pixel 8a vs OnePlus 12R", []string{"pixel-8a", "oneplus-12r"}},
		{"longer name shadows shorter", "is the Galaxy S24 Ultra worth it", []string{"samsung-galaxy-s24-ultra"}},
		{"both variants", "samsung s24 or s24 ultra?", []string{"samsung-galaxy-s24", "samsung-galaxy-s24-ultra"}},
		{"brand only", "Show me Samsung phones", []string{}},
		{"numeric model needs full name", "anything on android 14 under 30k", []string{}},
		{"numeric model with brand", "tell me about the xiaomi 14", []string{"xiaomi-14"}},
		{"id mention", "details for iphone-15 please", []string{"iphone-15"}},
		{"no partial word", "pixel 8ab", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(store.Mentioned(tt.text)))
		})
	}
}

func TestBrandIn(t *testing.T) {
	store := loadTestStore(t)

	assert.Equal(t, "Samsung", store.BrandIn("Show me Samsung phones"))
	assert.Equal(t, "OnePlus", store.BrandIn("oneplus under 40k"))
	assert.Equal(t, "", store.BrandIn("nothing above 20k please"))
	assert.Equal(t, "Nothing", store.BrandIn("is the nothing phone any good"))
	assert.Equal(t, "", store.BrandIn("samsungish"))
}

func TestSearch(t *testing.T) {
	store := loadTestStore(t)
	searcher := NewSearcher(store, DefaultSearchConfig())

	t.Run("direct", func(t *testing.T) {
		assert.Contains(t, ids(searcher.Search("Pixel 8a")), "pixel-8a")
	})

	t.Run("abbreviation", func(t *testing.T) {
		assert.Contains(t, ids(searcher.Search("op 12r")), "oneplus-12r")
		assert.Contains(t, ids(searcher.Search("s24")), "samsung-galaxy-s24")
	})

	t.Run("token overlap", func(t *testing.T) {
		got := ids(searcher.Search("redmi 13 pro note"))
		assert.Contains(t, got, "redmi-note-13-pro")
	})

	t.Run("blank", func(t *testing.T) {
		assert.Empty(t, searcher.Search("   "))
	})

	t.Run("threshold is configurable", func(t *testing.T) {
		strict := NewSearcher(store, SearchConfig{TokenOverlap: 1.0})
		assert.NotContains(t, ids(strict.Search("galaxy flagship")), "samsung-galaxy-s24")
		loose := NewSearcher(store, SearchConfig{TokenOverlap: 0.5})
		assert.Contains(t, ids(loose.Search("galaxy flagship")), "samsung-galaxy-s24")
	})
}

func TestParseAbbreviations(t *testing.T) {
	abbr, err := ParseAbbreviations(strings.NewReader("version: 1\nabbreviations:\n  OP: OnePlus\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"op": "oneplus"}, abbr)
}

func TestCompareHighlights(t *testing.T) {
	store := loadTestStore(t)

	cmp, err := store.CompareIDs([]string{"pixel-8a", "oneplus-12r"})
	require.NoError(t, err)

	assert.Equal(t, "oneplus-12r", cmp.Highlights[HighlightBestPrice])
	assert.Equal(t, "pixel-8a", cmp.Highlights[HighlightBestCamera])
	assert.Equal(t, "oneplus-12r", cmp.Highlights[HighlightBestBattery])
	assert.Equal(t, "pixel-8a", cmp.Highlights[HighlightBestDisplay], "tie keeps the first product")
	assert.Equal(t, "pixel-8a", cmp.Highlights[HighlightBestPerformance], "tie keeps the first product")
	assert.Equal(t, "oneplus-12r", cmp.Highlights[HighlightFastestCharging])
	assert.Len(t, cmp.Highlights, len(HighlightOrder))
}

func TestCompareErrors(t *testing.T) {
	store := loadTestStore(t)

	_, err := store.CompareIDs([]string{"pixel-8a"})
	assert.ErrorIs(t, err, ErrCompareCount)

	_, err = store.CompareIDs([]string{"pixel-8a", "pixel-8a"})
	assert.ErrorIs(t, err, ErrCompareCount)

	_, err = store.CompareIDs([]string{"pixel-8a", "nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStats(t *testing.T) {
	store := loadTestStore(t)
	st := store.Stats()

	assert.Equal(t, store.Len(), st.TotalProducts)
	assert.LessOrEqual(t, st.MinPrice, st.AvgPrice)
	assert.LessOrEqual(t, st.AvgPrice, st.MaxPrice)
	assert.Equal(t, 5, st.ByBrand["Samsung"])
}
