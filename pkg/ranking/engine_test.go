package ranking

import (
	"testing"

	"ai-shopping-agent-be/pkg/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v int) *int { return &v }

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	store, err := catalog.LoadEmbedded()
	require.NoError(t, err)
	return store
}

func ids(products []catalog.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestRankStrategies(t *testing.T) {
	store := testStore(t)

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "camera under 30k",
			criteria: Criteria{Focus: FocusCamera, PriceMax: ptr(30000)},
			want:     []string{"redmi-note-13-pro", "redmi-note-13", "poco-x6-pro", "oneplus-nord-ce4", "samsung-galaxy-m35"},
		},
		{
			name:     "compact by rating",
			criteria: Criteria{Focus: FocusCompact},
			want:     []string{"iphone-15-pro", "iphone-15", "samsung-galaxy-s24", "iphone-13", "pixel-8a"},
		},
		{
			name:     "brand filter keeps catalog order",
			criteria: Criteria{Brand: "samsung"},
			want: []string{
				"samsung-galaxy-s24", "samsung-galaxy-s24-ultra", "samsung-galaxy-a55",
				"samsung-galaxy-m35", "samsung-galaxy-s23-fe",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Rank(tt.criteria, store)
			assert.Equal(t, StagePrimary, res.Stage)
			assert.Equal(t, tt.want, ids(res.Products))
		})
	}
}

func TestBatteryLeaderFirst(t *testing.T) {
	res := Rank(Criteria{Focus: FocusBattery}, testStore(t))
	require.NotEmpty(t, res.Products)
	assert.Equal(t, "samsung-galaxy-m35", res.Products[0].ID)
}

func TestCameraScenarioRespectsBudget(t *testing.T) {
	res := Rank(Criteria{Focus: FocusCamera, PriceMax: ptr(30000)}, testStore(t))

	assert.Equal(t, FocusCamera, res.Strategy)
	assert.LessOrEqual(t, len(res.Products), MaxResults)
	for _, p := range res.Products {
		assert.LessOrEqual(t, p.PriceINR, 30000, p.ID)
	}
}

func TestValueScoresAreNonIncreasing(t *testing.T) {
	store := testStore(t)
	for _, ceiling := range []int{20000, 30000, 45000, 80000, 200000} {
		res := Rank(Criteria{Focus: FocusValue, PriceMax: ptr(ceiling)}, store)
		require.Equal(t, FocusValue, res.Strategy)
		for i := 1; i < len(res.Products); i++ {
			assert.GreaterOrEqual(t, Score(res.Products[i-1]), Score(res.Products[i]))
		}
	}
}

func TestValueWithoutCeilingUsesDefault(t *testing.T) {
	res := Rank(Criteria{Focus: FocusValue}, testStore(t))
	assert.Equal(t, FocusNone, res.Strategy)
	assert.Equal(t, "pixel-8a", res.Products[0].ID)
}

func TestScoreNonPositivePrice(t *testing.T) {
	assert.Zero(t, Score(catalog.Product{RAMGB: 8}))
	assert.Positive(t, Score(catalog.Product{RAMGB: 8, PriceINR: 10000}))
}

func TestFallbackChain(t *testing.T) {
	store := testStore(t)

	t.Run("default filter", func(t *testing.T) {
		res := Rank(Criteria{Focus: FocusCompact, PriceMax: ptr(30000)}, store)
		assert.Equal(t, StageDefaultFilter, res.Stage)
		for _, p := range res.Products {
			assert.LessOrEqual(t, p.PriceINR, 30000)
		}
	})

	t.Run("catalog head", func(t *testing.T) {
		res := Rank(Criteria{Brand: "Nokia"}, store)
		assert.Equal(t, StageCatalogHead, res.Stage)
		assert.Equal(t, ids(store.Head(MaxResults)), ids(res.Products))
	})
}

func TestRankIsBoundedAndNonEmpty(t *testing.T) {
	store := testStore(t)
	focuses := []Focus{FocusNone, FocusCamera, FocusBattery, FocusGaming, FocusValue, FocusCompact, Focus("unknown")}
	budgets := []*int{nil, ptr(0), ptr(15000), ptr(30000), ptr(1000000)}

	for _, f := range focuses {
		for _, b := range budgets {
			res := Rank(Criteria{Focus: f, PriceMax: b, FastCharging: true}, store)
			assert.NotEmpty(t, res.Products)
			assert.LessOrEqual(t, len(res.Products), MaxResults)
		}
	}
}

func TestRankIsDeterministic(t *testing.T) {
	store := testStore(t)
	c := Criteria{Focus: FocusGaming, PriceMax: ptr(40000)}
	assert.Equal(t, ids(Rank(c, store).Products), ids(Rank(c, store).Products))
}

func TestEmptyCatalog(t *testing.T) {
	store, err := catalog.NewStore(nil)
	require.NoError(t, err)
	assert.Empty(t, Rank(Criteria{Focus: FocusCamera}, store).Products)
}

func TestFilterHardConstraints(t *testing.T) {
	store := testStore(t)
	got := Filter(Criteria{
		FastCharging: true,
		MinBattery:   ptr(5500),
		Features:     []string{"gaming"},
	}, store.All())

	for _, p := range got {
		assert.GreaterOrEqual(t, p.FastChargingWatts, FastChargingWatts)
		assert.GreaterOrEqual(t, p.BatteryMAh, 5500)
		assert.True(t, p.HasFeature("gaming"))
	}
}

func TestSortBy(t *testing.T) {
	products := testStore(t).All()
	SortBy(products, SortPriceAsc)
	for i := 1; i < len(products); i++ {
		assert.LessOrEqual(t, products[i-1].PriceINR, products[i].PriceINR)
	}

	_, err := ParseSortKey("popularity")
	assert.Error(t, err)
}

func TestParseFocus(t *testing.T) {
	assert.Equal(t, FocusCamera, ParseFocus(" Camera "))
	assert.Equal(t, FocusNone, ParseFocus("display"))
}
