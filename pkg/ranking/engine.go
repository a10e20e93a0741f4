// Package ranking turns query criteria into an ordered shortlist of catalog
// products.
package ranking

import (
	"sort"
	"strings"

	"ai-shopping-agent-be/pkg/catalog"
)

const MaxResults = 5

// Stage records which step of the fallback chain produced the result.
type Stage string

const (
	StagePrimary       Stage = "primary"
	StageDefaultFilter Stage = "default_filter"
	StageCatalogHead   Stage = "catalog_head"
)

type Result struct {
	Products []catalog.Product
	Strategy Focus
	Stage    Stage
}

type strategy func(c Criteria, products []catalog.Product) []catalog.Product

// strategies has an entry for every Focus value.
var strategies = map[Focus]strategy{
	FocusNone:    rankDefault,
	FocusCamera:  rankCamera,
	FocusBattery: rankBattery,
	FocusGaming:  rankGaming,
	FocusCompact: rankCompact,
	FocusValue:   rankValue,
}

func boolKey(b bool) int {
	if b {
		return 1
	}
	return 0
}

// byKeys sorts descending on the composite key; the stable sort keeps catalog
// order for full ties.
func byKeys(products []catalog.Product, keys func(p catalog.Product) []float64) []catalog.Product {
	sort.SliceStable(products, func(i, j int) bool {
		a, b := keys(products[i]), keys(products[j])
		for k := range a {
			if a[k] != b[k] {
				return a[k] > b[k]
			}
		}
		return false
	})
	return products
}

func rankDefault(c Criteria, products []catalog.Product) []catalog.Product {
	return Filter(c, products)
}

func rankCamera(c Criteria, products []catalog.Product) []catalog.Product {
	return byKeys(prefilter(c, products), func(p catalog.Product) []float64 {
		return []float64{
			float64(p.Camera.MainMP),
			float64(len(p.Camera.Features)),
			float64(boolKey(p.Camera.HasTelephoto())),
		}
	})
}

func rankBattery(c Criteria, products []catalog.Product) []catalog.Product {
	return byKeys(prefilter(c, products), func(p catalog.Product) []float64 {
		return []float64{float64(p.BatteryMAh), float64(p.FastChargingWatts)}
	})
}

func hasGamingTag(p catalog.Product) bool {
	for _, f := range p.SpecialFeatures {
		if strings.Contains(strings.ToLower(f), "gaming") {
			return true
		}
	}
	return false
}

func rankGaming(c Criteria, products []catalog.Product) []catalog.Product {
	return byKeys(prefilter(c, products), func(p catalog.Product) []float64 {
		return []float64{
			float64(p.RAMGB),
			float64(p.RefreshRate),
			float64(boolKey(hasGamingTag(p))),
			float64(p.BatteryMAh),
		}
	})
}

func rankCompact(c Criteria, products []catalog.Product) []catalog.Product {
	compact := make([]catalog.Product, 0)
	for _, p := range prefilter(c, products) {
		if p.IsCompact() {
			compact = append(compact, p)
		}
	}
	return byKeys(compact, func(p catalog.Product) []float64 {
		return []float64{p.Rating}
	})
}

// rankValue needs a price ceiling; without one it behaves like the default
// strategy.
func rankValue(c Criteria, products []catalog.Product) []catalog.Product {
	if c.PriceMax == nil {
		return rankDefault(c, products)
	}
	return byKeys(prefilter(c, products), func(p catalog.Product) []float64 {
		return []float64{Score(p)}
	})
}

// Score is the value-for-money ratio: a weighted spec sum divided by price in
// units of 10,000. A non-positive price scores zero.
func Score(p catalog.Product) float64 {
	priceFactor := float64(p.PriceINR) / 10000
	if priceFactor <= 0 {
		return 0
	}
	spec := float64(p.RAMGB) +
		float64(p.StorageGB)/16 +
		float64(p.BatteryMAh)/1000 +
		float64(p.Camera.MainMP)/10 +
		float64(p.RefreshRate)/30
	return spec / priceFactor
}

func truncate(products []catalog.Product) []catalog.Product {
	if len(products) > MaxResults {
		return products[:MaxResults]
	}
	return products
}

// Rank selects the strategy for c.Focus and falls back to the default filter,
// then to the head of the catalog. The result is empty only for an empty
// catalog.
func Rank(c Criteria, store *catalog.Store) Result {
	run, ok := strategies[c.Focus]
	if !ok {
		c.Focus = FocusNone
		run = rankDefault
	}

	strategyName := c.Focus
	if c.Focus == FocusValue && c.PriceMax == nil {
		strategyName = FocusNone
	}

	if out := run(c, store.All()); len(out) > 0 {
		return Result{Products: truncate(out), Strategy: strategyName, Stage: StagePrimary}
	}
	if out := Filter(c, store.All()); len(out) > 0 {
		return Result{Products: truncate(out), Strategy: FocusNone, Stage: StageDefaultFilter}
	}
	return Result{Products: store.Head(MaxResults), Strategy: FocusNone, Stage: StageCatalogHead}
}
