package ranking

import (
	"fmt"
	"sort"

	"ai-shopping-agent-be/pkg/catalog"
)

type SortKey string

const (
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortRating    SortKey = "rating"
	SortBattery   SortKey = "battery"
	SortCamera    SortKey = "camera"
	SortValue     SortKey = "value"
)

var sortLess = map[SortKey]func(a, b catalog.Product) bool{
	SortPriceAsc:  func(a, b catalog.Product) bool { return a.PriceINR < b.PriceINR },
	SortPriceDesc: func(a, b catalog.Product) bool { return a.PriceINR > b.PriceINR },
	SortRating:    func(a, b catalog.Product) bool { return a.Rating > b.Rating },
	SortBattery:   func(a, b catalog.Product) bool { return a.BatteryMAh > b.BatteryMAh },
	SortCamera:    func(a, b catalog.Product) bool { return a.Camera.MainMP > b.Camera.MainMP },
	SortValue:     func(a, b catalog.Product) bool { return Score(a) > Score(b) },
}

func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return "", nil
	}
	if _, ok := sortLess[SortKey(s)]; !ok {
		return "", fmt.Errorf("unknown sort key %q", s)
	}
	return SortKey(s), nil
}

// SortBy orders products in place. An empty key keeps catalog order.
func SortBy(products []catalog.Product, key SortKey) {
	less, ok := sortLess[key]
	if !ok {
		return
	}
	sort.SliceStable(products, func(i, j int) bool { return less(products[i], products[j]) })
}
