package catalog

import "errors"

const (
	MinCompare = 2
	MaxCompare = 3
)

var ErrCompareCount = errors.New("comparison needs 2 or 3 products")

// Highlight keys, in the order they are presented.
const (
	HighlightBestPrice       = "best_price"
	HighlightBestCamera      = "best_camera"
	HighlightBestBattery     = "best_battery"
	HighlightBestDisplay     = "best_display"
	HighlightBestPerformance = "best_performance"
	HighlightFastestCharging = "fastest_charging"
)

var HighlightOrder = []string{
	HighlightBestPrice,
	HighlightBestCamera,
	HighlightBestBattery,
	HighlightBestDisplay,
	HighlightBestPerformance,
	HighlightFastestCharging,
}

type Comparison struct {
	Products   []Product         `json:"products"`
	Highlights map[string]string `json:"highlights"`
}

// pick returns the id of the product with the best value; the earlier product
// wins ties.
func pick(products []Product, better func(a, b Product) bool) string {
	best := products[0]
	for _, p := range products[1:] {
		if better(p, best) {
			best = p
		}
	}
	return best.ID
}

// Compare builds per-dimension winners for 2 or 3 products.
func Compare(products []Product) (*Comparison, error) {
	if len(products) < MinCompare || len(products) > MaxCompare {
		return nil, ErrCompareCount
	}

	highlights := map[string]string{
		HighlightBestPrice: pick(products, func(a, b Product) bool { return a.PriceINR < b.PriceINR }),
		HighlightBestCamera: pick(products, func(a, b Product) bool {
			return a.Camera.MainMP > b.Camera.MainMP
		}),
		HighlightBestBattery: pick(products, func(a, b Product) bool { return a.BatteryMAh > b.BatteryMAh }),
		HighlightBestDisplay: pick(products, func(a, b Product) bool { return a.RefreshRate > b.RefreshRate }),
		HighlightBestPerformance: pick(products, func(a, b Product) bool {
			return a.RAMGB > b.RAMGB
		}),
		HighlightFastestCharging: pick(products, func(a, b Product) bool {
			return a.FastChargingWatts > b.FastChargingWatts
		}),
	}

	return &Comparison{Products: products, Highlights: highlights}, nil
}

// CompareIDs resolves ids against the store before comparing. Unknown ids are
// reported as ErrNotFound.
func (s *Store) CompareIDs(ids []string) (*Comparison, error) {
	products := make([]Product, 0, len(ids))
	seen := make(map[string]bool)
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		p, err := s.Lookup(id)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return Compare(products)
}
