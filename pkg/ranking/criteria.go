package ranking

import (
	"strings"

	"ai-shopping-agent-be/pkg/catalog"
)

type Focus string

const (
	FocusNone    Focus = ""
	FocusCamera  Focus = "camera"
	FocusBattery Focus = "battery"
	FocusGaming  Focus = "gaming"
	FocusValue   Focus = "value"
	FocusCompact Focus = "compact"
)

// ParseFocus maps free text onto the closed Focus set; anything else is FocusNone.
func ParseFocus(s string) Focus {
	switch f := Focus(strings.ToLower(strings.TrimSpace(s))); f {
	case FocusCamera, FocusBattery, FocusGaming, FocusValue, FocusCompact:
		return f
	default:
		return FocusNone
	}
}

// FastChargingWatts is the minimum wattage that counts as fast charging.
const FastChargingWatts = 30

// Criteria are the hard constraints and the focus for one ranking call.
type Criteria struct {
	PriceMin     *int
	PriceMax     *int
	Brand        string
	Features     []string
	Focus        Focus
	Compact      bool
	FastCharging bool
	MinRAM       *int
	MinStorage   *int
	MinBattery   *int
}

func inBudget(c Criteria, p catalog.Product) bool {
	if c.PriceMin != nil && p.PriceINR < *c.PriceMin {
		return false
	}
	if c.PriceMax != nil && p.PriceINR > *c.PriceMax {
		return false
	}
	return true
}

func hasFeatures(c Criteria, p catalog.Product) bool {
	for _, f := range c.Features {
		if !p.HasFeature(f) {
			return false
		}
	}
	return true
}

func brandMatches(c Criteria, p catalog.Product) bool {
	return c.Brand == "" || strings.EqualFold(c.Brand, p.Brand)
}

// prefilter applies the constraints every strategy honours: budget, brand and
// required features.
func prefilter(c Criteria, products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if inBudget(c, p) && brandMatches(c, p) && hasFeatures(c, p) {
			out = append(out, p)
		}
	}
	return out
}

func atLeast(min *int, v int) bool {
	return min == nil || v >= *min
}

// Filter applies every hard constraint joined with AND and keeps catalog order.
func Filter(c Criteria, products []catalog.Product) []catalog.Product {
	out := make([]catalog.Product, 0, len(products))
	for _, p := range prefilter(c, products) {
		if !atLeast(c.MinRAM, p.RAMGB) || !atLeast(c.MinStorage, p.StorageGB) || !atLeast(c.MinBattery, p.BatteryMAh) {
			continue
		}
		if c.FastCharging && p.FastChargingWatts < FastChargingWatts {
			continue
		}
		if c.Compact && !p.IsCompact() {
			continue
		}
		out = append(out, p)
	}
	return out
}
