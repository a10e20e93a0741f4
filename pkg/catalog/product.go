package catalog

import (
	"fmt"
	"strings"
)

// CompactDisplayThreshold is the display size (inches) below which a phone counts as compact.
const CompactDisplayThreshold = 6.3

type CameraSpec struct {
	MainMP      int      `json:"main_mp"`
	UltraWideMP *int     `json:"ultra_wide_mp,omitempty"`
	TelephotoMP *int     `json:"telephoto_mp,omitempty"`
	FrontMP     int      `json:"front_mp"`
	Features    []string `json:"features"`
}

func (c CameraSpec) HasTelephoto() bool {
	return c.TelephotoMP != nil && *c.TelephotoMP > 0
}

// Product is a single catalog entry. Values are treated as immutable once the
// Store has been built.
type Product struct {
	ID                string     `json:"id"`
	Brand             string     `json:"brand"`
	Model             string     `json:"model"`
	PriceINR          int        `json:"price_inr"`
	DisplaySize       float64    `json:"display_size"`
	DisplayType       string     `json:"display_type"`
	RefreshRate       int        `json:"refresh_rate"`
	Resolution        string     `json:"resolution"`
	Processor         string     `json:"processor"`
	RAMGB             int        `json:"ram_gb"`
	StorageGB         int        `json:"storage_gb"`
	ExpandableStorage bool       `json:"expandable_storage"`
	BatteryMAh        int        `json:"battery_mah"`
	FastChargingWatts int        `json:"fast_charging_watts"`
	WirelessCharging  bool       `json:"wireless_charging"`
	Camera            CameraSpec `json:"camera"`
	OSVersion         string     `json:"os_version"`
	WeightGrams       int        `json:"weight_grams"`
	Dimensions        string     `json:"dimensions"`
	SpecialFeatures   []string   `json:"special_features"`
	Rating            float64    `json:"rating"`
	ReviewsCount      int        `json:"reviews_count"`
	ImageURL          string     `json:"image_url,omitempty"`
	Aliases           []string   `json:"aliases,omitempty"`
}

func (p Product) FullName() string {
	return p.Brand + " " + p.Model
}

func (p Product) IsCompact() bool {
	return p.DisplaySize < CompactDisplayThreshold
}

// HasFeature reports whether tag appears (case-insensitive substring) in either
// the special features or the camera features.
func (p Product) HasFeature(tag string) bool {
	tag = strings.ToLower(tag)
	for _, f := range p.SpecialFeatures {
		if strings.Contains(strings.ToLower(f), tag) {
			return true
		}
	}
	for _, f := range p.Camera.Features {
		if strings.Contains(strings.ToLower(f), tag) {
			return true
		}
	}
	return false
}

// ValidationError describes a catalog record that breaks a data invariant.
type ValidationError struct {
	ID     string
	Index  int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("catalog entry #%d: %s", e.Index, e.Reason)
	}
	return fmt.Sprintf("catalog entry %q: %s", e.ID, e.Reason)
}

func (p Product) validate(index int) error {
	fail := func(reason string) error {
		return &ValidationError{ID: p.ID, Index: index, Reason: reason}
	}

	if strings.TrimSpace(p.ID) == "" {
		return fail("missing id")
	}
	if p.Brand == "" || p.Model == "" {
		return fail("missing brand or model")
	}

	numbers := map[string]float64{
		"price_inr":           float64(p.PriceINR),
		"display_size":        p.DisplaySize,
		"refresh_rate":        float64(p.RefreshRate),
		"ram_gb":              float64(p.RAMGB),
		"storage_gb":          float64(p.StorageGB),
		"battery_mah":         float64(p.BatteryMAh),
		"fast_charging_watts": float64(p.FastChargingWatts),
		"camera.main_mp":      float64(p.Camera.MainMP),
		"camera.front_mp":     float64(p.Camera.FrontMP),
		"weight_grams":        float64(p.WeightGrams),
		"rating":              p.Rating,
		"reviews_count":       float64(p.ReviewsCount),
	}
	if p.Camera.UltraWideMP != nil {
		numbers["camera.ultra_wide_mp"] = float64(*p.Camera.UltraWideMP)
	}
	if p.Camera.TelephotoMP != nil {
		numbers["camera.telephoto_mp"] = float64(*p.Camera.TelephotoMP)
	}
	for field, v := range numbers {
		if v < 0 {
			return fail(field + " must be non-negative")
		}
	}
	return nil
}
