package mapper

import (
	"ai-shopping-agent-be/internal/dto"
	"ai-shopping-agent-be/internal/model"
	"ai-shopping-agent-be/pkg/catalog"
)

// MaxKeyFeatures bounds the feature list on a product card.
const MaxKeyFeatures = 4

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToCard(p catalog.Product) dto.ProductCard {
	features := p.SpecialFeatures
	if len(features) > MaxKeyFeatures {
		features = features[:MaxKeyFeatures]
	}
	return dto.ProductCard{
		ID:           p.ID,
		Brand:        p.Brand,
		Model:        p.Model,
		PriceINR:     p.PriceINR,
		DisplaySize:  p.DisplaySize,
		RAMGB:        p.RAMGB,
		StorageGB:    p.StorageGB,
		BatteryMAh:   p.BatteryMAh,
		CameraMainMP: p.Camera.MainMP,
		Rating:       p.Rating,
		ImageURL:     p.ImageURL,
		KeyFeatures:  append([]string{}, features...),
	}
}

func (m *ProductMapper) ToCards(ps []catalog.Product) []dto.ProductCard {
	out := make([]dto.ProductCard, len(ps))
	for i, p := range ps {
		out[i] = m.ToCard(p)
	}
	return out
}

func (m *ProductMapper) ToDetail(p catalog.Product) dto.ProductDetailResponse {
	return dto.ProductDetailResponse{
		ID:       p.ID,
		Brand:    p.Brand,
		Model:    p.Model,
		FullName: p.FullName(),
		PriceINR: p.PriceINR,
		Display: dto.DisplaySpec{
			Size:        p.DisplaySize,
			Type:        p.DisplayType,
			RefreshRate: p.RefreshRate,
			Resolution:  p.Resolution,
		},
		Performance: dto.PerformanceSpec{
			Processor:         p.Processor,
			RAMGB:             p.RAMGB,
			StorageGB:         p.StorageGB,
			ExpandableStorage: p.ExpandableStorage,
		},
		Battery: dto.BatterySpec{
			CapacityMAh:       p.BatteryMAh,
			FastChargingWatts: p.FastChargingWatts,
			WirelessCharging:  p.WirelessCharging,
		},
		Camera: dto.CameraSpec{
			MainMP:      p.Camera.MainMP,
			UltraWideMP: p.Camera.UltraWideMP,
			TelephotoMP: p.Camera.TelephotoMP,
			FrontMP:     p.Camera.FrontMP,
			Features:    p.Camera.Features,
		},
		OSVersion:       p.OSVersion,
		WeightGrams:     p.WeightGrams,
		Dimensions:      p.Dimensions,
		SpecialFeatures: p.SpecialFeatures,
		Rating:          p.Rating,
		ReviewsCount:    p.ReviewsCount,
		ImageURL:        p.ImageURL,
	}
}

func (m *ProductMapper) ToComparison(c *catalog.Comparison) *dto.ComparisonData {
	if c == nil {
		return nil
	}
	highlights := make(map[string]string, len(c.Highlights))
	for k, v := range c.Highlights {
		highlights[k] = v
	}
	return &dto.ComparisonData{Phones: m.ToCards(c.Products), Highlights: highlights}
}

func (m *ProductMapper) ToStats(s catalog.Stats) dto.StatsResponse {
	return dto.StatsResponse{
		TotalPhones: s.TotalProducts,
		Brands:      s.TotalBrands,
		MinPrice:    s.MinPrice,
		MaxPrice:    s.MaxPrice,
		AvgPrice:    s.AvgPrice,
		ByBrand:     s.ByBrand,
	}
}

// Model Mappers

func (m *ProductMapper) ModelToProduct(p *model.Product) catalog.Product {
	return catalog.Product{
		ID:                p.Id,
		Brand:             p.Brand,
		Model:             p.Model,
		PriceINR:          p.PriceINR,
		DisplaySize:       p.DisplaySize,
		DisplayType:       p.DisplayType,
		RefreshRate:       p.RefreshRate,
		Resolution:        p.Resolution,
		Processor:         p.Processor,
		RAMGB:             p.RAMGB,
		StorageGB:         p.StorageGB,
		ExpandableStorage: p.ExpandableStorage,
		BatteryMAh:        p.BatteryMAh,
		FastChargingWatts: p.FastChargingWatts,
		WirelessCharging:  p.WirelessCharging,
		Camera: catalog.CameraSpec{
			MainMP:      p.CameraMainMP,
			UltraWideMP: p.CameraUltraWideMP,
			TelephotoMP: p.CameraTelephotoMP,
			FrontMP:     p.CameraFrontMP,
			Features:    []string(p.CameraFeatures),
		},
		OSVersion:       p.OSVersion,
		WeightGrams:     p.WeightGrams,
		Dimensions:      p.Dimensions,
		SpecialFeatures: []string(p.SpecialFeatures),
		Rating:          p.Rating,
		ReviewsCount:    p.ReviewsCount,
		ImageURL:        p.ImageURL,
		Aliases:         []string(p.Aliases),
	}
}

func (m *ProductMapper) ProductToModel(p catalog.Product, position int) *model.Product {
	return &model.Product{
		Id:                p.ID,
		Brand:             p.Brand,
		Model:             p.Model,
		PriceINR:          p.PriceINR,
		DisplaySize:       p.DisplaySize,
		DisplayType:       p.DisplayType,
		RefreshRate:       p.RefreshRate,
		Resolution:        p.Resolution,
		Processor:         p.Processor,
		RAMGB:             p.RAMGB,
		StorageGB:         p.StorageGB,
		ExpandableStorage: p.ExpandableStorage,
		BatteryMAh:        p.BatteryMAh,
		FastChargingWatts: p.FastChargingWatts,
		WirelessCharging:  p.WirelessCharging,
		CameraMainMP:      p.Camera.MainMP,
		CameraUltraWideMP: p.Camera.UltraWideMP,
		CameraTelephotoMP: p.Camera.TelephotoMP,
		CameraFrontMP:     p.Camera.FrontMP,
		CameraFeatures:    p.Camera.Features,
		OSVersion:         p.OSVersion,
		WeightGrams:       p.WeightGrams,
		Dimensions:        p.Dimensions,
		SpecialFeatures:   p.SpecialFeatures,
		Rating:            p.Rating,
		ReviewsCount:      p.ReviewsCount,
		ImageURL:          p.ImageURL,
		Aliases:           p.Aliases,
		Position:          position,
	}
}
