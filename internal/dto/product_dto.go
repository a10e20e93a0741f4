package dto

type ProductCard struct {
	ID           string   `json:"id"`
	Brand        string   `json:"brand"`
	Model        string   `json:"model"`
	PriceINR     int      `json:"price_inr"`
	DisplaySize  float64  `json:"display_size"`
	RAMGB        int      `json:"ram_gb"`
	StorageGB    int      `json:"storage_gb"`
	BatteryMAh   int      `json:"battery_mah"`
	CameraMainMP int      `json:"camera_main_mp"`
	Rating       float64  `json:"rating"`
	ImageURL     string   `json:"image_url"`
	KeyFeatures  []string `json:"key_features"`
}

type ListProductsQuery struct {
	Brand        string `query:"brand"`
	MinPrice     *int   `query:"min_price" validate:"omitempty,min=0"`
	MaxPrice     *int   `query:"max_price" validate:"omitempty,min=0"`
	MinRAM       *int   `query:"min_ram" validate:"omitempty,min=0"`
	MinStorage   *int   `query:"min_storage" validate:"omitempty,min=0"`
	MinBattery   *int   `query:"min_battery" validate:"omitempty,min=0"`
	Compact      bool   `query:"compact"`
	FastCharging bool   `query:"fast_charging"`
	SortBy       string `query:"sort_by" validate:"omitempty,oneof=price_asc price_desc rating battery camera value"`
	Limit        int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type CompareRequest struct {
	PhoneIDs []string `json:"phone_ids" validate:"required,min=2,max=3,dive,required"`
}

type DisplaySpec struct {
	Size        float64 `json:"size"`
	Type        string  `json:"type"`
	RefreshRate int     `json:"refresh_rate"`
	Resolution  string  `json:"resolution"`
}

type PerformanceSpec struct {
	Processor         string `json:"processor"`
	RAMGB             int    `json:"ram_gb"`
	StorageGB         int    `json:"storage_gb"`
	ExpandableStorage bool   `json:"expandable_storage"`
}

type BatterySpec struct {
	CapacityMAh       int  `json:"capacity_mah"`
	FastChargingWatts int  `json:"fast_charging_watts"`
	WirelessCharging  bool `json:"wireless_charging"`
}

type CameraSpec struct {
	MainMP      int      `json:"main_mp"`
	UltraWideMP *int     `json:"ultra_wide_mp"`
	TelephotoMP *int     `json:"telephoto_mp"`
	FrontMP     int      `json:"front_mp"`
	Features    []string `json:"features"`
}

type ProductDetailResponse struct {
	ID              string          `json:"id"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	FullName        string          `json:"full_name"`
	PriceINR        int             `json:"price_inr"`
	Display         DisplaySpec     `json:"display"`
	Performance     PerformanceSpec `json:"performance"`
	Battery         BatterySpec     `json:"battery"`
	Camera          CameraSpec      `json:"camera"`
	OSVersion       string          `json:"os_version"`
	WeightGrams     int             `json:"weight_grams"`
	Dimensions      string          `json:"dimensions"`
	SpecialFeatures []string        `json:"special_features"`
	Rating          float64         `json:"rating"`
	ReviewsCount    int             `json:"reviews_count"`
	ImageURL        string          `json:"image_url"`
}

type BrandsResponse struct {
	Brands []string `json:"brands"`
}

type StatsResponse struct {
	TotalPhones int            `json:"total_phones"`
	Brands      int            `json:"brands"`
	MinPrice    int            `json:"min_price"`
	MaxPrice    int            `json:"max_price"`
	AvgPrice    int            `json:"avg_price"`
	ByBrand     map[string]int `json:"by_brand"`
}
