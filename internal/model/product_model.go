package model

import (
	"time"

	"gorm.io/datatypes"
)

type Product struct {
	Id                string                      `gorm:"type:varchar(64);primaryKey"`
	Brand             string                      `gorm:"type:varchar(64);not null;index"`
	Model             string                      `gorm:"type:varchar(128);not null"`
	PriceINR          int                         `gorm:"not null;index"`
	DisplaySize       float64                     `gorm:"not null"`
	DisplayType       string                      `gorm:"type:varchar(64)"`
	RefreshRate       int                         `gorm:"not null"`
	Resolution        string                      `gorm:"type:varchar(64)"`
	Processor         string                      `gorm:"type:varchar(128)"`
	RAMGB             int                         `gorm:"column:ram_gb;not null"`
	StorageGB         int                         `gorm:"not null"`
	ExpandableStorage bool                        `gorm:"not null;default:false"`
	BatteryMAh        int                         `gorm:"column:battery_mah;not null"`
	FastChargingWatts int                         `gorm:"not null"`
	WirelessCharging  bool                        `gorm:"not null;default:false"`
	CameraMainMP      int                         `gorm:"column:camera_main_mp;not null"`
	CameraUltraWideMP *int                        `gorm:"column:camera_ultra_wide_mp"`
	CameraTelephotoMP *int                        `gorm:"column:camera_telephoto_mp"`
	CameraFrontMP     int                         `gorm:"column:camera_front_mp"`
	CameraFeatures    datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	OSVersion         string                      `gorm:"type:varchar(64)"`
	WeightGrams       int
	Dimensions        string                      `gorm:"type:varchar(64)"`
	SpecialFeatures   datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Rating            float64
	ReviewsCount      int
	ImageURL          string                      `gorm:"type:text"`
	Aliases           datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	// Position keeps catalog order stable across loads.
	Position  int       `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
