// Package domain contains models and contracts for published emission factors.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Category string

var (
	Scope1 Category = "SCOPE_1"
	Scope2 Category = "SCOPE_2"
	Scope3 Category = "SCOPE_3"
)

type SubCategory string

var (
	StationaryCombustion SubCategory = "STATIONARY_COMBUSTION"
	MobileCombustion     SubCategory = "MOBILE_COMBUSTION"
	FugitiveEmissions    SubCategory = "FUGITIVE_EMISSIONS"
	GridElectricity      SubCategory = "GRID_ELECTRICITY"
	DistrictHeating      SubCategory = "DISTRICT_HEATING"
	BusinessTravel       SubCategory = "BUSINESS_TRAVEL"
)

type DataQuality string

var (
	DataQualityHigh   DataQuality = "HIGH"
	DataQualityMedium DataQuality = "MEDIUM"
	DataQualityLow    DataQuality = "LOW"
)

// EmissionFactorRecord is one published emission factor for one fuel or gas
// in one jurisdiction for one validity window. Records are immutable once
// published: a correction is a new version, an obsolete record is
// deactivated, never deleted.
type EmissionFactorRecord struct {
	ID              snowflake.ID      `json:"id" gorm:"primaryKey"`
	Category        Category          `json:"category" gorm:"type:text;not null;index:idx_factor_lookup"`
	SubCategory     SubCategory       `json:"sub_category" gorm:"type:text;not null;index:idx_factor_lookup"`
	FuelType        string            `json:"fuel_type" gorm:"type:text;not null;index:idx_factor_lookup"`
	VehicleCategory *string           `json:"vehicle_category,omitempty" gorm:"type:text"`
	Country         string            `json:"country" gorm:"type:text;not null;index:idx_factor_lookup"`
	Unit            string            `json:"unit" gorm:"type:text;not null"`
	CO2Factor       float64           `json:"co2_factor" gorm:"not null"`
	CH4Factor       float64           `json:"ch4_factor" gorm:"not null;default:0"`
	N2OFactor       float64           `json:"n2o_factor" gorm:"not null;default:0"`
	TotalCO2eFactor float64           `json:"total_co2e_factor" gorm:"not null"`
	Uncertainty     float64           `json:"uncertainty" gorm:"not null;default:0"`
	DataQuality     DataQuality       `json:"data_quality" gorm:"type:text;not null;default:'MEDIUM'"`
	Source          string            `json:"source" gorm:"type:text;not null"`
	Version         int32             `json:"version" gorm:"not null;default:1"`
	PublishedAt     time.Time         `json:"published_at" gorm:"not null"`
	ValidFrom       time.Time         `json:"valid_from" gorm:"not null;index"`
	ValidTo         time.Time         `json:"valid_to" gorm:"not null"`
	Active          bool              `json:"active" gorm:"not null;default:true"`
	Metadata        datatypes.JSONMap `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt       time.Time         `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time         `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (EmissionFactorRecord) TableName() string { return "emission_factors" }
