package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	referencedomain "github.com/smallbiznis/carbonledger/internal/reference/domain"
	"gorm.io/gorm"
)

// EnsureReferenceData seeds countries and a baseline emission factor set so
// a fresh install can run calculations out of the box. Seeding is
// idempotent: rows already present are left untouched.
func EnsureReferenceData(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCountries(ctx, tx); err != nil {
			return err
		}
		return ensureBaselineFactors(ctx, tx, node)
	})
}

func ensureCountries(ctx context.Context, tx *gorm.DB) error {
	countries := []referencedomain.Country{
		{Code: "IE", Name: "Ireland", Region: "Europe"},
		{Code: "GB", Name: "United Kingdom", Region: "Europe"},
		{Code: "DE", Name: "Germany", Region: "Europe"},
		{Code: "FR", Name: "France", Region: "Europe"},
		{Code: "US", Name: "United States", Region: "North America"},
		{Code: "EU", Name: "European Union", Region: "Europe"},
		{Code: "GLOBAL", Name: "Global", Region: "Global"},
	}

	for _, country := range countries {
		err := tx.WithContext(ctx).
			Where(referencedomain.Country{Code: country.Code}).
			FirstOrCreate(&country).Error
		if err != nil {
			return err
		}
	}
	return nil
}

type baselineFactor struct {
	category        factordomain.Category
	subCategory     factordomain.SubCategory
	fuelType        string
	vehicleCategory string
	country         string
	unit            string
	co2             float64
	ch4             float64
	n2o             float64
	uncertainty     float64
	source          string
}

// Factor values follow the national inventory publications named in
// source, converted to kg per activity unit.
func baselineFactors() []baselineFactor {
	return []baselineFactor{
		// Stationary combustion
		{factordomain.Scope1, factordomain.StationaryCombustion, "Diesel", "", "Ireland", "litre", 2.52, 0.000074, 0.000074, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Petrol", "", "Ireland", "litre", 2.28, 0.00008, 0.00006, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Natural Gas", "", "Ireland", "m3", 2.02, 0.00004, 0.00004, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Kerosene", "", "Ireland", "litre", 2.54, 0.000072, 0.000072, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "LPG", "", "Ireland", "litre", 1.52, 0.00005, 0.00004, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Diesel", "", "United Kingdom", "litre", 2.51, 0.000073, 0.000073, 0.05, "DEFRA 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Natural Gas", "", "United Kingdom", "m3", 2.03, 0.00004, 0.00004, 0.05, "DEFRA 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Diesel", "", "European Union", "litre", 2.53, 0.000075, 0.000075, 0.1, "EEA 2024"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Diesel", "", "Global", "litre", 2.55, 0.00008, 0.00008, 0.15, "IPCC 2006"},
		{factordomain.Scope1, factordomain.StationaryCombustion, "Natural Gas", "", "Global", "m3", 2.05, 0.00005, 0.00005, 0.15, "IPCC 2006"},

		// Mobile combustion
		{factordomain.Scope1, factordomain.MobileCombustion, "Diesel", "", "Ireland", "litre", 2.52, 0.000074, 0.000074, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.MobileCombustion, "Petrol", "", "Ireland", "litre", 2.28, 0.0002, 0.00006, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.MobileCombustion, "Diesel", "PASSENGER_CAR", "Ireland", "litre", 2.52, 0.00006, 0.00012, 0.05, "SEAI 2024"},
		{factordomain.Scope1, factordomain.MobileCombustion, "Diesel", "", "Global", "litre", 2.55, 0.00025, 0.00015, 0.15, "IPCC 2006"},

		// Grid electricity
		{factordomain.Scope2, factordomain.GridElectricity, "Electricity", "", "Ireland", "kWh", 0.296, 0, 0, 0.05, "SEAI 2024"},
		{factordomain.Scope2, factordomain.GridElectricity, "Electricity", "", "United Kingdom", "kWh", 0.207, 0, 0, 0.05, "DEFRA 2024"},
		{factordomain.Scope2, factordomain.GridElectricity, "Electricity", "", "Germany", "kWh", 0.380, 0, 0, 0.05, "UBA 2024"},
		{factordomain.Scope2, factordomain.GridElectricity, "Electricity", "", "France", "kWh", 0.052, 0, 0, 0.05, "ADEME 2024"},
		{factordomain.Scope2, factordomain.GridElectricity, "Electricity", "", "European Union", "kWh", 0.251, 0, 0, 0.1, "EEA 2024"},
		{factordomain.Scope2, factordomain.GridElectricity, "Electricity", "", "Global", "kWh", 0.436, 0, 0, 0.15, "IEA 2024"},

		// District heating
		{factordomain.Scope2, factordomain.DistrictHeating, "Heat", "", "European Union", "kWh", 0.150, 0, 0, 0.1, "EEA 2024"},
	}
}

const (
	seedGWPCH4 = 25.0
	seedGWPN2O = 298.0
)

func ensureBaselineFactors(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	now := time.Now().UTC()
	validFrom := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	validTo := validFrom.AddDate(1, 0, 0)

	for _, item := range baselineFactors() {
		stmt := tx.WithContext(ctx).
			Model(&factordomain.EmissionFactorRecord{}).
			Where("category = ?", item.category).
			Where("sub_category = ?", item.subCategory).
			Where("fuel_type = ?", item.fuelType).
			Where("country = ?", item.country)
		if item.vehicleCategory == "" {
			stmt = stmt.Where("vehicle_category IS NULL")
		} else {
			stmt = stmt.Where("vehicle_category = ?", item.vehicleCategory)
		}

		var count int64
		if err := stmt.Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		record := factordomain.EmissionFactorRecord{
			ID:              node.Generate(),
			Category:        item.category,
			SubCategory:     item.subCategory,
			FuelType:        item.fuelType,
			Country:         item.country,
			Unit:            item.unit,
			CO2Factor:       item.co2,
			CH4Factor:       item.ch4,
			N2OFactor:       item.n2o,
			TotalCO2eFactor: item.co2 + item.ch4*seedGWPCH4 + item.n2o*seedGWPN2O,
			Uncertainty:     item.uncertainty,
			DataQuality:     factordomain.DataQualityHigh,
			Source:          item.source,
			Version:         1,
			PublishedAt:     now,
			ValidFrom:       validFrom,
			ValidTo:         validTo,
			Active:          true,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if item.vehicleCategory != "" {
			vehicle := item.vehicleCategory
			record.VehicleCategory = &vehicle
		}

		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}
