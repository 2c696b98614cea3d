// Package domain contains the calculation engine's input and output shapes.
// Everything here is plain data: results serialize directly to JSON for the
// dashboard and carry no behavior.
package domain

import (
	"time"

	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
)

type CalculationMethod string

var (
	MethodFuelBased     CalculationMethod = "FUEL_BASED"
	MethodDistanceBased CalculationMethod = "DISTANCE_BASED"
	MethodSpendBased    CalculationMethod = "SPEND_BASED"
	MethodMassBalance   CalculationMethod = "MASS_BALANCE"
	MethodAssetTracking CalculationMethod = "ASSET_TRACKING"
)

type Scope2Method string

var (
	Scope2LocationBased Scope2Method = "LOCATION_BASED"
	Scope2MarketBased   Scope2Method = "MARKET_BASED"
)

// StationaryActivity is one reported combustion of a fuel at a fixed source.
type StationaryActivity struct {
	FuelType string  `json:"fuel_type"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	Facility string  `json:"facility,omitempty"`
}

// MobileActivity is one reported vehicle activity. The calculation method
// discriminates which quantity fields are meaningful: FUEL_BASED reads
// Quantity, DISTANCE_BASED reads DistanceKM, SPEND_BASED reads TotalSpend.
type MobileActivity struct {
	Method          CalculationMethod `json:"calculation_method"`
	FuelType        string            `json:"fuel_type"`
	VehicleCategory string            `json:"vehicle_category,omitempty"`
	VehicleType     string            `json:"vehicle_type,omitempty"`
	Quantity        float64           `json:"quantity,omitempty"`
	Unit            string            `json:"unit,omitempty"`
	DistanceKM      float64           `json:"distance_km,omitempty"`
	TotalSpend      float64           `json:"total_spend,omitempty"`
	Currency        string            `json:"currency,omitempty"`
}

// FugitiveActivity is one reported refrigerant loss. MASS_BALANCE reads the
// inventory fields, ASSET_TRACKING reads capacity and leakage rate.
type FugitiveActivity struct {
	Method             CalculationMethod `json:"calculation_method"`
	RefrigerantType    string            `json:"refrigerant_type"`
	BeginningInventory float64           `json:"beginning_inventory,omitempty"`
	Purchases          float64           `json:"purchases,omitempty"`
	Sales              float64           `json:"sales,omitempty"`
	EndingInventory    float64           `json:"ending_inventory,omitempty"`
	EquipmentCapacity  float64           `json:"equipment_capacity,omitempty"`
	LeakageRatePercent float64           `json:"leakage_rate_percent,omitempty"`
	Facility           string            `json:"facility,omitempty"`
}

// ContractualInstrument is a renewable energy claim (REC, PPA, GO) applied
// against purchased electricity in market-based accounting.
type ContractualInstrument struct {
	Type           string  `json:"type"`
	QuantityKWh    float64 `json:"quantity_kwh"`
	EmissionFactor float64 `json:"emission_factor"`
}

// ElectricityActivity is one reported electricity purchase.
type ElectricityActivity struct {
	ConsumptionKWh float64                 `json:"consumption_kwh"`
	Facility       string                  `json:"facility,omitempty"`
	Instruments    []ContractualInstrument `json:"instruments,omitempty"`
}

// FactorSnapshot echoes the resolved factor on a result so a reader can audit
// the calculation without a second lookup.
type FactorSnapshot struct {
	CO2Factor       float64                 `json:"co2_factor"`
	CH4Factor       float64                 `json:"ch4_factor"`
	N2OFactor       float64                 `json:"n2o_factor"`
	TotalCO2eFactor float64                 `json:"total_co2e_factor"`
	Unit            string                  `json:"unit"`
	Country         string                  `json:"country"`
	Source          string                  `json:"source"`
	Uncertainty     float64                 `json:"uncertainty"`
	DataQuality     factordomain.DataQuality `json:"data_quality"`
}

// CalculationResult is the outcome of calculating one activity against one
// resolved factor. CH4 and N2O components are already converted to CO2e.
// ExactTotal carries the unrounded total so aggregation does not compound
// rounding error; it is never serialized.
type CalculationResult struct {
	FuelType     string                   `json:"fuel_type,omitempty"`
	Quantity     float64                  `json:"quantity"`
	Unit         string                   `json:"unit,omitempty"`
	Facility     string                   `json:"facility,omitempty"`
	Scope        factordomain.Category    `json:"scope"`
	SubCategory  factordomain.SubCategory `json:"sub_category"`
	Method       CalculationMethod        `json:"calculation_method,omitempty"`
	CO2Emissions float64                  `json:"co2_emissions"`
	CH4Emissions float64                  `json:"ch4_emissions"`
	N2OEmissions float64                  `json:"n2o_emissions"`
	TotalCO2e    float64                  `json:"total_co2e_emissions"`
	Factor       *FactorSnapshot          `json:"emission_factor,omitempty"`
	GWP          float64                  `json:"gwp,omitempty"`
	DataQuality  factordomain.DataQuality `json:"data_quality,omitempty"`
	CalculatedAt time.Time                `json:"calculated_at"`

	ExactTotal float64 `json:"-"`
}

type StationaryRequest struct {
	Country    string               `json:"country"`
	Activities []StationaryActivity `json:"activities"`
}

type StationaryResult struct {
	Calculations []CalculationResult `json:"calculations"`
	TotalCO2e    float64             `json:"total_co2e"`
}

type MobileRequest struct {
	Country    string           `json:"country"`
	Activities []MobileActivity `json:"activities"`
}

type MobileResult struct {
	VehicleCalculations  []CalculationResult `json:"vehicle_calculations"`
	TotalMobileEmissions float64             `json:"total_mobile_emissions"`
}

type FugitiveRequest struct {
	Activities []FugitiveActivity `json:"activities"`
}

type FugitiveResult struct {
	RefrigerantCalculations []CalculationResult `json:"refrigerant_calculations"`
	TotalFugitiveEmissions  float64             `json:"total_fugitive_emissions"`
}

type Scope2Request struct {
	Country    string                `json:"country"`
	Method     Scope2Method          `json:"method"`
	Activities []ElectricityActivity `json:"activities"`
}

type Scope2Result struct {
	Method               Scope2Method        `json:"method"`
	Calculations         []CalculationResult `json:"calculations"`
	TotalScope2Emissions float64             `json:"total_scope2_emissions"`
}

type ComprehensiveRequest struct {
	Country     string                `json:"country"`
	Revenue     *float64              `json:"revenue,omitempty"`
	Currency    string                `json:"currency,omitempty"`
	Stationary  []StationaryActivity  `json:"stationary,omitempty"`
	Mobile      []MobileActivity      `json:"mobile,omitempty"`
	Fugitive    []FugitiveActivity    `json:"fugitive,omitempty"`
	Electricity []ElectricityActivity `json:"electricity,omitempty"`
}

// EmissionIntensity is total emissions per unit of revenue.
type EmissionIntensity struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

type Scope1Summary struct {
	Stationary   float64             `json:"stationary"`
	Mobile       float64             `json:"mobile"`
	Fugitive     float64             `json:"fugitive"`
	Total        float64             `json:"total"`
	Calculations []CalculationResult `json:"calculations,omitempty"`
}

// Scope2Summary reports both permitted accounting methods in parallel. The
// two figures are never summed together; the market-based figure feeds the
// combined headline, the location-based figure serves location disclosure.
type Scope2Summary struct {
	LocationBased float64             `json:"location_based"`
	MarketBased   float64             `json:"market_based"`
	Calculations  []CalculationResult `json:"calculations,omitempty"`
}

type Scope3Summary struct {
	Total float64 `json:"total"`
	Note  string  `json:"note,omitempty"`
}

type GrandTotals struct {
	LocationBased float64 `json:"location_based"`
	MarketBased   float64 `json:"market_based"`
}

type ScopeSummary struct {
	Country     string             `json:"country"`
	Scope1      Scope1Summary      `json:"scope1"`
	Scope2      Scope2Summary      `json:"scope2"`
	Scope3      Scope3Summary      `json:"scope3"`
	GrandTotals GrandTotals        `json:"grand_totals"`
	Intensity   *EmissionIntensity `json:"emission_intensity,omitempty"`
	GeneratedAt time.Time          `json:"generated_at"`
}
