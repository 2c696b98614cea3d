package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	"github.com/smallbiznis/carbonledger/internal/calculation/resolver"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// factorRepoStub serves canned factor records and counts lookups so tests can
// prove validation rejects bad input before any repository access.
type factorRepoStub struct {
	records []factordomain.EmissionFactorRecord
	calls   int
}

func (s *factorRepoStub) FindActive(_ context.Context, q factordomain.FindQuery) ([]factordomain.EmissionFactorRecord, error) {
	s.calls++
	var out []factordomain.EmissionFactorRecord
	for _, record := range s.records {
		if q.Category != "" && record.Category != q.Category {
			continue
		}
		if q.SubCategory != "" && record.SubCategory != q.SubCategory {
			continue
		}
		if q.FuelType != "" && !strings.EqualFold(record.FuelType, q.FuelType) {
			continue
		}
		if q.Country != "" && !strings.EqualFold(record.Country, q.Country) {
			continue
		}
		if q.VehicleCategory != "" {
			if record.VehicleCategory == nil || !strings.EqualFold(*record.VehicleCategory, q.VehicleCategory) {
				continue
			}
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *factorRepoStub) FindByFuelLike(_ context.Context, category factordomain.Category, token string) ([]factordomain.EmissionFactorRecord, error) {
	s.calls++
	return nil, nil
}

func (s *factorRepoStub) Insert(context.Context, *factordomain.EmissionFactorRecord) error {
	return nil
}

func (s *factorRepoStub) FindByID(context.Context, snowflake.ID) (*factordomain.EmissionFactorRecord, error) {
	return nil, factordomain.ErrNotFound
}

func (s *factorRepoStub) List(context.Context, factordomain.ListQuery) ([]factordomain.EmissionFactorRecord, error) {
	return nil, nil
}

func (s *factorRepoStub) Deactivate(context.Context, snowflake.ID) error {
	return nil
}

func newTestService(repo factordomain.Repository) calcdomain.Service {
	log := zap.NewNop()
	r := resolver.NewWithConfig(log, repo, resolver.DefaultConfig())
	return NewService(ServiceParam{Log: log, Resolver: r})
}

func irishFactors() []factordomain.EmissionFactorRecord {
	validFrom := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	validTo := validFrom.AddDate(10, 0, 0)
	return []factordomain.EmissionFactorRecord{
		{
			Category:    factordomain.Scope1,
			SubCategory: factordomain.StationaryCombustion,
			FuelType:    "Diesel",
			Country:     "Ireland",
			CO2Factor:   2.52,
			CH4Factor:   0.000074,
			N2OFactor:   0.000074,
			Unit:        "litre",
			DataQuality: factordomain.DataQualityHigh,
			Source:      "SEAI",
			ValidFrom:   validFrom,
			ValidTo:     validTo,
			Active:      true,
		},
		{
			Category:    factordomain.Scope1,
			SubCategory: factordomain.MobileCombustion,
			FuelType:    "Diesel",
			Country:     "Ireland",
			CO2Factor:   2.52,
			CH4Factor:   0.000074,
			N2OFactor:   0.000074,
			Unit:        "litre",
			DataQuality: factordomain.DataQualityHigh,
			Source:      "SEAI",
			ValidFrom:   validFrom,
			ValidTo:     validTo,
			Active:      true,
		},
		{
			Category:        factordomain.Scope2,
			SubCategory:     factordomain.GridElectricity,
			FuelType:        "Electricity",
			Country:         "Ireland",
			TotalCO2eFactor: 0.296,
			Unit:            "kWh",
			DataQuality:     factordomain.DataQualityHigh,
			Source:          "SEAI",
			ValidFrom:       validFrom,
			ValidTo:         validTo,
			Active:          true,
		},
	}
}

func TestStationaryCombustion_DieselScenario(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	result, err := svc.CalculateStationaryCombustion(context.Background(), calcdomain.StationaryRequest{
		Country: "Ireland",
		Activities: []calcdomain.StationaryActivity{
			{FuelType: "Diesel", Quantity: 1000, Unit: "litre", Facility: "Cork Plant"},
		},
	})

	assert.NoError(t, err)
	assert.Len(t, result.Calculations, 1)

	calc := result.Calculations[0]
	assert.Equal(t, 2520.00, calc.CO2Emissions)
	assert.Equal(t, 1.85, calc.CH4Emissions)
	assert.Equal(t, 22.052, calc.N2OEmissions)
	assert.Equal(t, 2543.90, calc.TotalCO2e)
	assert.Equal(t, 2543.90, result.TotalCO2e)
	assert.Equal(t, "SEAI", calc.Factor.Source)
}

func TestStationaryCombustion_ValidationRunsBeforeLookup(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	_, err := svc.CalculateStationaryCombustion(context.Background(), calcdomain.StationaryRequest{
		Country: "Ireland",
		Activities: []calcdomain.StationaryActivity{
			{FuelType: "Diesel", Quantity: 1000},
			{FuelType: "Diesel", Quantity: -5},
		},
	})

	var verrs calcdomain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Zero(t, repo.calls, "invalid batches must never reach the repository")
}

func TestStationaryCombustion_BatchFailsFast(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	result, err := svc.CalculateStationaryCombustion(context.Background(), calcdomain.StationaryRequest{
		Country: "Ireland",
		Activities: []calcdomain.StationaryActivity{
			{FuelType: "Diesel", Quantity: 1000},
			{FuelType: "Unicorn Dust", Quantity: 50},
		},
	})

	var notFound *calcdomain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Unicorn Dust", notFound.FuelType)
	assert.Nil(t, result)
}

func TestStationaryCombustion_Deterministic(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)
	req := calcdomain.StationaryRequest{
		Country: "Ireland",
		Activities: []calcdomain.StationaryActivity{
			{FuelType: "Diesel", Quantity: 1000},
		},
	}

	first, err := svc.CalculateStationaryCombustion(context.Background(), req)
	assert.NoError(t, err)
	second, err := svc.CalculateStationaryCombustion(context.Background(), req)
	assert.NoError(t, err)

	assert.Equal(t, first.TotalCO2e, second.TotalCO2e)
	assert.Equal(t, first.Calculations[0].CO2Emissions, second.Calculations[0].CO2Emissions)
}

func TestMobileCombustion_DistanceBased(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	result, err := svc.CalculateMobileCombustion(context.Background(), calcdomain.MobileRequest{
		Country: "Ireland",
		Activities: []calcdomain.MobileActivity{
			{
				Method:          calcdomain.MethodDistanceBased,
				FuelType:        "Diesel",
				VehicleCategory: "PASSENGER_CAR",
				VehicleType:     "MEDIUM",
				DistanceKM:      1000,
			},
		},
	})

	assert.NoError(t, err)
	calc := result.VehicleCalculations[0]
	// 1000 km at 6.8 L/100km derives 68 litres of diesel.
	assert.Equal(t, 68.0, calc.Quantity)
	assert.Equal(t, 171.36, calc.CO2Emissions)
	assert.Equal(t, factordomain.DataQualityMedium, calc.DataQuality)
}

func TestMobileCombustion_SpendBasedFlagsLowQuality(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	result, err := svc.CalculateMobileCombustion(context.Background(), calcdomain.MobileRequest{
		Country: "Ireland",
		Activities: []calcdomain.MobileActivity{
			{
				Method:     calcdomain.MethodSpendBased,
				FuelType:   "Diesel",
				TotalSpend: 840,
				Currency:   "EUR",
			},
		},
	})

	assert.NoError(t, err)
	calc := result.VehicleCalculations[0]
	// EUR 840 at 1.68/L derives 500 litres.
	assert.InDelta(t, 500.0, calc.Quantity, 1e-9)
	assert.Equal(t, factordomain.DataQualityLow, calc.DataQuality)
}

func TestFugitiveEmissions_MassBalance(t *testing.T) {
	svc := newTestService(&factorRepoStub{})

	result, err := svc.CalculateFugitiveEmissions(context.Background(), calcdomain.FugitiveRequest{
		Activities: []calcdomain.FugitiveActivity{
			{
				Method:             calcdomain.MethodMassBalance,
				RefrigerantType:    "R-404A",
				BeginningInventory: 10,
				Purchases:          2.5,
				Sales:              0,
				EndingInventory:    10,
			},
		},
	})

	assert.NoError(t, err)
	calc := result.RefrigerantCalculations[0]
	assert.Equal(t, 2.5, calc.Quantity)
	assert.Equal(t, 3943.0, calc.GWP)
	assert.Equal(t, 9857.50, calc.TotalCO2e)
	assert.Equal(t, 9857.50, result.TotalFugitiveEmissions)
}

func TestFugitiveEmissions_UnknownGas(t *testing.T) {
	svc := newTestService(&factorRepoStub{})

	_, err := svc.CalculateFugitiveEmissions(context.Background(), calcdomain.FugitiveRequest{
		Activities: []calcdomain.FugitiveActivity{
			{
				Method:             calcdomain.MethodAssetTracking,
				RefrigerantType:    "R-999X",
				EquipmentCapacity:  50,
				LeakageRatePercent: 5,
			},
		},
	})

	var notFound *calcdomain.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.Equal(t, factordomain.FugitiveEmissions, notFound.SubCategory)
	assert.Equal(t, "R-999X", notFound.FuelType)
}

func TestScope2_LocationBased(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	result, err := svc.CalculateScope2Emissions(context.Background(), calcdomain.Scope2Request{
		Country: "Ireland",
		Method:  "location",
		Activities: []calcdomain.ElectricityActivity{
			{ConsumptionKWh: 280000},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, calcdomain.Scope2LocationBased, result.Method)
	assert.Equal(t, 82880.00, result.TotalScope2Emissions)
}

func TestScope2_MarketBasedWithInstruments(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	result, err := svc.CalculateScope2Emissions(context.Background(), calcdomain.Scope2Request{
		Country: "Ireland",
		Method:  calcdomain.Scope2MarketBased,
		Activities: []calcdomain.ElectricityActivity{
			{
				ConsumptionKWh: 280000,
				Instruments: []calcdomain.ContractualInstrument{
					{Type: "REC", QuantityKWh: 50000, EmissionFactor: 0},
				},
			},
		},
	})

	assert.NoError(t, err)
	// 230 MWh residual at the Irish residual mix of 0.3850.
	assert.Equal(t, 88550.00, result.TotalScope2Emissions)
}

func TestScope2_RejectsUnknownMethod(t *testing.T) {
	svc := newTestService(&factorRepoStub{})

	_, err := svc.CalculateScope2Emissions(context.Background(), calcdomain.Scope2Request{
		Country: "Ireland",
		Method:  "VIBES_BASED",
		Activities: []calcdomain.ElectricityActivity{
			{ConsumptionKWh: 1000},
		},
	})

	var verrs calcdomain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestScope2_RejectsOverContractedInstruments(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	_, err := svc.CalculateScope2Emissions(context.Background(), calcdomain.Scope2Request{
		Country: "Ireland",
		Method:  calcdomain.Scope2MarketBased,
		Activities: []calcdomain.ElectricityActivity{
			{
				ConsumptionKWh: 100000,
				Instruments: []calcdomain.ContractualInstrument{
					{Type: "REC", QuantityKWh: 150000, EmissionFactor: 0},
				},
			},
		},
	})

	var verrs calcdomain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
	assert.Zero(t, repo.calls)
}

func TestComprehensive_FullInventory(t *testing.T) {
	repo := &factorRepoStub{records: irishFactors()}
	svc := newTestService(repo)

	revenue := 5000000.0
	summary, err := svc.CalculateComprehensiveEmissions(context.Background(), calcdomain.ComprehensiveRequest{
		Country:  "Ireland",
		Revenue:  &revenue,
		Currency: "EUR",
		Stationary: []calcdomain.StationaryActivity{
			{FuelType: "Diesel", Quantity: 1000, Unit: "litre"},
		},
		Fugitive: []calcdomain.FugitiveActivity{
			{
				Method:             calcdomain.MethodMassBalance,
				RefrigerantType:    "R-404A",
				BeginningInventory: 10,
				Purchases:          2.5,
				EndingInventory:    10,
			},
		},
		Electricity: []calcdomain.ElectricityActivity{
			{
				ConsumptionKWh: 280000,
				Instruments: []calcdomain.ContractualInstrument{
					{Type: "REC", QuantityKWh: 50000, EmissionFactor: 0},
				},
			},
		},
	})

	assert.NoError(t, err)
	assert.Equal(t, 2543.90, summary.Scope1.Stationary)
	assert.Equal(t, 9857.50, summary.Scope1.Fugitive)
	assert.Equal(t, 12401.40, summary.Scope1.Total)
	assert.Equal(t, 82880.00, summary.Scope2.LocationBased)
	assert.Equal(t, 88550.00, summary.Scope2.MarketBased)
	assert.Equal(t, 95281.40, summary.GrandTotals.LocationBased)
	assert.Equal(t, 100951.40, summary.GrandTotals.MarketBased)
	assert.NotNil(t, summary.Intensity)
	assert.Equal(t, 0.020, summary.Intensity.Value)
}

func TestComprehensive_RequiresCountry(t *testing.T) {
	svc := newTestService(&factorRepoStub{})

	_, err := svc.CalculateComprehensiveEmissions(context.Background(), calcdomain.ComprehensiveRequest{})

	var verrs calcdomain.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}
