package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/carbonledger/internal/calculation/aggregate"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	"github.com/smallbiznis/carbonledger/internal/calculation/engine"
	"github.com/smallbiznis/carbonledger/internal/calculation/resolver"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	obsmetrics "github.com/smallbiznis/carbonledger/internal/observability/metrics"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Service orchestrates resolution, calculation and aggregation. It holds no
// per-request state: every call is a single pass of repository reads followed
// by pure arithmetic, and any failure aborts the whole batch.
type Service struct {
	log      *zap.Logger
	resolver *resolver.Resolver
	metrics  *obsmetrics.Metrics
}

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Resolver *resolver.Resolver
	Metrics  *obsmetrics.Metrics `optional:"true"`
}

func NewService(p ServiceParam) calcdomain.Service {
	return &Service{
		log:      p.Log.Named("calculation.service"),
		resolver: p.Resolver,
		metrics:  p.Metrics,
	}
}

func (s *Service) CalculateStationaryCombustion(ctx context.Context, req calcdomain.StationaryRequest) (*calcdomain.StationaryResult, error) {
	if err := validateStationary(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	calculations := make([]calcdomain.CalculationResult, 0, len(req.Activities))
	var exactTotal float64

	for _, activity := range req.Activities {
		record, err := s.resolve(ctx, resolver.Query{
			Category:    factordomain.Scope1,
			SubCategory: factordomain.StationaryCombustion,
			FuelType:    activity.FuelType,
			Country:     req.Country,
		})
		if err != nil {
			return nil, err
		}

		combustion := engine.CalculateCombustion(activity.Quantity, record.CO2Factor, record.CH4Factor, record.N2OFactor)
		calculations = append(calculations, calcdomain.CalculationResult{
			FuelType:     activity.FuelType,
			Quantity:     activity.Quantity,
			Unit:         unitOrRecord(activity.Unit, record.Unit),
			Facility:     activity.Facility,
			Scope:        factordomain.Scope1,
			SubCategory:  factordomain.StationaryCombustion,
			Method:       calcdomain.MethodFuelBased,
			CO2Emissions: combustion.CO2,
			CH4Emissions: combustion.CH4CO2e,
			N2OEmissions: combustion.N2OCO2e,
			TotalCO2e:    combustion.Total,
			Factor:       snapshot(record),
			DataQuality:  record.DataQuality,
			CalculatedAt: now,
			ExactTotal:   combustion.Exact,
		})
		exactTotal += combustion.Exact
	}

	s.count(ctx, "stationary")
	return &calcdomain.StationaryResult{
		Calculations: calculations,
		TotalCO2e:    engine.Round2(exactTotal),
	}, nil
}

func (s *Service) CalculateMobileCombustion(ctx context.Context, req calcdomain.MobileRequest) (*calcdomain.MobileResult, error) {
	if err := validateMobile(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	calculations := make([]calcdomain.CalculationResult, 0, len(req.Activities))
	var exactTotal float64

	for _, activity := range req.Activities {
		quantity, quality := deriveMobileQuantity(activity, req.Country)

		record, err := s.resolve(ctx, resolver.Query{
			Category:        factordomain.Scope1,
			SubCategory:     factordomain.MobileCombustion,
			FuelType:        activity.FuelType,
			Country:         req.Country,
			VehicleCategory: activity.VehicleCategory,
		})
		if err != nil {
			return nil, err
		}

		combustion := engine.CalculateCombustion(quantity, record.CO2Factor, record.CH4Factor, record.N2OFactor)
		if record.DataQuality == factordomain.DataQualityLow {
			quality = factordomain.DataQualityLow
		}
		calculations = append(calculations, calcdomain.CalculationResult{
			FuelType:     activity.FuelType,
			Quantity:     quantity,
			Unit:         unitOrRecord(activity.Unit, record.Unit),
			Scope:        factordomain.Scope1,
			SubCategory:  factordomain.MobileCombustion,
			Method:       activity.Method,
			CO2Emissions: combustion.CO2,
			CH4Emissions: combustion.CH4CO2e,
			N2OEmissions: combustion.N2OCO2e,
			TotalCO2e:    combustion.Total,
			Factor:       snapshot(record),
			DataQuality:  quality,
			CalculatedAt: now,
			ExactTotal:   combustion.Exact,
		})
		exactTotal += combustion.Exact
	}

	s.count(ctx, "mobile")
	return &calcdomain.MobileResult{
		VehicleCalculations:  calculations,
		TotalMobileEmissions: engine.Round2(exactTotal),
	}, nil
}

func (s *Service) CalculateFugitiveEmissions(ctx context.Context, req calcdomain.FugitiveRequest) (*calcdomain.FugitiveResult, error) {
	if err := validateFugitive(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	calculations := make([]calcdomain.CalculationResult, 0, len(req.Activities))
	var exactTotal float64

	for _, activity := range req.Activities {
		gwp, ok := engine.RefrigerantGWP(activity.RefrigerantType)
		if !ok {
			s.metrics.RecordFactorMiss(ctx)
			return nil, &calcdomain.NotFoundError{
				Category:    factordomain.Scope1,
				SubCategory: factordomain.FugitiveEmissions,
				FuelType:    activity.RefrigerantType,
			}
		}

		var leak float64
		switch activity.Method {
		case calcdomain.MethodMassBalance:
			leak = engine.MassBalanceLeak(activity.BeginningInventory, activity.Purchases, activity.Sales, activity.EndingInventory)
		case calcdomain.MethodAssetTracking:
			leak = engine.AssetTrackingLeak(activity.EquipmentCapacity, activity.LeakageRatePercent)
		}

		fugitive := engine.CalculateFugitive(leak, gwp)
		calculations = append(calculations, calcdomain.CalculationResult{
			FuelType:     activity.RefrigerantType,
			Quantity:     leak,
			Unit:         "kg",
			Facility:     activity.Facility,
			Scope:        factordomain.Scope1,
			SubCategory:  factordomain.FugitiveEmissions,
			Method:       activity.Method,
			CO2Emissions: fugitive.CO2e,
			TotalCO2e:    fugitive.CO2e,
			GWP:          gwp,
			CalculatedAt: now,
			ExactTotal:   fugitive.Exact,
		})
		exactTotal += fugitive.Exact
	}

	s.count(ctx, "fugitive")
	return &calcdomain.FugitiveResult{
		RefrigerantCalculations: calculations,
		TotalFugitiveEmissions:  engine.Round2(exactTotal),
	}, nil
}

func (s *Service) CalculateScope2Emissions(ctx context.Context, req calcdomain.Scope2Request) (*calcdomain.Scope2Result, error) {
	method, err := normalizeScope2Method(req.Method)
	if err != nil {
		return nil, err
	}
	if err := validateScope2(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	calculations := make([]calcdomain.CalculationResult, 0, len(req.Activities))
	var exactTotal float64

	for _, activity := range req.Activities {
		var result calcdomain.CalculationResult
		switch method {
		case calcdomain.Scope2LocationBased:
			result, err = s.locationBased(ctx, req.Country, activity, now)
		case calcdomain.Scope2MarketBased:
			result, err = s.marketBased(req.Country, activity, now)
		}
		if err != nil {
			return nil, err
		}
		calculations = append(calculations, result)
		exactTotal += result.ExactTotal
	}

	s.count(ctx, "scope2")
	return &calcdomain.Scope2Result{
		Method:               method,
		Calculations:         calculations,
		TotalScope2Emissions: engine.Round2(exactTotal),
	}, nil
}

func (s *Service) CalculateComprehensiveEmissions(ctx context.Context, req calcdomain.ComprehensiveRequest) (*calcdomain.ScopeSummary, error) {
	if strings.TrimSpace(req.Country) == "" {
		return nil, calcdomain.NewValidationError("country", "invalid_country", "country is required")
	}

	var stationary, mobile, fugitive []calcdomain.CalculationResult

	if len(req.Stationary) > 0 {
		result, err := s.CalculateStationaryCombustion(ctx, calcdomain.StationaryRequest{
			Country:    req.Country,
			Activities: req.Stationary,
		})
		if err != nil {
			return nil, err
		}
		stationary = result.Calculations
	}

	if len(req.Mobile) > 0 {
		result, err := s.CalculateMobileCombustion(ctx, calcdomain.MobileRequest{
			Country:    req.Country,
			Activities: req.Mobile,
		})
		if err != nil {
			return nil, err
		}
		mobile = result.VehicleCalculations
	}

	if len(req.Fugitive) > 0 {
		result, err := s.CalculateFugitiveEmissions(ctx, calcdomain.FugitiveRequest{
			Activities: req.Fugitive,
		})
		if err != nil {
			return nil, err
		}
		fugitive = result.RefrigerantCalculations
	}

	var scope2Location, scope2Market []calcdomain.CalculationResult
	if len(req.Electricity) > 0 {
		location, err := s.CalculateScope2Emissions(ctx, calcdomain.Scope2Request{
			Country:    req.Country,
			Method:     calcdomain.Scope2LocationBased,
			Activities: req.Electricity,
		})
		if err != nil {
			return nil, err
		}
		scope2Location = location.Calculations

		market, err := s.CalculateScope2Emissions(ctx, calcdomain.Scope2Request{
			Country:    req.Country,
			Method:     calcdomain.Scope2MarketBased,
			Activities: req.Electricity,
		})
		if err != nil {
			return nil, err
		}
		scope2Market = market.Calculations
	}

	summary := aggregate.Summarize(aggregate.Input{
		Country:        req.Country,
		Stationary:     stationary,
		Mobile:         mobile,
		Fugitive:       fugitive,
		Scope2Location: scope2Location,
		Scope2Market:   scope2Market,
	})

	if req.Revenue != nil {
		intensity, err := aggregate.Intensity(summary.GrandTotals.MarketBased, *req.Revenue, req.Currency)
		if err != nil {
			return nil, err
		}
		summary.Intensity = intensity
	}

	s.count(ctx, "comprehensive")
	s.log.Info("comprehensive calculation complete",
		zap.String("country", req.Country),
		zap.Float64("scope1_total", summary.Scope1.Total),
		zap.Float64("scope2_location", summary.Scope2.LocationBased),
		zap.Float64("scope2_market", summary.Scope2.MarketBased),
	)
	return summary, nil
}

func (s *Service) locationBased(ctx context.Context, country string, activity calcdomain.ElectricityActivity, now time.Time) (calcdomain.CalculationResult, error) {
	record, err := s.resolve(ctx, resolver.Query{
		Category:    factordomain.Scope2,
		SubCategory: factordomain.GridElectricity,
		FuelType:    "Electricity",
		Country:     country,
	})
	if err != nil {
		return calcdomain.CalculationResult{}, err
	}

	location := engine.CalculateLocationBased(activity.ConsumptionKWh, record.TotalCO2eFactor)
	return calcdomain.CalculationResult{
		FuelType:     "Electricity",
		Quantity:     activity.ConsumptionKWh,
		Unit:         "kWh",
		Facility:     activity.Facility,
		Scope:        factordomain.Scope2,
		SubCategory:  factordomain.GridElectricity,
		CO2Emissions: location.Emissions,
		TotalCO2e:    location.Emissions,
		Factor:       snapshot(record),
		DataQuality:  record.DataQuality,
		CalculatedAt: now,
		ExactTotal:   location.Exact,
	}, nil
}

func (s *Service) marketBased(country string, activity calcdomain.ElectricityActivity, now time.Time) (calcdomain.CalculationResult, error) {
	instruments := make([]engine.Instrument, 0, len(activity.Instruments))
	for _, inst := range activity.Instruments {
		instruments = append(instruments, engine.Instrument{
			QuantityKWh:    inst.QuantityKWh,
			EmissionFactor: inst.EmissionFactor,
		})
	}

	residualFactor, _ := engine.ResidualMixFactor(country)
	market := engine.CalculateMarketBased(activity.ConsumptionKWh, instruments, residualFactor)
	return calcdomain.CalculationResult{
		FuelType:     "Electricity",
		Quantity:     activity.ConsumptionKWh,
		Unit:         "kWh",
		Facility:     activity.Facility,
		Scope:        factordomain.Scope2,
		SubCategory:  factordomain.GridElectricity,
		CO2Emissions: market.Emissions,
		TotalCO2e:    market.Emissions,
		CalculatedAt: now,
		ExactTotal:   market.Exact,
	}, nil
}

func (s *Service) resolve(ctx context.Context, q resolver.Query) (*factordomain.EmissionFactorRecord, error) {
	record, err := s.resolver.Resolve(ctx, q)
	if err != nil {
		if _, ok := err.(*calcdomain.NotFoundError); ok {
			s.metrics.RecordFactorMiss(ctx)
			s.log.Warn("emission factor not found",
				zap.String("category", string(q.Category)),
				zap.String("sub_category", string(q.SubCategory)),
				zap.String("fuel_type", q.FuelType),
				zap.String("country", q.Country),
			)
		}
		return nil, err
	}
	return record, nil
}

func (s *Service) count(ctx context.Context, kind string) {
	s.metrics.RecordCalculation(ctx, kind)
}

func snapshot(record *factordomain.EmissionFactorRecord) *calcdomain.FactorSnapshot {
	return &calcdomain.FactorSnapshot{
		CO2Factor:       record.CO2Factor,
		CH4Factor:       record.CH4Factor,
		N2OFactor:       record.N2OFactor,
		TotalCO2eFactor: record.TotalCO2eFactor,
		Unit:            record.Unit,
		Country:         record.Country,
		Source:          record.Source,
		Uncertainty:     record.Uncertainty,
		DataQuality:     record.DataQuality,
	}
}

func unitOrRecord(activityUnit, recordUnit string) string {
	if strings.TrimSpace(activityUnit) != "" {
		return activityUnit
	}
	return recordUnit
}

// deriveMobileQuantity turns the method-specific input into litres of fuel.
// Spend-based derivation is flagged lower data quality: the quantity is only
// as reliable as the assumed unit price.
func deriveMobileQuantity(activity calcdomain.MobileActivity, country string) (float64, factordomain.DataQuality) {
	switch activity.Method {
	case calcdomain.MethodDistanceBased:
		efficiency := engine.FuelEfficiency(activity.VehicleCategory, activity.VehicleType, activity.FuelType)
		return engine.DistanceBasedQuantity(activity.DistanceKM, efficiency), factordomain.DataQualityMedium
	case calcdomain.MethodSpendBased:
		price := engine.FuelPrice(activity.FuelType, country)
		return engine.SpendBasedQuantity(activity.TotalSpend, price), factordomain.DataQualityLow
	default:
		return activity.Quantity, factordomain.DataQualityHigh
	}
}

func normalizeScope2Method(raw calcdomain.Scope2Method) (calcdomain.Scope2Method, error) {
	switch strings.ToUpper(strings.TrimSpace(string(raw))) {
	case "LOCATION", "LOCATION_BASED":
		return calcdomain.Scope2LocationBased, nil
	case "MARKET", "MARKET_BASED":
		return calcdomain.Scope2MarketBased, nil
	default:
		return "", calcdomain.NewValidationError("method", "invalid_method",
			fmt.Sprintf("unknown scope 2 method %q, expected one of: location, market", raw))
	}
}
