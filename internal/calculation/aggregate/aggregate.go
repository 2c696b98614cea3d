// Package aggregate folds per-activity calculation results into scope
// summaries. Sums run at full precision over the exact totals carried on
// each result; rounding happens once, on the displayed figure.
package aggregate

import (
	"time"

	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	"github.com/smallbiznis/carbonledger/internal/calculation/engine"
)

// Input groups tagged calculation results for one reporting run.
type Input struct {
	Country        string
	Stationary     []calcdomain.CalculationResult
	Mobile         []calcdomain.CalculationResult
	Fugitive       []calcdomain.CalculationResult
	Scope2Location []calcdomain.CalculationResult
	Scope2Market   []calcdomain.CalculationResult
}

// Summarize builds the scope summary tree. Scope 2 keeps location-based and
// market-based as parallel figures; the market-based one feeds the combined
// grand total, per the platform's reporting convention.
func Summarize(in Input) *calcdomain.ScopeSummary {
	stationary := exactSum(in.Stationary)
	mobile := exactSum(in.Mobile)
	fugitive := exactSum(in.Fugitive)
	scope1 := stationary + mobile + fugitive

	scope2Location := exactSum(in.Scope2Location)
	scope2Market := exactSum(in.Scope2Market)

	scope1Calcs := make([]calcdomain.CalculationResult, 0, len(in.Stationary)+len(in.Mobile)+len(in.Fugitive))
	scope1Calcs = append(scope1Calcs, in.Stationary...)
	scope1Calcs = append(scope1Calcs, in.Mobile...)
	scope1Calcs = append(scope1Calcs, in.Fugitive...)

	scope2Calcs := make([]calcdomain.CalculationResult, 0, len(in.Scope2Location)+len(in.Scope2Market))
	scope2Calcs = append(scope2Calcs, in.Scope2Location...)
	scope2Calcs = append(scope2Calcs, in.Scope2Market...)

	return &calcdomain.ScopeSummary{
		Country: in.Country,
		Scope1: calcdomain.Scope1Summary{
			Stationary:   engine.Round2(stationary),
			Mobile:       engine.Round2(mobile),
			Fugitive:     engine.Round2(fugitive),
			Total:        engine.Round2(scope1),
			Calculations: scope1Calcs,
		},
		Scope2: calcdomain.Scope2Summary{
			LocationBased: engine.Round2(scope2Location),
			MarketBased:   engine.Round2(scope2Market),
			Calculations:  scope2Calcs,
		},
		Scope3: calcdomain.Scope3Summary{
			Total: 0,
			Note:  "value-chain categories not yet collected",
		},
		GrandTotals: calcdomain.GrandTotals{
			LocationBased: engine.Round2(scope1 + scope2Location),
			MarketBased:   engine.Round2(scope1 + scope2Market),
		},
		GeneratedAt: time.Now().UTC(),
	}
}

// Intensity derives emissions per unit of revenue, rounded to 3 decimals.
// Zero or negative revenue is a guarded precondition, not a NaN.
func Intensity(totalEmissions, revenue float64, currency string) (*calcdomain.EmissionIntensity, error) {
	if revenue <= 0 {
		return nil, &calcdomain.ComputationError{
			Op:     "emission_intensity",
			Reason: "revenue must be greater than zero",
		}
	}
	return &calcdomain.EmissionIntensity{
		Value:    engine.Round3(totalEmissions / revenue),
		Currency: currency,
	}, nil
}

// exactSum folds results at full precision, preferring the exact total a
// result carries over its rounded display value.
func exactSum(results []calcdomain.CalculationResult) float64 {
	var sum float64
	for _, result := range results {
		if result.ExactTotal != 0 {
			sum += result.ExactTotal
			continue
		}
		sum += result.TotalCO2e
	}
	return sum
}
