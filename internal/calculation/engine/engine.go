// Package engine implements the GHG arithmetic: pure functions over activity
// quantities and resolved factor values. No repository access, no state.
package engine

import "math"

// IPCC AR5 100-year global warming potentials.
const (
	GWPCH4 = 25.0
	GWPN2O = 298.0
)

// Combustion carries the gas components of one combustion calculation.
// CH4 and N2O are already CO2-equivalent. Exact keeps the unrounded total
// for downstream aggregation.
type Combustion struct {
	CO2     float64
	CH4CO2e float64
	N2OCO2e float64
	Total   float64
	Exact   float64
}

// CalculateCombustion applies the fuel combustion formulas.
//
// CO2 and the total are rounded to 2 decimals. The CH4 and N2O components
// are rounded to 5 decimals: their magnitudes are orders smaller and a
// 2-decimal rounding would zero them out.
func CalculateCombustion(quantity, co2Factor, ch4Factor, n2oFactor float64) Combustion {
	co2 := quantity * co2Factor
	ch4 := quantity * ch4Factor * GWPCH4
	n2o := quantity * n2oFactor * GWPN2O
	exact := co2 + ch4 + n2o
	return Combustion{
		CO2:     Round2(co2),
		CH4CO2e: Round5(ch4),
		N2OCO2e: Round5(n2o),
		Total:   Round2(exact),
		Exact:   exact,
	}
}

// MassBalanceLeak derives refrigerant loss from inventory movement. A
// negative balance means more gas on hand than accounted purchases, which
// cannot be an emission; it clamps to zero.
func MassBalanceLeak(beginning, purchases, sales, ending float64) float64 {
	leak := beginning + purchases - sales - ending
	if leak < 0 {
		return 0
	}
	return leak
}

// AssetTrackingLeak estimates annual loss from installed capacity and a
// leakage rate expressed as a percentage.
func AssetTrackingLeak(capacityKg, leakageRatePercent float64) float64 {
	return capacityKg * leakageRatePercent / 100.0
}

// FugitiveEmissions converts a refrigerant leak directly to CO2e via the
// gas's GWP.
type FugitiveResult struct {
	CO2e  float64
	Exact float64
}

func CalculateFugitive(leakKg, gwp float64) FugitiveResult {
	exact := leakKg * gwp
	return FugitiveResult{CO2e: Round2(exact), Exact: exact}
}

// LocationBasedResult is grid-average scope 2 accounting.
type LocationBasedResult struct {
	Emissions float64
	Exact     float64
}

func CalculateLocationBased(consumptionKWh, gridTotalCO2eFactor float64) LocationBasedResult {
	exact := consumptionKWh * gridTotalCO2eFactor
	return LocationBasedResult{Emissions: Round2(exact), Exact: exact}
}

// MarketBasedResult is contractual-instrument scope 2 accounting: claimed
// energy at each instrument's own factor, the residual at the country's
// residual-mix factor.
type MarketBasedResult struct {
	Emissions           float64
	InstrumentEmissions float64
	ResidualKWh         float64
	Exact               float64
}

type Instrument struct {
	QuantityKWh    float64
	EmissionFactor float64
}

func CalculateMarketBased(consumptionKWh float64, instruments []Instrument, residualMixFactor float64) MarketBasedResult {
	var claimed, instrumentEmissions float64
	for _, inst := range instruments {
		claimed += inst.QuantityKWh
		instrumentEmissions += inst.QuantityKWh * inst.EmissionFactor
	}
	residual := consumptionKWh - claimed
	if residual < 0 {
		residual = 0
	}
	exact := instrumentEmissions + residual*residualMixFactor
	return MarketBasedResult{
		Emissions:           Round2(exact),
		InstrumentEmissions: Round2(instrumentEmissions),
		ResidualKWh:         residual,
		Exact:               exact,
	}
}

func Round2(v float64) float64 { return math.Round(v*100) / 100 }

func Round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func Round5(v float64) float64 { return math.Round(v*100000) / 100000 }
