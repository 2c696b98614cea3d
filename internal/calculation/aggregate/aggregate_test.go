package aggregate

import (
	"testing"

	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	"github.com/stretchr/testify/assert"
)

func result(exact float64) calcdomain.CalculationResult {
	return calcdomain.CalculationResult{ExactTotal: exact}
}

func TestSummarize_ScopeTotals(t *testing.T) {
	summary := Summarize(Input{
		Country:        "Ireland",
		Stationary:     []calcdomain.CalculationResult{result(2543.902)},
		Mobile:         []calcdomain.CalculationResult{result(1000.005)},
		Fugitive:       []calcdomain.CalculationResult{result(9857.5)},
		Scope2Location: []calcdomain.CalculationResult{result(82880)},
		Scope2Market:   []calcdomain.CalculationResult{result(88550)},
	})

	assert.Equal(t, 2543.90, summary.Scope1.Stationary)
	assert.Equal(t, 1000.01, summary.Scope1.Mobile)
	assert.Equal(t, 9857.50, summary.Scope1.Fugitive)
	assert.Equal(t, 13401.41, summary.Scope1.Total)
	assert.Equal(t, 82880.00, summary.Scope2.LocationBased)
	assert.Equal(t, 88550.00, summary.Scope2.MarketBased)
	assert.Equal(t, 96281.41, summary.GrandTotals.LocationBased)
	assert.Equal(t, 101951.41, summary.GrandTotals.MarketBased)
}

func TestSummarize_SumsAtFullPrecision(t *testing.T) {
	// Each part rounds down on its own but the pair carries enough exact
	// residue to round the total up. Summing rounded figures would lose it.
	parts := []calcdomain.CalculationResult{result(1.004), result(1.004)}

	summary := Summarize(Input{Country: "Ireland", Stationary: parts})

	assert.Equal(t, 1.00, summary.Scope1.Stationary) // each part displays as 1.00
	assert.Equal(t, 2.01, summary.Scope1.Total)
}

func TestSummarize_FallsBackToRoundedTotal(t *testing.T) {
	// Results built outside the engine may carry only the display value.
	summary := Summarize(Input{
		Country:    "Ireland",
		Stationary: []calcdomain.CalculationResult{{TotalCO2e: 42.42}},
	})

	assert.Equal(t, 42.42, summary.Scope1.Total)
}

func TestSummarize_EmptyInput(t *testing.T) {
	summary := Summarize(Input{Country: "Ireland"})

	assert.Zero(t, summary.Scope1.Total)
	assert.Zero(t, summary.GrandTotals.MarketBased)
	assert.Equal(t, "Ireland", summary.Country)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestIntensity(t *testing.T) {
	intensity, err := Intensity(101951.41, 5000000, "EUR")

	assert.NoError(t, err)
	assert.Equal(t, 0.020, intensity.Value)
	assert.Equal(t, "EUR", intensity.Currency)
}

func TestIntensity_RejectsNonPositiveRevenue(t *testing.T) {
	_, err := Intensity(100, 0, "EUR")

	var compErr *calcdomain.ComputationError
	assert.ErrorAs(t, err, &compErr)
	assert.Equal(t, "emission_intensity", compErr.Op)
}
