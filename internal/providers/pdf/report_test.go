package pdf

import (
	"context"
	"io"
	"testing"
	"time"

	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateEmissionsReport(t *testing.T) {
	provider := New()

	intensity := &calcdomain.EmissionIntensity{Value: 0.020, Currency: "EUR"}
	data := ReportData{
		Organization:    "Acme Manufacturing Ltd",
		ReportingPeriod: "FY2025",
		Summary: calcdomain.ScopeSummary{
			Country: "Ireland",
			Scope1: calcdomain.Scope1Summary{
				Stationary: 2543.90,
				Mobile:     171.36,
				Fugitive:   9857.50,
				Total:      12572.76,
				Calculations: []calcdomain.CalculationResult{
					{
						FuelType:    "Diesel",
						Quantity:    1000,
						Unit:        "litre",
						Scope:       factordomain.Scope1,
						SubCategory: factordomain.StationaryCombustion,
						TotalCO2e:   2543.90,
						Factor:      &calcdomain.FactorSnapshot{Source: "SEAI 2024"},
					},
				},
			},
			Scope2: calcdomain.Scope2Summary{
				LocationBased: 82880.00,
				MarketBased:   88550.00,
			},
			GrandTotals: calcdomain.GrandTotals{
				LocationBased: 95452.76,
				MarketBased:   101122.76,
			},
			Intensity:   intensity,
			GeneratedAt: time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC),
		},
	}

	reader, err := provider.GenerateEmissionsReport(context.Background(), data)
	assert.NoError(t, err)
	assert.NotNil(t, reader)

	payload, err := io.ReadAll(reader)
	assert.NoError(t, err)
	assert.NotEmpty(t, payload)
	assert.Equal(t, "%PDF", string(payload[:4]))
}

func TestNoOpProvider(t *testing.T) {
	provider := &NoOpProvider{}
	reader, err := provider.GenerateEmissionsReport(context.Background(), ReportData{})
	assert.NoError(t, err)
	assert.Nil(t, reader)
}
