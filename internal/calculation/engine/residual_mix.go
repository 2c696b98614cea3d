package engine

import "strings"

// residualMix is the kg CO2e per kWh of electricity remaining after
// contractually claimed renewables are excluded, per country. A separate
// table from the location-based grid factor: the residual mix reflects
// energy already claimed by others' instruments, so it sits above the grid
// average in most markets.
var residualMix = map[string]float64{
	"Ireland":        0.3850,
	"United Kingdom": 0.2840,
	"Germany":        0.5130,
	"France":         0.0630,
	"Spain":          0.3270,
	"Netherlands":    0.4520,
	"European Union": 0.4059,
}

// defaultResidualMix is the European total supplier mix fallback.
const defaultResidualMix = 0.4059

// ResidualMixFactor returns the residual-mix factor for a country. The
// second return reports whether a country-specific entry existed.
func ResidualMixFactor(country string) (float64, bool) {
	trimmed := strings.TrimSpace(country)
	for key, factor := range residualMix {
		if strings.EqualFold(key, trimmed) {
			return factor, true
		}
	}
	return defaultResidualMix, false
}
