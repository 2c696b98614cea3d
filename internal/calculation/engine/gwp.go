package engine

import "strings"

// refrigerantGWP maps gas identities to their IPCC AR5 100-year GWP.
// Fugitive accounting multiplies leaked mass directly by these values
// instead of going through separate CO2/CH4/N2O factors.
var refrigerantGWP = map[string]float64{
	"hfc-134a": 1430,
	"hfc-32":   675,
	"hfc-125":  3500,
	"hfc-143a": 4470,
	"hfc-23":   14800,
	"r-404a":   3943,
	"r-407c":   1774,
	"r-410a":   2088,
	"r-507a":   3985,
	"r-22":     1810,
	"hcfc-22":  1810,
	"co2":      1,
	"r-744":    1,
	"ammonia":  0,
	"r-717":    0,
	"sf6":      22800,
	"methane":  25,
	"ch4":      25,
}

// refrigerantAliases folds trade spellings onto table keys.
var refrigerantAliases = map[string]string{
	"r-134a":          "hfc-134a",
	"r134a":           "hfc-134a",
	"r404a":           "r-404a",
	"r410a":           "r-410a",
	"r407c":           "r-407c",
	"r22":             "r-22",
	"freon-22":        "r-22",
	"carbon dioxide":  "co2",
	"nh3":             "ammonia",
	"sulfur hexafluoride": "sf6",
}

// RefrigerantGWP looks up the warming potential for a gas identity,
// case-insensitively and across known trade names.
func RefrigerantGWP(name string) (float64, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := refrigerantAliases[key]; ok {
		key = canonical
	}
	gwp, ok := refrigerantGWP[key]
	return gwp, ok
}
