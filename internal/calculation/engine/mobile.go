package engine

import "strings"

// vehicleEfficiency is litres per 100 km by vehicle category, vehicle type
// and fuel. Lookup order: (category, type), then (category, fuel), then the
// category default, then the global default.
var vehicleEfficiency = map[string]map[string]float64{
	"PASSENGER_CAR": {
		"SMALL":  5.5,
		"MEDIUM": 6.8,
		"LARGE":  8.5,
		"SUV":    9.2,
		"Diesel": 6.5,
		"Petrol": 7.2,
		"Hybrid": 5.0,
	},
	"LIGHT_DUTY_TRUCK": {
		"VAN":    9.8,
		"PICKUP": 11.5,
		"Diesel": 9.5,
		"Petrol": 10.5,
	},
	"HEAVY_DUTY_TRUCK": {
		"RIGID":       28.0,
		"ARTICULATED": 34.5,
		"Diesel":      32.0,
	},
	"BUS": {
		"URBAN": 42.0,
		"COACH": 31.0,
		"Diesel": 38.0,
	},
	"MOTORCYCLE": {
		"Petrol": 4.5,
	},
}

var categoryDefaultEfficiency = map[string]float64{
	"PASSENGER_CAR":    7.0,
	"LIGHT_DUTY_TRUCK": 10.0,
	"HEAVY_DUTY_TRUCK": 33.0,
	"BUS":              40.0,
	"MOTORCYCLE":       4.5,
}

// defaultFuelEfficiency is the last-resort consumption assumption.
const defaultFuelEfficiency = 8.0

// FuelEfficiency returns litres per 100 km for a vehicle profile.
func FuelEfficiency(vehicleCategory, vehicleType, fuelType string) float64 {
	category := strings.ToUpper(strings.TrimSpace(vehicleCategory))
	if byType, ok := vehicleEfficiency[category]; ok {
		if v, ok := byType[strings.ToUpper(strings.TrimSpace(vehicleType))]; ok {
			return v
		}
		for key, v := range byType {
			if strings.EqualFold(key, strings.TrimSpace(fuelType)) {
				return v
			}
		}
	}
	if v, ok := categoryDefaultEfficiency[category]; ok {
		return v
	}
	return defaultFuelEfficiency
}

// DistanceBasedQuantity converts a travelled distance to litres of fuel.
func DistanceBasedQuantity(distanceKM, litresPer100KM float64) float64 {
	return distanceKM / 100.0 * litresPer100KM
}

// fuelPrices is the unit fuel price per litre by country. Spend-based
// estimates divide total spend by these values, so the quantity quality is
// only as good as the price assumption; spend-based results are flagged
// lower data quality downstream.
var fuelPrices = map[string]map[string]float64{
	"Ireland": {
		"Diesel":      1.68,
		"Petrol":      1.75,
		"LPG":         1.05,
		"Natural Gas": 1.21,
	},
	"United Kingdom": {
		"Diesel": 1.55,
		"Petrol": 1.47,
		"LPG":    0.92,
	},
	"Germany": {
		"Diesel": 1.72,
		"Petrol": 1.84,
	},
	"France": {
		"Diesel": 1.74,
		"Petrol": 1.88,
	},
}

const defaultPriceCountry = "Ireland"

// defaultFuelPrice backstops fuels with no price entry anywhere.
const defaultFuelPrice = 1.60

// FuelPrice returns the unit price for a fuel in a country, falling back to
// the default-country table and finally a flat default.
func FuelPrice(fuelType, country string) float64 {
	fuel := strings.TrimSpace(fuelType)
	if prices, ok := fuelPrices[strings.TrimSpace(country)]; ok {
		for key, price := range prices {
			if strings.EqualFold(key, fuel) {
				return price
			}
		}
	}
	if prices, ok := fuelPrices[defaultPriceCountry]; ok {
		for key, price := range prices {
			if strings.EqualFold(key, fuel) {
				return price
			}
		}
	}
	return defaultFuelPrice
}

// SpendBasedQuantity converts a fuel spend to litres at the unit price.
func SpendBasedQuantity(totalSpend, unitPrice float64) float64 {
	if unitPrice <= 0 {
		return 0
	}
	return totalSpend / unitPrice
}
