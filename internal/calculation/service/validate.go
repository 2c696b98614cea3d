package service

import (
	"fmt"
	"strings"

	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
)

// Validation runs over the entire batch before any factor lookup happens, so
// a malformed request never touches the repository.

func validateStationary(req calcdomain.StationaryRequest) error {
	var errs calcdomain.ValidationErrors
	if strings.TrimSpace(req.Country) == "" {
		errs = append(errs, calcdomain.FieldError{Field: "country", Code: "invalid_country", Message: "country is required"})
	}
	if len(req.Activities) == 0 {
		errs = append(errs, calcdomain.FieldError{Field: "activities", Code: "empty_batch", Message: "at least one activity is required"})
	}
	for i, activity := range req.Activities {
		if strings.TrimSpace(activity.FuelType) == "" {
			errs = append(errs, fieldError(i, "fuel_type", "invalid_fuel_type", "fuel type is required"))
		}
		if activity.Quantity <= 0 {
			errs = append(errs, fieldError(i, "quantity", "invalid_quantity", "quantity must be greater than zero"))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateMobile(req calcdomain.MobileRequest) error {
	var errs calcdomain.ValidationErrors
	if strings.TrimSpace(req.Country) == "" {
		errs = append(errs, calcdomain.FieldError{Field: "country", Code: "invalid_country", Message: "country is required"})
	}
	if len(req.Activities) == 0 {
		errs = append(errs, calcdomain.FieldError{Field: "activities", Code: "empty_batch", Message: "at least one activity is required"})
	}
	for i, activity := range req.Activities {
		if strings.TrimSpace(activity.FuelType) == "" {
			errs = append(errs, fieldError(i, "fuel_type", "invalid_fuel_type", "fuel type is required"))
		}
		switch activity.Method {
		case calcdomain.MethodFuelBased:
			if activity.Quantity <= 0 {
				errs = append(errs, fieldError(i, "quantity", "invalid_quantity", "quantity must be greater than zero"))
			}
		case calcdomain.MethodDistanceBased:
			if activity.DistanceKM <= 0 {
				errs = append(errs, fieldError(i, "distance_km", "invalid_distance", "distance must be greater than zero"))
			}
		case calcdomain.MethodSpendBased:
			if activity.TotalSpend <= 0 {
				errs = append(errs, fieldError(i, "total_spend", "invalid_spend", "spend must be greater than zero"))
			}
		default:
			errs = append(errs, fieldError(i, "method", "invalid_method",
				fmt.Sprintf("unknown calculation method %q", activity.Method)))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateFugitive(req calcdomain.FugitiveRequest) error {
	var errs calcdomain.ValidationErrors
	if len(req.Activities) == 0 {
		errs = append(errs, calcdomain.FieldError{Field: "activities", Code: "empty_batch", Message: "at least one activity is required"})
	}
	for i, activity := range req.Activities {
		if strings.TrimSpace(activity.RefrigerantType) == "" {
			errs = append(errs, fieldError(i, "refrigerant_type", "invalid_refrigerant", "refrigerant type is required"))
		}
		switch activity.Method {
		case calcdomain.MethodMassBalance:
			if activity.BeginningInventory < 0 || activity.Purchases < 0 || activity.Sales < 0 || activity.EndingInventory < 0 {
				errs = append(errs, fieldError(i, "inventory", "invalid_inventory", "inventory quantities must not be negative"))
			}
		case calcdomain.MethodAssetTracking:
			if activity.EquipmentCapacity <= 0 {
				errs = append(errs, fieldError(i, "equipment_capacity", "invalid_capacity", "equipment capacity must be greater than zero"))
			}
			if activity.LeakageRatePercent < 0 || activity.LeakageRatePercent > 100 {
				errs = append(errs, fieldError(i, "leakage_rate_percent", "invalid_leakage_rate", "leakage rate must be between 0 and 100"))
			}
		default:
			errs = append(errs, fieldError(i, "method", "invalid_method",
				fmt.Sprintf("unknown calculation method %q", activity.Method)))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateScope2(req calcdomain.Scope2Request) error {
	var errs calcdomain.ValidationErrors
	if strings.TrimSpace(req.Country) == "" {
		errs = append(errs, calcdomain.FieldError{Field: "country", Code: "invalid_country", Message: "country is required"})
	}
	if len(req.Activities) == 0 {
		errs = append(errs, calcdomain.FieldError{Field: "activities", Code: "empty_batch", Message: "at least one activity is required"})
	}
	for i, activity := range req.Activities {
		if activity.ConsumptionKWh <= 0 {
			errs = append(errs, fieldError(i, "consumption_kwh", "invalid_consumption", "consumption must be greater than zero"))
		}
		var contracted float64
		for j, inst := range activity.Instruments {
			if inst.QuantityKWh <= 0 {
				errs = append(errs, calcdomain.FieldError{
					Field:   fmt.Sprintf("activities[%d].instruments[%d].quantity_kwh", i, j),
					Code:    "invalid_instrument_quantity",
					Message: "instrument quantity must be greater than zero",
				})
				continue
			}
			if inst.EmissionFactor < 0 {
				errs = append(errs, calcdomain.FieldError{
					Field:   fmt.Sprintf("activities[%d].instruments[%d].emission_factor", i, j),
					Code:    "invalid_instrument_factor",
					Message: "instrument emission factor must not be negative",
				})
			}
			contracted += inst.QuantityKWh
		}
		if contracted > activity.ConsumptionKWh {
			errs = append(errs, fieldError(i, "instruments", "instruments_exceed_consumption",
				"contracted instrument volume exceeds total consumption"))
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func fieldError(index int, field, code, message string) calcdomain.FieldError {
	return calcdomain.FieldError{
		Field:   fmt.Sprintf("activities[%d].%s", index, field),
		Code:    code,
		Message: message,
	}
}
