package domain

import (
	"fmt"
	"strings"

	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
)

// FieldError names one offending input field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationErrors rejects malformed or out-of-range input. It is raised
// before any repository access.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation error"
	}
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func NewValidationError(field, code, message string) ValidationErrors {
	return ValidationErrors{{Field: field, Code: code, Message: message}}
}

// NotFoundError reports that no emission factor could be resolved after
// every fallback strategy was exhausted. It carries the requested tuple so
// the missing reference data can be identified without re-deriving it.
type NotFoundError struct {
	Category    factordomain.Category
	SubCategory factordomain.SubCategory
	FuelType    string
	Country     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no active emission factor for category=%s sub_category=%s fuel_type=%q country=%q",
		e.Category, e.SubCategory, e.FuelType, e.Country)
}

// ComputationError guards arithmetic preconditions (zero revenue for
// intensity and the like) instead of letting NaN or Inf escape.
type ComputationError struct {
	Op     string
	Reason string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("computation error in %s: %s", e.Op, e.Reason)
}
