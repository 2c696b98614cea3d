package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// FindQuery narrows the active-record search. Empty string fields are not
// applied as filters. A zero At means "now".
type FindQuery struct {
	Category        Category
	SubCategory     SubCategory
	FuelType        string
	VehicleCategory string
	Country         string
	At              time.Time
}

type ListQuery struct {
	Category    Category
	SubCategory SubCategory
	FuelType    string
	Country     string
	Active      *bool

	// AfterID and Limit implement cursor paging. A zero Limit disables
	// paging and returns the full set ordered by country and fuel type.
	AfterID snowflake.ID
	Limit   int
}

type Repository interface {
	// FindActive returns active records matching the query whose validity
	// window covers the query instant, ordered by valid_from descending.
	FindActive(ctx context.Context, q FindQuery) ([]EmissionFactorRecord, error)
	// FindByFuelLike matches active records of a category whose fuel type
	// contains the token, case-insensitively.
	FindByFuelLike(ctx context.Context, category Category, token string) ([]EmissionFactorRecord, error)
	Insert(ctx context.Context, record *EmissionFactorRecord) error
	FindByID(ctx context.Context, id snowflake.ID) (*EmissionFactorRecord, error)
	List(ctx context.Context, q ListQuery) ([]EmissionFactorRecord, error)
	Deactivate(ctx context.Context, id snowflake.ID) error
}
