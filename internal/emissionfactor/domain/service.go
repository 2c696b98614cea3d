package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/carbonledger/pkg/db/pagination"
)

type Service interface {
	Import(ctx context.Context, req ImportRequest) (*EmissionFactorRecord, error)
	List(ctx context.Context, req ListRequest) (*ListResult, error)
	GetByID(ctx context.Context, id string) (*EmissionFactorRecord, error)
	Deactivate(ctx context.Context, id string) error
}

type ImportRequest struct {
	Category        Category       `json:"category"`
	SubCategory     SubCategory    `json:"sub_category"`
	FuelType        string         `json:"fuel_type"`
	VehicleCategory *string        `json:"vehicle_category"`
	Country         string         `json:"country"`
	Unit            string         `json:"unit"`
	CO2Factor       float64        `json:"co2_factor"`
	CH4Factor       float64        `json:"ch4_factor"`
	N2OFactor       float64        `json:"n2o_factor"`
	TotalCO2eFactor *float64       `json:"total_co2e_factor"`
	Uncertainty     float64        `json:"uncertainty"`
	DataQuality     DataQuality    `json:"data_quality"`
	Source          string         `json:"source"`
	PublishedAt     *time.Time     `json:"published_at"`
	ValidFrom       time.Time      `json:"valid_from"`
	ValidTo         time.Time      `json:"valid_to"`
	Metadata        map[string]any `json:"metadata"`
}

type ListRequest struct {
	Category    string `form:"category"`
	SubCategory string `form:"sub_category"`
	FuelType    string `form:"fuel_type"`
	Country     string `form:"country"`
	Active      *bool  `form:"active"`
	pagination.Pagination
}

type ListResult struct {
	Items []EmissionFactorRecord `json:"items"`
	pagination.PageInfo
}

var (
	ErrInvalidCategory    = errors.New("invalid_category")
	ErrInvalidSubCategory = errors.New("invalid_sub_category")
	ErrInvalidFuelType    = errors.New("invalid_fuel_type")
	ErrInvalidCountry     = errors.New("invalid_country")
	ErrInvalidUnit        = errors.New("invalid_unit")
	ErrInvalidFactor      = errors.New("invalid_factor")
	ErrInvalidValidity    = errors.New("invalid_validity_window")
	ErrInvalidSource      = errors.New("invalid_source")
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidPageToken   = errors.New("invalid_page_token")
	ErrNotFound           = errors.New("not_found")
)
