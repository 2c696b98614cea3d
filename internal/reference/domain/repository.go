package domain

import "context"

type Repository interface {
	ListCountries(ctx context.Context) ([]Country, error)
	ListFuelTypes(ctx context.Context, category string) ([]FuelType, error)
}
