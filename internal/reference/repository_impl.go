package reference

import (
	"context"
	"strings"

	"github.com/smallbiznis/carbonledger/internal/reference/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) ListCountries(ctx context.Context) ([]domain.Country, error) {
	var countries []domain.Country
	err := r.db.WithContext(ctx).
		Raw(`SELECT code, name, region FROM countries ORDER BY name`).
		Scan(&countries).Error
	if err != nil {
		return nil, err
	}

	return countries, nil
}

func (r *repository) ListFuelTypes(ctx context.Context, category string) ([]domain.FuelType, error) {
	type row struct {
		FuelType string `gorm:"column:fuel_type"`
		Unit     string `gorm:"column:unit"`
		Category string `gorm:"column:category"`
	}

	query := `SELECT DISTINCT fuel_type, unit, category FROM emission_factors WHERE active = ?`
	args := []any{true}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, strings.ToUpper(strings.TrimSpace(category)))
	}
	query += ` ORDER BY fuel_type`

	var rows []row
	err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	fuels := make([]domain.FuelType, 0, len(rows))
	for _, item := range rows {
		fuels = append(fuels, domain.FuelType{
			Name:     item.FuelType,
			Unit:     item.Unit,
			Category: item.Category,
		})
	}

	return fuels, nil
}
