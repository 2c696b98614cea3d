package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) factordomain.Repository {
	return &repo{db: db}
}

func (r *repo) FindActive(ctx context.Context, q factordomain.FindQuery) ([]factordomain.EmissionFactorRecord, error) {
	at := q.At
	if at.IsZero() {
		at = time.Now().UTC()
	}

	stmt := r.db.WithContext(ctx).
		Model(&factordomain.EmissionFactorRecord{}).
		Where("active = ?", true).
		Where("category = ?", q.Category).
		Where("valid_from <= ? AND valid_to >= ?", at, at)

	if q.SubCategory != "" {
		stmt = stmt.Where("sub_category = ?", q.SubCategory)
	}
	if q.FuelType != "" {
		stmt = stmt.Where("LOWER(fuel_type) = ?", strings.ToLower(q.FuelType))
	}
	if q.VehicleCategory != "" {
		stmt = stmt.Where("vehicle_category = ?", q.VehicleCategory)
	}
	if q.Country != "" {
		stmt = stmt.Where("LOWER(country) = ?", strings.ToLower(q.Country))
	}

	var records []factordomain.EmissionFactorRecord
	if err := stmt.Order("valid_from DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) FindByFuelLike(ctx context.Context, category factordomain.Category, token string) ([]factordomain.EmissionFactorRecord, error) {
	now := time.Now().UTC()
	var records []factordomain.EmissionFactorRecord
	err := r.db.WithContext(ctx).
		Model(&factordomain.EmissionFactorRecord{}).
		Where("active = ?", true).
		Where("category = ?", category).
		Where("valid_from <= ? AND valid_to >= ?", now, now).
		Where("LOWER(fuel_type) LIKE ?", "%"+strings.ToLower(token)+"%").
		Order("valid_from DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Insert(ctx context.Context, record *factordomain.EmissionFactorRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*factordomain.EmissionFactorRecord, error) {
	var record factordomain.EmissionFactorRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *repo) List(ctx context.Context, q factordomain.ListQuery) ([]factordomain.EmissionFactorRecord, error) {
	stmt := r.db.WithContext(ctx).Model(&factordomain.EmissionFactorRecord{})

	if q.Category != "" {
		stmt = stmt.Where("category = ?", q.Category)
	}
	if q.SubCategory != "" {
		stmt = stmt.Where("sub_category = ?", q.SubCategory)
	}
	if q.FuelType != "" {
		stmt = stmt.Where("LOWER(fuel_type) = ?", strings.ToLower(q.FuelType))
	}
	if q.Country != "" {
		stmt = stmt.Where("LOWER(country) = ?", strings.ToLower(q.Country))
	}
	if q.Active != nil {
		stmt = stmt.Where("active = ?", *q.Active)
	}

	if q.Limit > 0 {
		if q.AfterID != 0 {
			stmt = stmt.Where("id < ?", q.AfterID)
		}
		stmt = stmt.Order("id DESC").Limit(q.Limit)
	} else {
		stmt = stmt.Order("country ASC, fuel_type ASC, valid_from DESC")
	}

	var records []factordomain.EmissionFactorRecord
	err := stmt.Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) Deactivate(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).
		Model(&factordomain.EmissionFactorRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": false, "updated_at": time.Now().UTC()}).Error
}
