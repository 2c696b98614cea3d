package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/carbonledger/internal/cache"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"github.com/smallbiznis/carbonledger/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const gwpCH4 = 25.0
const gwpN2O = 298.0

const (
	defaultPageSize = 50
	maxPageSize     = 250
)

type Service struct {
	log         *zap.Logger
	genID       *snowflake.Node
	repo        factordomain.Repository
	factorCache cache.FactorResolverCache
}

type ServiceParam struct {
	fx.In

	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        factordomain.Repository
	FactorCache cache.FactorResolverCache `optional:"true"`
}

func NewService(p ServiceParam) factordomain.Service {
	return &Service{
		log:         p.Log.Named("emissionfactor.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		factorCache: p.FactorCache,
	}
}

func (s *Service) Import(ctx context.Context, req factordomain.ImportRequest) (*factordomain.EmissionFactorRecord, error) {
	if err := validateImport(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	publishedAt := now
	if req.PublishedAt != nil {
		publishedAt = req.PublishedAt.UTC()
	}

	total := req.CO2Factor + req.CH4Factor*gwpCH4 + req.N2OFactor*gwpN2O
	if req.TotalCO2eFactor != nil {
		total = *req.TotalCO2eFactor
	}

	version, err := s.nextVersion(ctx, req)
	if err != nil {
		return nil, err
	}

	record := &factordomain.EmissionFactorRecord{
		ID:              s.genID.Generate(),
		Category:        req.Category,
		SubCategory:     req.SubCategory,
		FuelType:        strings.TrimSpace(req.FuelType),
		VehicleCategory: req.VehicleCategory,
		Country:         strings.TrimSpace(req.Country),
		Unit:            strings.TrimSpace(req.Unit),
		CO2Factor:       req.CO2Factor,
		CH4Factor:       req.CH4Factor,
		N2OFactor:       req.N2OFactor,
		TotalCO2eFactor: total,
		Uncertainty:     req.Uncertainty,
		DataQuality:     normalizeQuality(req.DataQuality),
		Source:          strings.TrimSpace(req.Source),
		Version:         version,
		PublishedAt:     publishedAt,
		ValidFrom:       req.ValidFrom.UTC(),
		ValidTo:         req.ValidTo.UTC(),
		Active:          true,
		Metadata:        datatypes.JSONMap(req.Metadata),
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return nil, err
	}

	if s.factorCache != nil {
		s.factorCache.Purge()
	}

	s.log.Info("emission factor imported",
		zap.String("category", string(record.Category)),
		zap.String("sub_category", string(record.SubCategory)),
		zap.String("fuel_type", record.FuelType),
		zap.String("country", record.Country),
		zap.Int32("version", record.Version),
	)
	return record, nil
}

func (s *Service) List(ctx context.Context, req factordomain.ListRequest) (*factordomain.ListResult, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var afterID snowflake.ID
	if req.PageToken != "" {
		cursor, err := pagination.DecodeCursor(req.PageToken)
		if err != nil {
			return nil, factordomain.ErrInvalidPageToken
		}
		if cursor.ID != "" {
			afterID, err = parseID(cursor.ID)
			if err != nil {
				return nil, factordomain.ErrInvalidPageToken
			}
		}
	}

	records, err := s.repo.List(ctx, factordomain.ListQuery{
		Category:    factordomain.Category(strings.ToUpper(strings.TrimSpace(req.Category))),
		SubCategory: factordomain.SubCategory(strings.ToUpper(strings.TrimSpace(req.SubCategory))),
		FuelType:    strings.TrimSpace(req.FuelType),
		Country:     strings.TrimSpace(req.Country),
		Active:      req.Active,
		AfterID:     afterID,
		Limit:       pageSize + 1,
	})
	if err != nil {
		return nil, err
	}

	result := &factordomain.ListResult{}
	result.HasMore = len(records) > pageSize
	if result.HasMore {
		records = records[:pageSize]
		token, err := pagination.EncodeCursor(pagination.Cursor{ID: records[len(records)-1].ID.String()})
		if err != nil {
			return nil, err
		}
		result.NextPageToken = token
	}
	result.Items = records
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*factordomain.EmissionFactorRecord, error) {
	parsed, err := parseID(id)
	if err != nil {
		return nil, factordomain.ErrInvalidID
	}
	record, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, factordomain.ErrNotFound
	}
	return record, nil
}

func (s *Service) Deactivate(ctx context.Context, id string) error {
	parsed, err := parseID(id)
	if err != nil {
		return factordomain.ErrInvalidID
	}
	record, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return err
	}
	if record == nil {
		return factordomain.ErrNotFound
	}
	if err := s.repo.Deactivate(ctx, parsed); err != nil {
		return err
	}
	if s.factorCache != nil {
		s.factorCache.Purge()
	}
	return nil
}

// nextVersion derives the version for a new record from the highest version
// already published in its (category, sub_category, fuel_type, country) group.
func (s *Service) nextVersion(ctx context.Context, req factordomain.ImportRequest) (int32, error) {
	existing, err := s.repo.List(ctx, factordomain.ListQuery{
		Category:    req.Category,
		SubCategory: req.SubCategory,
		FuelType:    strings.TrimSpace(req.FuelType),
		Country:     strings.TrimSpace(req.Country),
	})
	if err != nil {
		return 0, err
	}
	var highest int32
	for _, record := range existing {
		if record.Version > highest {
			highest = record.Version
		}
	}
	return highest + 1, nil
}

func validateImport(req factordomain.ImportRequest) error {
	if !validCategory(req.Category) {
		return factordomain.ErrInvalidCategory
	}
	if !validSubCategory(req.SubCategory) {
		return factordomain.ErrInvalidSubCategory
	}
	if strings.TrimSpace(req.FuelType) == "" {
		return factordomain.ErrInvalidFuelType
	}
	if strings.TrimSpace(req.Country) == "" {
		return factordomain.ErrInvalidCountry
	}
	if strings.TrimSpace(req.Unit) == "" {
		return factordomain.ErrInvalidUnit
	}
	if strings.TrimSpace(req.Source) == "" {
		return factordomain.ErrInvalidSource
	}
	if req.CO2Factor < 0 || req.CH4Factor < 0 || req.N2OFactor < 0 {
		return factordomain.ErrInvalidFactor
	}
	if req.TotalCO2eFactor != nil && *req.TotalCO2eFactor < 0 {
		return factordomain.ErrInvalidFactor
	}
	if req.ValidFrom.IsZero() || req.ValidTo.IsZero() || !req.ValidTo.After(req.ValidFrom) {
		return factordomain.ErrInvalidValidity
	}
	return nil
}

func validCategory(c factordomain.Category) bool {
	switch c {
	case factordomain.Scope1, factordomain.Scope2, factordomain.Scope3:
		return true
	default:
		return false
	}
}

func validSubCategory(c factordomain.SubCategory) bool {
	switch c {
	case factordomain.StationaryCombustion,
		factordomain.MobileCombustion,
		factordomain.FugitiveEmissions,
		factordomain.GridElectricity,
		factordomain.DistrictHeating,
		factordomain.BusinessTravel:
		return true
	default:
		return false
	}
}

func normalizeQuality(q factordomain.DataQuality) factordomain.DataQuality {
	switch q {
	case factordomain.DataQualityHigh, factordomain.DataQualityMedium, factordomain.DataQualityLow:
		return q
	default:
		return factordomain.DataQualityMedium
	}
}

func parseID(raw string) (snowflake.ID, error) {
	value, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, err
	}
	return snowflake.ID(value), nil
}
