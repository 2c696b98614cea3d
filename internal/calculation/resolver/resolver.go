// Package resolver turns a (category, sub-category, fuel, country) query
// into the single best-matching emission factor record, trying progressively
// looser strategies until one yields a hit.
package resolver

import (
	"context"
	"strings"

	"github.com/smallbiznis/carbonledger/internal/cache"
	calcdomain "github.com/smallbiznis/carbonledger/internal/calculation/domain"
	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Query struct {
	Category        factordomain.Category
	SubCategory     factordomain.SubCategory
	FuelType        string
	Country         string
	VehicleCategory string
}

type Resolver struct {
	log    *zap.Logger
	repo   factordomain.Repository
	config func() Config
	cache  cache.FactorResolverCache
}

type Param struct {
	fx.In

	Log    *zap.Logger
	Repo   factordomain.Repository
	Holder *ConfigHolder
	Cache  cache.FactorResolverCache `optional:"true"`
}

func New(p Param) *Resolver {
	return &Resolver{
		log:    p.Log.Named("calculation.resolver"),
		repo:   p.Repo,
		config: p.Holder.Get,
		cache:  p.Cache,
	}
}

// NewWithConfig builds a resolver over a fixed configuration. Tests use it to
// avoid the file-backed holder.
func NewWithConfig(log *zap.Logger, repo factordomain.Repository, cfg Config) *Resolver {
	return &Resolver{
		log:    log.Named("calculation.resolver"),
		repo:   repo,
		config: func() Config { return cfg },
	}
}

// Resolve runs the ordered lookup strategies, first hit wins:
//
//  1. exact match with the vehicle discriminator (mobile combustion only)
//  2. geographic fallback over the country chain and fuel aliases
//  3. category-only broadening, ignoring sub-category and geography
//  4. fuzzy match on the first token of the fuel name
//
// Within a strategy the repository orders by valid_from descending, so the
// most recently valid record wins. Exhausting all strategies returns a typed
// NotFoundError carrying the requested tuple.
func (r *Resolver) Resolve(ctx context.Context, q Query) (*factordomain.EmissionFactorRecord, error) {
	key := r.cacheKey(q)
	if r.cache != nil {
		if cached, ok := r.cache.Get(key); ok {
			return &cached, nil
		}
	}

	record, err := r.resolveUncached(ctx, q)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.Set(key, *record)
	}
	return record, nil
}

func (r *Resolver) resolveUncached(ctx context.Context, q Query) (*factordomain.EmissionFactorRecord, error) {
	cfg := r.config()
	aliases := cfg.AliasesFor(q.FuelType)
	countries := cfg.CountryChain(q.Country)

	if q.SubCategory == factordomain.MobileCombustion && q.VehicleCategory != "" {
		record, err := r.searchChain(ctx, q, aliases, countries, q.VehicleCategory)
		if err != nil {
			return nil, err
		}
		if record != nil {
			return record, nil
		}
	}

	record, err := r.searchChain(ctx, q, aliases, countries, "")
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record, err = r.searchCategoryOnly(ctx, q, aliases)
	if err != nil {
		return nil, err
	}
	if record != nil {
		return record, nil
	}

	record, err = r.searchFuzzy(ctx, q)
	if err != nil {
		return nil, err
	}
	if record != nil {
		r.log.Debug("factor resolved by fuzzy match",
			zap.String("fuel_type", q.FuelType),
			zap.String("matched", record.FuelType),
		)
		return record, nil
	}

	return nil, &calcdomain.NotFoundError{
		Category:    q.Category,
		SubCategory: q.SubCategory,
		FuelType:    q.FuelType,
		Country:     q.Country,
	}
}

func (r *Resolver) cacheKey(q Query) cache.FactorKey {
	return cache.FactorKey{
		Category:        string(q.Category),
		SubCategory:     string(q.SubCategory),
		FuelType:        strings.ToLower(strings.TrimSpace(q.FuelType)),
		VehicleCategory: q.VehicleCategory,
		Country:         strings.ToLower(strings.TrimSpace(q.Country)),
	}
}

func (r *Resolver) searchChain(ctx context.Context, q Query, aliases, countries []string, vehicleCategory string) (*factordomain.EmissionFactorRecord, error) {
	for _, fuel := range aliases {
		for _, country := range countries {
			records, err := r.repo.FindActive(ctx, factordomain.FindQuery{
				Category:        q.Category,
				SubCategory:     q.SubCategory,
				FuelType:        fuel,
				VehicleCategory: vehicleCategory,
				Country:         country,
			})
			if err != nil {
				return nil, err
			}
			if len(records) > 0 {
				return &records[0], nil
			}
		}
	}
	return nil, nil
}

func (r *Resolver) searchCategoryOnly(ctx context.Context, q Query, aliases []string) (*factordomain.EmissionFactorRecord, error) {
	for _, fuel := range aliases {
		records, err := r.repo.FindActive(ctx, factordomain.FindQuery{
			Category: q.Category,
			FuelType: fuel,
		})
		if err != nil {
			return nil, err
		}
		if len(records) > 0 {
			return &records[0], nil
		}
	}
	return nil, nil
}

func (r *Resolver) searchFuzzy(ctx context.Context, q Query) (*factordomain.EmissionFactorRecord, error) {
	token := firstToken(q.FuelType)
	if token == "" {
		return nil, nil
	}
	records, err := r.repo.FindByFuelLike(ctx, q.Category, token)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	best := records[0]
	for _, record := range records[1:] {
		if record.ValidFrom.After(best.ValidFrom) {
			best = record
		}
	}
	return &best, nil
}

func firstToken(fuelType string) string {
	fields := strings.Fields(strings.TrimSpace(fuelType))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
