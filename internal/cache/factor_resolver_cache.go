package cache

import (
	"time"

	factordomain "github.com/smallbiznis/carbonledger/internal/emissionfactor/domain"
)

const defaultFactorTTL = time.Minute

// FactorKey identifies one resolved factor lookup. Fields mirror the
// resolver query so a cache hit short-circuits the whole strategy chain.
type FactorKey struct {
	Category        string
	SubCategory     string
	FuelType        string
	VehicleCategory string
	Country         string
}

// FactorResolverCache stores hot-path factor resolutions. The TTL is kept
// short so imports and deactivations surface quickly; writers call Purge
// to drop everything at once.
type FactorResolverCache interface {
	Get(key FactorKey) (factordomain.EmissionFactorRecord, bool)
	Set(key FactorKey, record factordomain.EmissionFactorRecord)
	Purge()
}

type factorResolverCache struct {
	records Cache[FactorKey, factordomain.EmissionFactorRecord]
	ttl     time.Duration
}

func NewFactorResolverCache() FactorResolverCache {
	return &factorResolverCache{
		records: NewTTLCache[FactorKey, factordomain.EmissionFactorRecord](),
		ttl:     defaultFactorTTL,
	}
}

func (c *factorResolverCache) Get(key FactorKey) (factordomain.EmissionFactorRecord, bool) {
	return c.records.Get(key)
}

func (c *factorResolverCache) Set(key FactorKey, record factordomain.EmissionFactorRecord) {
	if record.ID == 0 {
		return
	}
	c.records.Set(key, record, c.ttl)
}

func (c *factorResolverCache) Purge() {
	c.records.Purge()
}
