package area

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"obsprocess/internal/observation"
)

// Enricher attaches administrative area ids to observations through a
// read-through cache keyed by coordinate cell. The cache is loaded from the
// CacheStore on demand and written back by PersistCache.
type Enricher struct {
	locator Locator
	store   CacheStore
	cache   *cache.Cache
	logger  *slog.Logger

	mu    sync.Mutex
	dirty map[string]struct{}
}

func NewEnricher(locator Locator, store CacheStore, ttl time.Duration, logger *slog.Logger) *Enricher {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &Enricher{
		locator: locator,
		store:   store,
		cache:   cache.New(ttl, 2*ttl),
		logger:  logger,
		dirty:   make(map[string]struct{}),
	}
}

// LoadCache seeds the in-memory cache with the persisted entries.
func (e *Enricher) LoadCache(ctx context.Context) error {
	entries, err := e.store.LoadCache(ctx)
	if err != nil {
		return fmt.Errorf("load area cache: %w", err)
	}
	for key, set := range entries {
		e.cache.Set(key, set, cache.DefaultExpiration)
	}
	e.logger.Debug("area cache loaded", "count", len(entries))
	return nil
}

// AddAreaData fills in area ids that are still empty on observations with
// coordinates. It may be called concurrently.
func (e *Enricher) AddAreaData(ctx context.Context, obs []*observation.Observation) error {
	for _, o := range obs {
		if !o.HasCoordinates() {
			continue
		}
		set, err := e.lookup(ctx, *o.Latitude, *o.Longitude)
		if err != nil {
			return err
		}
		if o.CountyID == "" {
			o.CountyID = set.CountyID
		}
		if o.MunicipalityID == "" {
			o.MunicipalityID = set.MunicipalityID
		}
		if o.ParishID == "" {
			o.ParishID = set.ParishID
		}
		if o.ProvinceID == "" {
			o.ProvinceID = set.ProvinceID
		}
	}
	return nil
}

func (e *Enricher) lookup(ctx context.Context, lat, lon float64) (Set, error) {
	key := cellKey(lat, lon)
	if v, found := e.cache.Get(key); found {
		return v.(Set), nil
	}
	set, err := e.locator.Locate(ctx, lat, lon)
	if err != nil {
		return Set{}, fmt.Errorf("locate %s: %w", key, err)
	}
	e.cache.Set(key, set, cache.DefaultExpiration)

	e.mu.Lock()
	e.dirty[key] = struct{}{}
	e.mu.Unlock()
	return set, nil
}

// PersistCache writes the entries added since the last flush to the store.
func (e *Enricher) PersistCache(ctx context.Context) error {
	e.mu.Lock()
	keys := e.dirty
	e.dirty = make(map[string]struct{})
	e.mu.Unlock()

	if len(keys) == 0 {
		return nil
	}
	entries := make(map[string]Set, len(keys))
	for key := range keys {
		if v, found := e.cache.Get(key); found {
			entries[key] = v.(Set)
		}
	}
	if err := e.store.SaveCache(ctx, entries); err != nil {
		e.mu.Lock()
		for key := range keys {
			e.dirty[key] = struct{}{}
		}
		e.mu.Unlock()
		return fmt.Errorf("save area cache: %w", err)
	}
	e.logger.Info("area cache persisted", "count", len(entries))
	return nil
}

// CachedCount is the number of cells currently held in memory.
func (e *Enricher) CachedCount() int {
	return e.cache.ItemCount()
}
