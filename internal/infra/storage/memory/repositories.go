package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"tripquote/internal/domain/inventory"
	domainitinerary "tripquote/internal/domain/itinerary"
	domainpricing "tripquote/internal/domain/pricing"
)

// InventoryRepository is an in-memory inventory store used for demos and
// tests. Seed it once before serving; reads copy nothing because the item
// structs are plain values.
type InventoryRepository struct {
	mu        sync.RWMutex
	hotels    []inventory.Hotel
	tours     []inventory.Tour
	vehicles  []inventory.Vehicle
	transfers []inventory.Transfer
}

// NewInventoryRepository builds an empty inventory store.
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// Seed replaces the stored inventory wholesale.
func (r *InventoryRepository) Seed(hotels []inventory.Hotel, tours []inventory.Tour, vehicles []inventory.Vehicle, transfers []inventory.Transfer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hotels = append([]inventory.Hotel(nil), hotels...)
	r.tours = append([]inventory.Tour(nil), tours...)
	r.vehicles = append([]inventory.Vehicle(nil), vehicles...)
	r.transfers = append([]inventory.Transfer(nil), transfers...)
}

func (r *InventoryRepository) FindHotels(ctx context.Context, tenantID string, cities []string, stars int, season string) ([]inventory.Hotel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []inventory.Hotel
	for _, h := range r.hotels {
		if h.TenantID != tenantID || h.StarRating != stars || h.Season != season {
			continue
		}
		if !cityIncluded(h.City, cities) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (r *InventoryRepository) FindTours(ctx context.Context, tenantID string, cities []string, tourType, season string) ([]inventory.Tour, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []inventory.Tour
	for _, t := range r.tours {
		if t.TenantID != tenantID || t.TourType != tourType || t.Season != season {
			continue
		}
		if !cityIncluded(t.City, cities) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *InventoryRepository) FindVehicles(ctx context.Context, tenantID string, cities []string, minCapacity int, season string) ([]inventory.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []inventory.Vehicle
	for _, v := range r.vehicles {
		if v.TenantID != tenantID || v.MaxCapacity < minCapacity || v.Season != season {
			continue
		}
		if !cityIncluded(v.City, cities) {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

func (r *InventoryRepository) FindTransfers(ctx context.Context, tenantID string, cities []string, minCapacity int, season string) ([]inventory.Transfer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []inventory.Transfer
	for _, t := range r.transfers {
		if t.TenantID != tenantID || t.MaxCapacity < minCapacity || t.Season != season {
			continue
		}
		if !cityIncluded(t.City, cities) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// TopCities ranks cities by hotel count for the requested category, ties
// broken alphabetically.
func (r *InventoryRepository) TopCities(ctx context.Context, tenantID, countryID string, stars, limit int) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int)
	for _, h := range r.hotels {
		if h.TenantID != tenantID || h.CountryID != countryID || h.StarRating != stars {
			continue
		}
		counts[h.City]++
	}
	cities := make([]string, 0, len(counts))
	for city := range counts {
		cities = append(cities, city)
	}
	sort.Slice(cities, func(i, j int) bool {
		if counts[cities[i]] != counts[cities[j]] {
			return counts[cities[i]] > counts[cities[j]]
		}
		return cities[i] < cities[j]
	})
	if limit > 0 && len(cities) > limit {
		cities = cities[:limit]
	}
	return cities, nil
}

func cityIncluded(city string, cities []string) bool {
	for _, c := range cities {
		if strings.EqualFold(c, city) {
			return true
		}
	}
	return false
}

// ItineraryRepository stores itinerary records in memory. Records are stored
// and returned by value copy so callers cannot mutate stored state in place.
type ItineraryRepository struct {
	mu    sync.RWMutex
	items map[string]domainitinerary.Record
}

// NewItineraryRepository builds an empty record store.
func NewItineraryRepository() *ItineraryRepository {
	return &ItineraryRepository{items: make(map[string]domainitinerary.Record)}
}

func (r *ItineraryRepository) Save(ctx context.Context, rec *domainitinerary.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *rec
	stored.Days = domainitinerary.CopyDays(rec.Days)
	r.items[rec.ID] = stored
	return nil
}

func (r *ItineraryRepository) ByID(ctx context.Context, id string) (*domainitinerary.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	record, ok := r.items[id]
	if !ok {
		return nil, domainitinerary.ErrRecordNotFound
	}
	record.Days = domainitinerary.CopyDays(record.Days)
	return &record, nil
}

func (r *ItineraryRepository) ByTenant(ctx context.Context, tenantID string) ([]*domainitinerary.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domainitinerary.Record
	for _, record := range r.items {
		if record.TenantID != tenantID {
			continue
		}
		record.Days = domainitinerary.CopyDays(record.Days)
		out = append(out, &record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// PricingRepository keeps per-tenant pricing configuration in memory.
type PricingRepository struct {
	mu      sync.RWMutex
	configs map[string]domainpricing.Config
	slabs   map[string]domainpricing.ChildSlabs
}

// NewPricingRepository builds an empty pricing store.
func NewPricingRepository() *PricingRepository {
	return &PricingRepository{
		configs: make(map[string]domainpricing.Config),
		slabs:   make(map[string]domainpricing.ChildSlabs),
	}
}

func (r *PricingRepository) Config(ctx context.Context, tenantID string) (domainpricing.Config, domainpricing.ChildSlabs, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[tenantID]
	if !ok {
		return domainpricing.Config{}, nil, domainpricing.ErrConfigNotFound
	}
	return cfg, append(domainpricing.ChildSlabs(nil), r.slabs[tenantID]...), nil
}

func (r *PricingRepository) SaveConfig(ctx context.Context, cfg domainpricing.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.TenantID] = cfg
	return nil
}

func (r *PricingRepository) ReplaceSlabs(ctx context.Context, tenantID string, slabs domainpricing.ChildSlabs) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slabs[tenantID] = append(domainpricing.ChildSlabs(nil), slabs...)
	return nil
}
