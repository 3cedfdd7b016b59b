package trip

import (
	"context"
	"errors"
	"log/slog"
)

var ErrNoInventory = errors.New("trip: no cities with inventory for the requested criteria")

// citiesPerCountry is the top-K cap used when a country must be resolved to cities.
const citiesPerCountry = 2

// Allocation is the fixed mapping of nights to cities, decided once per request
// before any generative call. Order follows the request's destination order.
type Allocation []CityNights

// TotalNights sums the allocated nights.
func (a Allocation) TotalNights() int {
	total := 0
	for _, cn := range a {
		total += cn.Nights
	}
	return total
}

// Cities returns the allocated cities in order.
func (a Allocation) Cities() []string {
	out := make([]string, 0, len(a))
	for _, cn := range a {
		out = append(out, cn.City)
	}
	return out
}

// DayPlan expands the allocation into the city expected for each day of the
// trip. A trip of N nights has N+1 days; the final day stays in the last city.
func (a Allocation) DayPlan() []string {
	plan := make([]string, 0, a.TotalNights()+1)
	for _, cn := range a {
		for i := 0; i < cn.Nights; i++ {
			plan = append(plan, cn.City)
		}
	}
	if len(a) > 0 {
		plan = append(plan, a[len(a)-1].City)
	}
	return plan
}

// CityRanker resolves a country to its best cities for a star category,
// ordered by available-hotel count.
type CityRanker interface {
	TopCities(ctx context.Context, tenantID, countryID string, stars, limit int) ([]string, error)
}

// Allocator distributes requested nights across countries and cities.
type Allocator struct {
	Cities CityRanker
	Logger *slog.Logger
}

// Allocate produces the night allocation for a request. An explicit city-nights
// list is taken as-is; otherwise nights are split across the requested countries
// with floor division, the remainder going one night at a time to the
// earlier-listed countries, and each country's share split the same way across
// its top cities. Countries without cities are skipped. An empty result fails
// with ErrNoInventory before any expensive downstream call is made.
func (al *Allocator) Allocate(ctx context.Context, req Request) (Allocation, error) {
	if len(req.CityNights) > 0 {
		return Allocation(req.CityNights), nil
	}

	total := req.TotalNights
	countries := req.CountryIDs
	base := total / len(countries)
	remainder := total % len(countries)

	var out Allocation
	for i, country := range countries {
		nights := base
		if i < remainder {
			nights++
		}
		if nights == 0 {
			continue
		}
		cities, err := al.Cities.TopCities(ctx, req.TenantID, country, req.HotelCategory, citiesPerCountry)
		if err != nil {
			return nil, err
		}
		if len(cities) == 0 {
			if al.Logger != nil {
				al.Logger.Warn("country skipped, no cities with inventory", "country", country, "stars", req.HotelCategory)
			}
			continue
		}
		out = append(out, splitNights(nights, cities)...)
	}
	if len(out) == 0 {
		return nil, ErrNoInventory
	}
	return out, nil
}

func splitNights(nights int, cities []string) []CityNights {
	if len(cities) == 1 {
		return []CityNights{{City: cities[0], Nights: nights}}
	}
	base := nights / len(cities)
	remainder := nights % len(cities)
	out := make([]CityNights, 0, len(cities))
	for i, city := range cities {
		share := base
		if i < remainder {
			share++
		}
		if share == 0 {
			continue
		}
		out = append(out, CityNights{City: city, Nights: share})
	}
	return out
}
