package inventory

import "context"

// Kind discriminates the polymorphic inventory item families.
type Kind string

const (
	KindHotel    Kind = "hotel"
	KindTour     Kind = "tour"
	KindVehicle  Kind = "vehicle"
	KindTransfer Kind = "transfer"
)

// Hotel is a season-scoped, per-person nightly rate for one property.
type Hotel struct {
	ID            string  `json:"id"`
	TenantID      string  `json:"tenant_id"`
	Name          string  `json:"name"`
	City          string  `json:"city"`
	CountryID     string  `json:"country_id"`
	StarRating    int     `json:"star_rating"`
	Season        string  `json:"season"`
	PricePerNight float64 `json:"price_per_night"`
}

// Tour carries the per-person rate for a sightseeing product.
// ExperienceGroup labels tours that cover the same experience (for example a
// Bosphorus cruise and a dinner cruise); at most one tour per group may appear
// in a single itinerary.
type Tour struct {
	ID              string  `json:"id"`
	TenantID        string  `json:"tenant_id"`
	Name            string  `json:"name"`
	City            string  `json:"city"`
	TourType        string  `json:"tour_type"`
	DurationClass   string  `json:"duration_class"`
	Season          string  `json:"season"`
	PricePerPerson  float64 `json:"price_per_person"`
	ExperienceGroup string  `json:"experience_group,omitempty"`
}

// Vehicle is a capacity-matched group rate, typically per day.
type Vehicle struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenant_id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	MaxCapacity int     `json:"max_capacity"`
	Season      string  `json:"season"`
	PricePerDay float64 `json:"price_per_day"`
}

// Transfer is a fixed-route group rate (airport legs and intercity hops).
type Transfer struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenant_id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	Route       string  `json:"route"`
	MaxCapacity int     `json:"max_capacity"`
	Season      string  `json:"season"`
	Price       float64 `json:"price"`
}

// Repository is the inventory query boundary. Results are tenant- and
// season-scoped; an empty slice is a valid, non-error result.
type Repository interface {
	FindHotels(ctx context.Context, tenantID string, cities []string, stars int, season string) ([]Hotel, error)
	FindTours(ctx context.Context, tenantID string, cities []string, tourType, season string) ([]Tour, error)
	FindVehicles(ctx context.Context, tenantID string, cities []string, minCapacity int, season string) ([]Vehicle, error)
	FindTransfers(ctx context.Context, tenantID string, cities []string, minCapacity int, season string) ([]Transfer, error)
	TopCities(ctx context.Context, tenantID, countryID string, stars, limit int) ([]string, error)
}
