package trip

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNightsRequired      = errors.New("trip: total nights must be positive")
	ErrAdultsRequired      = errors.New("trip: at least one adult traveler required")
	ErrDestinationRequired = errors.New("trip: city nights or country list required")
	ErrInvalidCategory     = errors.New("trip: hotel category must be between 3 and 5")
	ErrInvalidTourType     = errors.New("trip: tour type must be SIC or PRIVATE")
	ErrStartDateRequired   = errors.New("trip: start date required")
	ErrChildAgesMismatch   = errors.New("trip: child ages exceed children count")
)

type TourType string

const (
	TourSIC     TourType = "SIC"
	TourPrivate TourType = "PRIVATE"
)

// CityNights binds a city to the number of nights spent there.
type CityNights struct {
	City   string `json:"city"`
	Nights int    `json:"nights"`
}

// Request captures the customer's trip parameters. Either CityNights is given
// explicitly or CountryIDs plus TotalNights is given for the allocator to resolve.
type Request struct {
	TenantID        string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CityNights      []CityNights
	CountryIDs      []string
	TotalNights     int
	StartDate       time.Time
	Adults          int
	Children        int
	ChildAges       []int
	HotelCategory   int
	TourType        TourType
	SpecialRequests string
}

// RequestedNights returns the total nights regardless of which destination form was used.
func (r Request) RequestedNights() int {
	if len(r.CityNights) > 0 {
		total := 0
		for _, cn := range r.CityNights {
			total += cn.Nights
		}
		return total
	}
	return r.TotalNights
}

func (r Request) Validate() error {
	if len(r.CityNights) == 0 && len(r.CountryIDs) == 0 {
		return ErrDestinationRequired
	}
	if r.RequestedNights() <= 0 {
		return ErrNightsRequired
	}
	if r.Adults < 1 {
		return ErrAdultsRequired
	}
	if r.Children < 0 || len(r.ChildAges) > r.Children {
		return ErrChildAgesMismatch
	}
	if r.HotelCategory < 3 || r.HotelCategory > 5 {
		return ErrInvalidCategory
	}
	switch r.TourType {
	case TourSIC, TourPrivate:
	default:
		return ErrInvalidTourType
	}
	if r.StartDate.IsZero() {
		return ErrStartDateRequired
	}
	for _, cn := range r.CityNights {
		if strings.TrimSpace(cn.City) == "" || cn.Nights <= 0 {
			return ErrDestinationRequired
		}
	}
	return nil
}
