package itinerary

import (
	"context"
	"errors"
	"time"

	"tripquote/internal/domain/trip"
)

var ErrRecordNotFound = errors.New("itinerary: record not found")

type LineItemType string

const (
	ItemHotel       LineItemType = "hotel"
	ItemTour        LineItemType = "tour"
	ItemVehicle     LineItemType = "vehicle"
	ItemTransfer    LineItemType = "transfer"
	ItemMeal        LineItemType = "meal"
	ItemEntranceFee LineItemType = "entrance_fee"
)

// LineItem is one priced unit inside a day. TotalPrice is always derived by the
// pricing calculator; any total echoed by the generative step is discarded.
type LineItem struct {
	Type         LineItemType `json:"type" bson:"type"`
	Name         string       `json:"name" bson:"name"`
	RefID        string       `json:"ref_id,omitempty" bson:"ref_id,omitempty"`
	PricePerUnit float64      `json:"price_per_unit" bson:"price_per_unit"`
	Quantity     int          `json:"quantity" bson:"quantity"`
	TotalPrice   float64      `json:"total_price" bson:"total_price"`
}

type Day struct {
	DayNumber int        `json:"day_number" bson:"day_number"`
	Date      string     `json:"date" bson:"date"`
	Location  string     `json:"location" bson:"location"`
	Title     string     `json:"title" bson:"title"`
	Narrative string     `json:"narrative" bson:"narrative"`
	Meals     string     `json:"meals" bson:"meals"`
	Items     []LineItem `json:"items" bson:"items"`
}

// Itinerary is the structured result extracted from a generative completion.
type Itinerary struct {
	Days []Day `json:"days"`
}

// CopyDays returns a deep copy of the day list so a repricing pass can stay
// all-or-nothing.
func CopyDays(days []Day) []Day {
	out := make([]Day, len(days))
	for i, d := range days {
		out[i] = d
		out[i].Items = append([]LineItem(nil), d.Items...)
	}
	return out
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Source string

const (
	SourceOnline Source = "online"
	SourceManual Source = "manual"
)

// Record is the persisted itinerary: the trip request fields, the fixed
// allocation, the generated days and the computed totals. Status transitions
// are owned by operator action; the recalculation service may overwrite the
// totals in place without touching status or identity.
type Record struct {
	ID              string
	TenantID        string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	Allocation      trip.Allocation
	StartDate       time.Time
	Adults          int
	Children        int
	ChildAges       []int
	HotelCategory   int
	TourType        trip.TourType
	SpecialRequests string
	Days            []Day
	TotalPrice      float64
	PricePerPerson  float64
	Currency        string
	Status          Status
	Source          Source
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Repository interface {
	Save(ctx context.Context, rec *Record) error
	ByID(ctx context.Context, id string) (*Record, error)
	ByTenant(ctx context.Context, tenantID string) ([]*Record, error)
}
