package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainitinerary "tripquote/internal/domain/itinerary"
	domaintrip "tripquote/internal/domain/trip"
)

type ItineraryRepository struct {
	col *mongo.Collection
}

func NewItineraryRepository(db *mongo.Database) *ItineraryRepository {
	return &ItineraryRepository{col: db.Collection("customer_itineraries")}
}

func (r *ItineraryRepository) Save(ctx context.Context, rec *domainitinerary.Record) error {
	doc := newItineraryDocument(rec)
	opts := options.Update().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *ItineraryRepository) ByID(ctx context.Context, id string) (*domainitinerary.Record, error) {
	var doc itineraryDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainitinerary.ErrRecordNotFound
		}
		return nil, err
	}
	return doc.toRecord(), nil
}

func (r *ItineraryRepository) ByTenant(ctx context.Context, tenantID string) ([]*domainitinerary.Record, error) {
	cursor, err := r.col.Find(ctx, bson.M{"tenant_id": tenantID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []*domainitinerary.Record
	for cursor.Next(ctx) {
		var doc itineraryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRecord())
	}
	return out, cursor.Err()
}

type cityNightsDocument struct {
	City   string `bson:"city"`
	Nights int    `bson:"nights"`
}

type itineraryDocument struct {
	ID              string                 `bson:"_id"`
	TenantID        string                 `bson:"tenant_id"`
	CustomerName    string                 `bson:"customer_name"`
	CustomerEmail   string                 `bson:"customer_email"`
	CustomerPhone   string                 `bson:"customer_phone,omitempty"`
	Allocation      []cityNightsDocument   `bson:"allocation"`
	StartDate       int64                  `bson:"start_date"`
	Adults          int                    `bson:"adults"`
	Children        int                    `bson:"children"`
	ChildAges       []int                  `bson:"child_ages,omitempty"`
	HotelCategory   int                    `bson:"hotel_category"`
	TourType        string                 `bson:"tour_type"`
	SpecialRequests string                 `bson:"special_requests,omitempty"`
	Days            []domainitinerary.Day  `bson:"days"`
	TotalPrice      float64                `bson:"total_price"`
	PricePerPerson  float64                `bson:"price_per_person"`
	Currency        string                 `bson:"currency"`
	Status          string                 `bson:"status"`
	Source          string                 `bson:"source"`
	CreatedAt       int64                  `bson:"created_at"`
	UpdatedAt       int64                  `bson:"updated_at"`
}

func newItineraryDocument(rec *domainitinerary.Record) itineraryDocument {
	alloc := make([]cityNightsDocument, 0, len(rec.Allocation))
	for _, cn := range rec.Allocation {
		alloc = append(alloc, cityNightsDocument{City: cn.City, Nights: cn.Nights})
	}
	return itineraryDocument{
		ID:              rec.ID,
		TenantID:        rec.TenantID,
		CustomerName:    rec.CustomerName,
		CustomerEmail:   rec.CustomerEmail,
		CustomerPhone:   rec.CustomerPhone,
		Allocation:      alloc,
		StartDate:       rec.StartDate.UnixMilli(),
		Adults:          rec.Adults,
		Children:        rec.Children,
		ChildAges:       rec.ChildAges,
		HotelCategory:   rec.HotelCategory,
		TourType:        string(rec.TourType),
		SpecialRequests: rec.SpecialRequests,
		Days:            rec.Days,
		TotalPrice:      rec.TotalPrice,
		PricePerPerson:  rec.PricePerPerson,
		Currency:        rec.Currency,
		Status:          string(rec.Status),
		Source:          string(rec.Source),
		CreatedAt:       rec.CreatedAt.UnixMilli(),
		UpdatedAt:       rec.UpdatedAt.UnixMilli(),
	}
}

func (d itineraryDocument) toRecord() *domainitinerary.Record {
	alloc := make(domaintrip.Allocation, 0, len(d.Allocation))
	for _, cn := range d.Allocation {
		alloc = append(alloc, domaintrip.CityNights{City: cn.City, Nights: cn.Nights})
	}
	return &domainitinerary.Record{
		ID:              d.ID,
		TenantID:        d.TenantID,
		CustomerName:    d.CustomerName,
		CustomerEmail:   d.CustomerEmail,
		CustomerPhone:   d.CustomerPhone,
		Allocation:      alloc,
		StartDate:       timestampToTime(d.StartDate),
		Adults:          d.Adults,
		Children:        d.Children,
		ChildAges:       d.ChildAges,
		HotelCategory:   d.HotelCategory,
		TourType:        domaintrip.TourType(d.TourType),
		SpecialRequests: d.SpecialRequests,
		Days:            d.Days,
		TotalPrice:      d.TotalPrice,
		PricePerPerson:  d.PricePerPerson,
		Currency:        d.Currency,
		Status:          domainitinerary.Status(d.Status),
		Source:          domainitinerary.Source(d.Source),
		CreatedAt:       timestampToTime(d.CreatedAt),
		UpdatedAt:       timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
