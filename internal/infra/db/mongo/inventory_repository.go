package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tripquote/internal/domain/inventory"
)

type InventoryRepository struct {
	hotels    *mongo.Collection
	tours     *mongo.Collection
	vehicles  *mongo.Collection
	transfers *mongo.Collection
}

func NewInventoryRepository(db *mongo.Database) *InventoryRepository {
	return &InventoryRepository{
		hotels:    db.Collection("hotels"),
		tours:     db.Collection("tours"),
		vehicles:  db.Collection("vehicles"),
		transfers: db.Collection("transfers"),
	}
}

func (r *InventoryRepository) FindHotels(ctx context.Context, tenantID string, cities []string, stars int, season string) ([]inventory.Hotel, error) {
	filter := bson.M{
		"tenant_id":   tenantID,
		"city":        bson.M{"$in": cities},
		"star_rating": stars,
		"season":      season,
	}
	cursor, err := r.hotels.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []inventory.Hotel
	for cursor.Next(ctx) {
		var doc hotelDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toHotel())
	}
	return out, cursor.Err()
}

func (r *InventoryRepository) FindTours(ctx context.Context, tenantID string, cities []string, tourType, season string) ([]inventory.Tour, error) {
	filter := bson.M{
		"tenant_id": tenantID,
		"city":      bson.M{"$in": cities},
		"tour_type": tourType,
		"season":    season,
	}
	cursor, err := r.tours.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []inventory.Tour
	for cursor.Next(ctx) {
		var doc tourDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toTour())
	}
	return out, cursor.Err()
}

func (r *InventoryRepository) FindVehicles(ctx context.Context, tenantID string, cities []string, minCapacity int, season string) ([]inventory.Vehicle, error) {
	filter := bson.M{
		"tenant_id":    tenantID,
		"city":         bson.M{"$in": cities},
		"max_capacity": bson.M{"$gte": minCapacity},
		"season":       season,
	}
	cursor, err := r.vehicles.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []inventory.Vehicle
	for cursor.Next(ctx) {
		var doc vehicleDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toVehicle())
	}
	return out, cursor.Err()
}

func (r *InventoryRepository) FindTransfers(ctx context.Context, tenantID string, cities []string, minCapacity int, season string) ([]inventory.Transfer, error) {
	filter := bson.M{
		"tenant_id":    tenantID,
		"city":         bson.M{"$in": cities},
		"max_capacity": bson.M{"$gte": minCapacity},
		"season":       season,
	}
	cursor, err := r.transfers.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []inventory.Transfer
	for cursor.Next(ctx) {
		var doc transferDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toTransfer())
	}
	return out, cursor.Err()
}

// TopCities ranks a country's cities by how many hotels of the requested
// category the tenant has there. Ties break alphabetically so allocation
// stays deterministic.
func (r *InventoryRepository) TopCities(ctx context.Context, tenantID, countryID string, stars, limit int) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"tenant_id":   tenantID,
			"country_id":  countryID,
			"star_rating": stars,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$city",
			"count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{
			{Key: "count", Value: -1},
			{Key: "_id", Value: 1},
		}}},
		{{Key: "$limit", Value: limit}},
	}
	cursor, err := r.hotels.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []string
	for cursor.Next(ctx) {
		var row struct {
			City string `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, row.City)
	}
	return out, cursor.Err()
}

type hotelDocument struct {
	ID            string  `bson:"_id"`
	TenantID      string  `bson:"tenant_id"`
	Name          string  `bson:"name"`
	City          string  `bson:"city"`
	CountryID     string  `bson:"country_id"`
	StarRating    int     `bson:"star_rating"`
	Season        string  `bson:"season"`
	PricePerNight float64 `bson:"price_per_night"`
}

func (d hotelDocument) toHotel() inventory.Hotel {
	return inventory.Hotel{
		ID:            d.ID,
		TenantID:      d.TenantID,
		Name:          d.Name,
		City:          d.City,
		CountryID:     d.CountryID,
		StarRating:    d.StarRating,
		Season:        d.Season,
		PricePerNight: d.PricePerNight,
	}
}

type tourDocument struct {
	ID              string  `bson:"_id"`
	TenantID        string  `bson:"tenant_id"`
	Name            string  `bson:"name"`
	City            string  `bson:"city"`
	TourType        string  `bson:"tour_type"`
	DurationClass   string  `bson:"duration_class"`
	Season          string  `bson:"season"`
	PricePerPerson  float64 `bson:"price_per_person"`
	ExperienceGroup string  `bson:"experience_group,omitempty"`
}

func (d tourDocument) toTour() inventory.Tour {
	return inventory.Tour{
		ID:              d.ID,
		TenantID:        d.TenantID,
		Name:            d.Name,
		City:            d.City,
		TourType:        d.TourType,
		DurationClass:   d.DurationClass,
		Season:          d.Season,
		PricePerPerson:  d.PricePerPerson,
		ExperienceGroup: d.ExperienceGroup,
	}
}

type vehicleDocument struct {
	ID          string  `bson:"_id"`
	TenantID    string  `bson:"tenant_id"`
	Name        string  `bson:"name"`
	City        string  `bson:"city"`
	MaxCapacity int     `bson:"max_capacity"`
	Season      string  `bson:"season"`
	PricePerDay float64 `bson:"price_per_day"`
}

func (d vehicleDocument) toVehicle() inventory.Vehicle {
	return inventory.Vehicle{
		ID:          d.ID,
		TenantID:    d.TenantID,
		Name:        d.Name,
		City:        d.City,
		MaxCapacity: d.MaxCapacity,
		Season:      d.Season,
		PricePerDay: d.PricePerDay,
	}
}

type transferDocument struct {
	ID          string  `bson:"_id"`
	TenantID    string  `bson:"tenant_id"`
	Name        string  `bson:"name"`
	City        string  `bson:"city"`
	Route       string  `bson:"route"`
	MaxCapacity int     `bson:"max_capacity"`
	Season      string  `bson:"season"`
	Price       float64 `bson:"price"`
}

func (d transferDocument) toTransfer() inventory.Transfer {
	return inventory.Transfer{
		ID:          d.ID,
		TenantID:    d.TenantID,
		Name:        d.Name,
		City:        d.City,
		Route:       d.Route,
		MaxCapacity: d.MaxCapacity,
		Season:      d.Season,
		Price:       d.Price,
	}
}
