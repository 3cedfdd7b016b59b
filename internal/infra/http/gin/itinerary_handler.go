package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"tripquote/internal/app/generate"
	"tripquote/internal/domain/itinerary"
	"tripquote/internal/domain/trip"
)

const defaultTenantID = "1"

// genericGenerationError hides collaborator failures from the caller; the raw
// cause stays in logs and transcripts only.
const genericGenerationError = "Failed to generate itinerary. Please try again."

// ItineraryHandler wires the generation pipeline to HTTP.
type ItineraryHandler struct {
	Generator *generate.Service
	Records   itinerary.Repository
}

type cityNightsRequest struct {
	City   string `json:"city"`
	Nights int    `json:"nights"`
}

type tripRequest struct {
	CustomerName    string              `json:"customer_name"`
	CustomerEmail   string              `json:"customer_email"`
	CustomerPhone   string              `json:"customer_phone"`
	CityNights      []cityNightsRequest `json:"city_nights"`
	CountryIDs      []string            `json:"country_ids"`
	TotalNights     int                 `json:"total_nights"`
	StartDate       string              `json:"start_date"`
	Adults          int                 `json:"adults"`
	Children        int                 `json:"children"`
	ChildAges       []int               `json:"child_ages"`
	HotelCategory   int                 `json:"hotel_category"`
	TourType        string              `json:"tour_type"`
	SpecialRequests string              `json:"special_requests"`
}

func (r tripRequest) toDomain(tenantID string) (trip.Request, error) {
	req := trip.Request{
		TenantID:        tenantID,
		CustomerName:    r.CustomerName,
		CustomerEmail:   r.CustomerEmail,
		CustomerPhone:   r.CustomerPhone,
		CountryIDs:      r.CountryIDs,
		TotalNights:     r.TotalNights,
		Adults:          r.Adults,
		Children:        r.Children,
		ChildAges:       r.ChildAges,
		HotelCategory:   r.HotelCategory,
		TourType:        trip.TourType(r.TourType),
		SpecialRequests: r.SpecialRequests,
	}
	for _, cn := range r.CityNights {
		req.CityNights = append(req.CityNights, trip.CityNights{City: cn.City, Nights: cn.Nights})
	}
	if r.StartDate != "" {
		t, err := time.Parse("2006-01-02", r.StartDate)
		if err != nil {
			return trip.Request{}, trip.ErrStartDateRequired
		}
		req.StartDate = t
	}
	return req, nil
}

type previewResponse struct {
	Itinerary      []itinerary.Day   `json:"itinerary"`
	TotalPrice     float64           `json:"total_price"`
	PricePerPerson float64           `json:"price_per_person"`
	Currency       string            `json:"currency"`
	Nights         int               `json:"nights"`
	Allocation     []trip.CityNights `json:"allocation"`
	HotelsUsed     []string          `json:"hotels_used"`
	ToursVisited   []string          `json:"tours_visited"`
}

// Preview generates and prices an itinerary without persisting anything.
func (h ItineraryHandler) Preview(c *gin.Context) {
	if h.Generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "itinerary handler unavailable"})
		return
	}
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	res, err := h.Generator.Preview(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPreviewResponse(res))
}

// Create runs the same pipeline and persists the itinerary record.
func (h ItineraryHandler) Create(c *gin.Context) {
	if h.Generator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "itinerary handler unavailable"})
		return
	}
	req, ok := h.bindRequest(c)
	if !ok {
		return
	}
	rec, res, err := h.Generator.Generate(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":      rec.ID,
		"status":  rec.Status,
		"preview": newPreviewResponse(res),
	})
}

// Get returns a persisted itinerary record.
func (h ItineraryHandler) Get(c *gin.Context) {
	if h.Records == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "itinerary handler unavailable"})
		return
	}
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itinerary id is required"})
		return
	}
	rec, err := h.Records.ByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, itinerary.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load itinerary"})
		return
	}
	if rec.TenantID != tenantID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "itinerary not found"})
		return
	}
	c.JSON(http.StatusOK, recordResponse(rec))
}

func (h ItineraryHandler) bindRequest(c *gin.Context) (trip.Request, bool) {
	var body tripRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return trip.Request{}, false
	}
	req, err := body.toDomain(tenantID(c))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return trip.Request{}, false
	}
	return req, true
}

func (h ItineraryHandler) writeError(c *gin.Context, err error) {
	switch {
	case isValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, trip.ErrNoInventory):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "no inventory available",
			"details": "no hotels match the requested destinations and category",
		})
	case errors.Is(err, itinerary.ErrMalformedResponse):
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericGenerationError})
	case errors.Is(err, generate.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save itinerary"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": genericGenerationError})
	}
}

func isValidationError(err error) bool {
	for _, candidate := range []error{
		trip.ErrNightsRequired,
		trip.ErrAdultsRequired,
		trip.ErrDestinationRequired,
		trip.ErrInvalidCategory,
		trip.ErrInvalidTourType,
		trip.ErrStartDateRequired,
		trip.ErrChildAgesMismatch,
	} {
		if errors.Is(err, candidate) {
			return true
		}
	}
	return false
}

func newPreviewResponse(res *generate.Result) previewResponse {
	return previewResponse{
		Itinerary:      res.Days,
		TotalPrice:     res.Quote.TotalPrice,
		PricePerPerson: res.Quote.PricePerPerson,
		Currency:       res.Quote.Currency,
		Nights:         res.Allocation.TotalNights(),
		Allocation:     res.Allocation,
		HotelsUsed:     res.HotelsUsed,
		ToursVisited:   res.ToursVisited,
	}
}

func recordResponse(rec *itinerary.Record) gin.H {
	return gin.H{
		"id":               rec.ID,
		"customer_name":    rec.CustomerName,
		"customer_email":   rec.CustomerEmail,
		"customer_phone":   rec.CustomerPhone,
		"allocation":       rec.Allocation,
		"start_date":       rec.StartDate.Format("2006-01-02"),
		"adults":           rec.Adults,
		"children":         rec.Children,
		"child_ages":       rec.ChildAges,
		"hotel_category":   rec.HotelCategory,
		"tour_type":        rec.TourType,
		"days":             rec.Days,
		"total_price":      rec.TotalPrice,
		"price_per_person": rec.PricePerPerson,
		"currency":         rec.Currency,
		"status":           rec.Status,
		"source":           rec.Source,
		"created_at":       rec.CreatedAt,
		"updated_at":       rec.UpdatedAt,
	}
}

func tenantID(c *gin.Context) string {
	if id := c.GetHeader("X-Organization-ID"); id != "" {
		return id
	}
	return defaultTenantID
}

var _ ItineraryHTTP = ItineraryHandler{}
