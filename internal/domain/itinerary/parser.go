package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedResponse marks a generative completion that could not be turned
// into a structured itinerary. The detail is for operator logs only and must
// never reach the client payload.
var ErrMalformedResponse = errors.New("itinerary: malformed generative response")

// looseID tolerates the id encodings an untrusted model actually produces:
// JSON strings, numbers and null.
type looseID string

func (l *looseID) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*l = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = looseID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*l = looseID(n.String())
	return nil
}

// looseFloat accepts numbers or numeric strings, anything else counts as zero.
type looseFloat float64

func (l *looseFloat) UnmarshalJSON(data []byte) error {
	trimmed := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if trimmed == "" || trimmed == "null" {
		*l = 0
		return nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*l = 0
		return nil
	}
	*l = looseFloat(f)
	return nil
}

type rawItem struct {
	Type         string     `json:"type"`
	Name         string     `json:"name"`
	HotelID      looseID    `json:"hotel_id"`
	TourID       looseID    `json:"tour_id"`
	VehicleID    looseID    `json:"vehicle_id"`
	TransferID   looseID    `json:"transfer_id"`
	RefID        looseID    `json:"ref_id"`
	PricePerUnit looseFloat `json:"price_per_unit"`
	Quantity     looseFloat `json:"quantity"`
}

type rawDay struct {
	DayNumber int       `json:"day_number"`
	Date      string    `json:"date"`
	Location  string    `json:"location"`
	Title     string    `json:"title"`
	Narrative string    `json:"narrative"`
	Meals     string    `json:"meals"`
	Items     []rawItem `json:"items"`
}

type rawItinerary struct {
	Days []rawDay `json:"days"`
}

// Parse extracts the structured itinerary from raw completion text. A fenced
// ```json block is preferred; otherwise the span from the first '{' to the
// last '}' is tried. Totals echoed by the model are discarded, only unit
// prices survive into the line items.
func Parse(raw string) (*Itinerary, error) {
	jsonStr, ok := extractJSON(raw)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrMalformedResponse)
	}

	var parsed rawItinerary
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if len(parsed.Days) == 0 {
		return nil, fmt.Errorf("%w: empty days array", ErrMalformedResponse)
	}

	out := &Itinerary{Days: make([]Day, 0, len(parsed.Days))}
	for _, rd := range parsed.Days {
		day := Day{
			DayNumber: rd.DayNumber,
			Date:      rd.Date,
			Location:  strings.TrimSpace(rd.Location),
			Title:     rd.Title,
			Narrative: rd.Narrative,
			Meals:     rd.Meals,
		}
		for _, ri := range rd.Items {
			item, err := ri.toLineItem()
			if err != nil {
				return nil, err
			}
			day.Items = append(day.Items, item)
		}
		out.Days = append(out.Days, day)
	}
	return out, nil
}

func (ri rawItem) toLineItem() (LineItem, error) {
	var itemType LineItemType
	switch strings.ToLower(strings.TrimSpace(ri.Type)) {
	case "hotel":
		itemType = ItemHotel
	case "tour":
		itemType = ItemTour
	case "vehicle":
		itemType = ItemVehicle
	case "transfer":
		itemType = ItemTransfer
	case "meal":
		itemType = ItemMeal
	case "entrance_fee":
		itemType = ItemEntranceFee
	default:
		return LineItem{}, fmt.Errorf("%w: unknown item type %q", ErrMalformedResponse, ri.Type)
	}

	qty := int(ri.Quantity)
	if qty <= 0 {
		qty = 1
	}

	return LineItem{
		Type:         itemType,
		Name:         strings.TrimSpace(ri.Name),
		RefID:        ri.refID(itemType),
		PricePerUnit: float64(ri.PricePerUnit),
		Quantity:     qty,
	}, nil
}

// refID picks the type-specific id field of the output contract, falling back
// to the generic ref_id key.
func (ri rawItem) refID(t LineItemType) string {
	candidates := []looseID{ri.RefID}
	switch t {
	case ItemHotel:
		candidates = []looseID{ri.HotelID, ri.RefID}
	case ItemTour:
		candidates = []looseID{ri.TourID, ri.RefID}
	case ItemVehicle:
		candidates = []looseID{ri.VehicleID, ri.RefID}
	case ItemTransfer:
		candidates = []looseID{ri.TransferID, ri.RefID}
	}
	for _, c := range candidates {
		if s := string(c); s != "" {
			return s
		}
	}
	return ""
}

func extractJSON(raw string) (string, bool) {
	if fenced, ok := extractFenced(raw); ok {
		return fenced, true
	}
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return raw[start : end+1], true
}

func extractFenced(raw string) (string, bool) {
	for _, marker := range []string{"```json", "```"} {
		idx := strings.Index(raw, marker)
		if idx < 0 {
			continue
		}
		rest := raw[idx+len(marker):]
		closing := strings.Index(rest, "```")
		if closing < 0 {
			continue
		}
		body := strings.TrimSpace(rest[:closing])
		if strings.HasPrefix(body, "{") {
			return body, true
		}
	}
	return "", false
}
