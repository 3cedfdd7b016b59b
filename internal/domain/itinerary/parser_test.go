package itinerary

import (
	"errors"
	"testing"
)

const validResponse = `Here is your itinerary:
` + "```json" + `
{
  "days": [
    {
      "day_number": 1,
      "date": "2026-04-01",
      "location": "Istanbul",
      "title": "Day 1 - Arrival in Istanbul (D)",
      "narrative": "Welcome to Istanbul.",
      "meals": "(D)",
      "items": [
        {"type": "hotel", "name": "Grand Hotel", "hotel_id": 12, "price_per_unit": 150, "quantity": 1},
        {"type": "transfer", "name": "Airport Transfer", "transfer_id": "tr-1", "price_per_unit": 40, "quantity": 1, "total_price": 9999}
      ]
    },
    {
      "day_number": 2,
      "date": "2026-04-02",
      "location": "Istanbul",
      "title": "Day 2 - Departure (B)",
      "narrative": "Free morning before departure.",
      "meals": "(B)",
      "items": []
    }
  ]
}
` + "```"

func TestParseFencedResponse(t *testing.T) {
	it, err := Parse(validResponse)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(it.Days) != 2 {
		t.Fatalf("Parse() days = %d, want 2", len(it.Days))
	}

	hotel := it.Days[0].Items[0]
	if hotel.Type != ItemHotel || hotel.RefID != "12" || hotel.PricePerUnit != 150 {
		t.Errorf("hotel item = %+v", hotel)
	}
	transfer := it.Days[0].Items[1]
	if transfer.RefID != "tr-1" {
		t.Errorf("transfer ref = %q, want tr-1", transfer.RefID)
	}
	if transfer.TotalPrice != 0 {
		t.Errorf("echoed total survived parsing: %v", transfer.TotalPrice)
	}
}

func TestParseBareJSONSpan(t *testing.T) {
	raw := `The model says: {"days":[{"day_number":1,"location":"Istanbul","items":[{"type":"tour","name":"Old City","tour_id":7,"price_per_unit":80,"quantity":2}]}]} hope that helps`
	it, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := it.Days[0].Items[0].RefID; got != "7" {
		t.Errorf("tour ref = %q, want 7", got)
	}
}

func TestParseDefaultsQuantityToOne(t *testing.T) {
	raw := `{"days":[{"day_number":1,"location":"Istanbul","items":[{"type":"meal","name":"Dinner","price_per_unit":25}]}]}`
	it, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := it.Days[0].Items[0].Quantity; got != 1 {
		t.Errorf("quantity = %d, want 1", got)
	}
}

func TestParseRejections(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no json at all", "Sorry, I cannot help with that."},
		{"broken json", `{"days": [{"day_number": 1,]`},
		{"empty days", `{"days": []}`},
		{"unknown item type", `{"days":[{"day_number":1,"location":"Istanbul","items":[{"type":"flight","name":"IST-CAI"}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.raw); !errors.Is(err, ErrMalformedResponse) {
				t.Errorf("Parse() error = %v, want ErrMalformedResponse", err)
			}
		})
	}
}

func TestParseNullHotelIDBecomesEmptyRef(t *testing.T) {
	raw := `{"days":[{"day_number":1,"location":"Istanbul","items":[{"type":"hotel","name":"Mystery Hotel","hotel_id":null,"price_per_unit":100,"quantity":1}]}]}`
	it, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := it.Days[0].Items[0].RefID; got != "" {
		t.Errorf("ref = %q, want empty", got)
	}
}
