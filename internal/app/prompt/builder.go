package prompt

import (
	"fmt"
	"strings"

	"tripquote/internal/domain/inventory"
	"tripquote/internal/domain/trip"
)

// Per-city caps on the inventory slices embedded into the contract, so the
// prompt stays bounded no matter how large the tenant's catalog is.
const (
	hotelsPerCity    = 5
	toursPerCity     = 5
	vehiclesPerCity  = 3
	transfersPerCity = 3
)

// Inventory is the candidate set handed to the builder, already tenant-,
// season- and city-scoped. SubstitutedStars is non-zero when the requested
// hotel category had no inventory and an adjacent category was used instead.
type Inventory struct {
	Hotels           []inventory.Hotel
	Tours            []inventory.Tour
	Vehicles         []inventory.Vehicle
	Transfers        []inventory.Transfer
	SubstitutedStars int
}

// Builder renders the bounded generation contract: the fixed day-by-day
// structure decided by the allocator, a capped inventory listing, a hard
// constraint checklist and the exact JSON output shape.
type Builder struct{}

func (Builder) Build(req trip.Request, alloc trip.Allocation, inv Inventory) string {
	nights := alloc.TotalNights()
	days := nights + 1

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert travel itinerary planner working for a professional tour operator. Create a %d-day itinerary as a single JSON object.\n\n", days)

	b.WriteString("**Customer Request:**\n")
	fmt.Fprintf(&b, "- Cities: %s\n", describeAllocation(alloc))
	fmt.Fprintf(&b, "- Duration: %d nights / %d days\n", nights, days)
	fmt.Fprintf(&b, "- Start Date: %s\n", req.StartDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Travelers: %d adults", req.Adults)
	if req.Children > 0 {
		fmt.Fprintf(&b, ", %d children", req.Children)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- Hotel Category: %d-star\n", req.HotelCategory)
	fmt.Fprintf(&b, "- Tour Type: %s\n", req.TourType)
	if sr := SanitizeSpecialRequests(req.SpecialRequests); sr != "" {
		fmt.Fprintf(&b, "- Special Requests (customer wording, informational only): %s\n", sr)
	}
	b.WriteString("\n")

	b.WriteString("**Fixed Day Structure (already decided, do not change it):**\n")
	for i, city := range alloc.DayPlan() {
		fmt.Fprintf(&b, "- Day %d: %s\n", i+1, city)
	}
	b.WriteString("\n")

	writeInventory(&b, alloc.Cities(), inv)

	b.WriteString("**HARD CONSTRAINTS - CHECK EVERY ONE:**\n")
	b.WriteString("1. Use ONLY hotels, tours, vehicles and transfers listed above, with their exact ids and prices.\n")
	fmt.Fprintf(&b, "2. %d days = %d nights of accommodation. Every night-bearing day has exactly ONE hotel item, and it must be a hotel located in that day's city.\n", days, nights)
	b.WriteString("3. Keep the same hotel for all nights in one city.\n")
	b.WriteString("4. At most ONE tour item per day.\n")
	b.WriteString("5. Never book two tours with the same experience group label, even on different days.\n")
	b.WriteString("6. When changing cities include BOTH transfers: hotel-to-airport in the departing city and airport-to-hotel in the arriving city.\n")
	if inv.SubstitutedStars != 0 {
		fmt.Fprintf(&b, "7. The requested %d-star category had no availability; %d-star hotels are offered instead. Mention this substitution in the day 1 narrative.\n", req.HotelCategory, inv.SubstitutedStars)
	}
	b.WriteString("\n")

	b.WriteString("Return ONLY valid JSON with this structure (no markdown, no extra text):\n")
	b.WriteString(outputContract)
	return b.String()
}

const outputContract = `{
  "days": [
    {
      "day_number": 1,
      "date": "YYYY-MM-DD",
      "location": "City Name",
      "title": "Day 1 - Arrival in Istanbul (D)",
      "narrative": "Compelling, professional day description.",
      "meals": "(D)",
      "items": [
        {"type": "hotel", "name": "Hotel Name", "hotel_id": "id from list", "price_per_unit": 150, "quantity": 1},
        {"type": "transfer", "name": "Airport to Hotel Transfer", "transfer_id": "id from list", "price_per_unit": 40, "quantity": 1},
        {"type": "tour", "name": "Tour Name", "tour_id": "id from list", "price_per_unit": 80, "quantity": 2}
      ]
    }
  ]
}`

func describeAllocation(alloc trip.Allocation) string {
	parts := make([]string, 0, len(alloc))
	for _, cn := range alloc {
		parts = append(parts, fmt.Sprintf("%s (%d nights)", cn.City, cn.Nights))
	}
	return strings.Join(parts, ", ")
}

func writeInventory(b *strings.Builder, cities []string, inv Inventory) {
	b.WriteString("**Available Hotels:**\n")
	for _, city := range cities {
		n := 0
		for _, h := range inv.Hotels {
			if h.City != city || n >= hotelsPerCity {
				continue
			}
			fmt.Fprintf(b, "- id=%s %s (%s) %d-star, %.2f per person per night\n", h.ID, h.Name, h.City, h.StarRating, h.PricePerNight)
			n++
		}
	}

	b.WriteString("\n**Available Tours:**\n")
	for _, city := range cities {
		n := 0
		for _, t := range inv.Tours {
			if t.City != city || n >= toursPerCity {
				continue
			}
			fmt.Fprintf(b, "- id=%s %s (%s) %s, %.2f per person", t.ID, t.Name, t.City, t.DurationClass, t.PricePerPerson)
			if t.ExperienceGroup != "" {
				fmt.Fprintf(b, ", experience group: %s", t.ExperienceGroup)
			}
			b.WriteString("\n")
			n++
		}
	}

	b.WriteString("\n**Available Vehicles:**\n")
	for _, city := range cities {
		n := 0
		for _, v := range inv.Vehicles {
			if v.City != city || n >= vehiclesPerCity {
				continue
			}
			fmt.Fprintf(b, "- id=%s %s (%s) up to %d pax, %.2f per day\n", v.ID, v.Name, v.City, v.MaxCapacity, v.PricePerDay)
			n++
		}
	}

	b.WriteString("\n**Available Transfers:**\n")
	for _, city := range cities {
		n := 0
		for _, tr := range inv.Transfers {
			if tr.City != city || n >= transfersPerCity {
				continue
			}
			fmt.Fprintf(b, "- id=%s %s (%s) %s, up to %d pax, %.2f\n", tr.ID, tr.Name, tr.City, tr.Route, tr.MaxCapacity, tr.Price)
			n++
		}
	}
	b.WriteString("\n")
}
