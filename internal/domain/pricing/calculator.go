package pricing

import (
	"tripquote/internal/domain/itinerary"
)

// Travelers carries the counts the calculator prices against. ChildAges may be
// shorter than Children when ages were not collected; children of unknown age
// pay the full adult price.
type Travelers struct {
	Adults    int
	Children  int
	ChildAges []int
}

func (t Travelers) Total() int {
	return t.Adults + t.Children
}

// Quote is the aggregate result of a pricing pass.
type Quote struct {
	TotalPrice     float64 `json:"total_price"`
	PricePerPerson float64 `json:"price_per_person"`
	Currency       string  `json:"currency"`
}

// Calculator derives every line item total from its own inventory prices and
// the tenant configuration. It never consults totals proposed by the
// generative step, and it is pure: identical inputs always produce identical
// output, which the recalculation service relies on.
type Calculator struct {
	Config Config
	Slabs  ChildSlabs
}

// Reprice computes each line item's total in place and returns the aggregate
// quote. The spend splits by item family: hotels multiply a per-person nightly
// rate across travelers (children through the slab rules), person-priced items
// (tours, meals, entrance fees) already carry pax in their quantity, and group
// items (vehicles, transfers) are flat.
func (c Calculator) Reprice(days []itinerary.Day, t Travelers) Quote {
	total := 0.0
	for di := range days {
		for ii := range days[di].Items {
			item := &days[di].Items[ii]
			item.TotalPrice = c.lineTotal(*item, t)
			total += item.TotalPrice
		}
	}

	perPerson := 0.0
	if t.Total() > 0 {
		perPerson = total / float64(t.Total())
	}
	return Quote{TotalPrice: total, PricePerPerson: perPerson, Currency: c.Config.Currency}
}

func (c Calculator) lineTotal(item itinerary.LineItem, t Travelers) float64 {
	qty := item.Quantity
	if qty <= 0 {
		qty = 1
	}
	if item.Type != itinerary.ItemHotel {
		return item.PricePerUnit * float64(qty)
	}

	unit := c.occupancyAdjusted(item.PricePerUnit, t.Total())
	// legacy records can carry more stored ages than children; the full-fare
	// count must not go negative
	fullFare := t.Adults + (t.Children - len(t.ChildAges))
	if fullFare < 0 {
		fullFare = 0
	}
	total := unit * float64(qty) * float64(fullFare)
	for _, age := range t.ChildAges {
		total += c.Slabs.ChildPrice(unit, age) * float64(qty)
	}
	return total
}

// occupancyAdjusted applies the single supplement and triple-room discount to
// the nightly unit before it is multiplied across travelers.
func (c Calculator) occupancyAdjusted(unit float64, travelers int) float64 {
	switch travelers {
	case 1:
		if c.Config.SingleSupplementType == SupplementFixed {
			return unit + c.Config.SingleSupplementValue
		}
		return unit * (1 + c.Config.SingleSupplementValue/100)
	case 3:
		return unit * (1 - c.Config.TripleRoomDiscountPct/100)
	default:
		return unit
	}
}
