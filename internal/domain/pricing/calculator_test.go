package pricing

import (
	"reflect"
	"testing"

	"tripquote/internal/domain/itinerary"
)

func testConfig() Config {
	cfg := DefaultConfig("t1")
	cfg.Currency = "EUR"
	return cfg
}

func singleHotelDay(unit float64, qty int) []itinerary.Day {
	return []itinerary.Day{{
		DayNumber: 1,
		Location:  "Istanbul",
		Items: []itinerary.LineItem{
			{Type: itinerary.ItemHotel, Name: "Grand Hotel", RefID: "h1", PricePerUnit: unit, Quantity: qty},
		},
	}}
}

func TestRepriceLineItemFamilies(t *testing.T) {
	calc := Calculator{Config: testConfig()}
	days := []itinerary.Day{{
		DayNumber: 1,
		Location:  "Istanbul",
		Items: []itinerary.LineItem{
			{Type: itinerary.ItemHotel, RefID: "h1", PricePerUnit: 100, Quantity: 1},
			{Type: itinerary.ItemTour, RefID: "t1", PricePerUnit: 80, Quantity: 2},
			{Type: itinerary.ItemMeal, PricePerUnit: 25, Quantity: 2},
			{Type: itinerary.ItemEntranceFee, PricePerUnit: 15, Quantity: 2},
			{Type: itinerary.ItemVehicle, RefID: "v1", PricePerUnit: 250, Quantity: 1},
			{Type: itinerary.ItemTransfer, RefID: "tr1", PricePerUnit: 40, Quantity: 1},
		},
	}}

	quote := calc.Reprice(days, Travelers{Adults: 2})

	wantTotals := []float64{200, 160, 50, 30, 250, 40}
	for i, want := range wantTotals {
		if got := days[0].Items[i].TotalPrice; got != want {
			t.Errorf("item %d total = %v, want %v", i, got, want)
		}
	}
	if quote.TotalPrice != 730 {
		t.Errorf("total = %v, want 730", quote.TotalPrice)
	}
	if quote.PricePerPerson != 365 {
		t.Errorf("per person = %v, want 365", quote.PricePerPerson)
	}
	if quote.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", quote.Currency)
	}
}

func TestRepriceChildSlabDiscountsHotel(t *testing.T) {
	// triple-room adjustment zeroed so the slab effect stands alone; the
	// occupancy rules have their own test below
	cfg := testConfig()
	cfg.TripleRoomDiscountPct = 0
	calc := Calculator{
		Config: cfg,
		Slabs: ChildSlabs{
			{Label: "Toddler", MinAge: 0, MaxAge: 2, DiscountType: DiscountFree},
			{Label: "Child", MinAge: 3, MaxAge: 5, DiscountType: DiscountPercentage, Value: 50},
			{Label: "Junior", MinAge: 6, MaxAge: 11, DiscountType: DiscountFixed, Value: 30},
		},
	}

	tests := []struct {
		name      string
		travelers Travelers
		want      float64
	}{
		{"two adults one child at 50 percent", Travelers{Adults: 2, Children: 1, ChildAges: []int{4}}, 250},
		{"toddler stays free", Travelers{Adults: 2, Children: 1, ChildAges: []int{1}}, 200},
		{"fixed discount off the unit", Travelers{Adults: 3, Children: 1, ChildAges: []int{8}}, 370},
		{"age outside every slab pays full fare", Travelers{Adults: 2, Children: 1, ChildAges: []int{14}}, 300},
		{"unknown age pays full fare", Travelers{Adults: 2, Children: 1}, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := singleHotelDay(100, 1)
			if got := calc.Reprice(days, tt.travelers).TotalPrice; got != tt.want {
				t.Errorf("total = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRepriceOccupancyAdjustments(t *testing.T) {
	days := singleHotelDay(100, 2)

	t.Run("single supplement percentage", func(t *testing.T) {
		calc := Calculator{Config: testConfig()}
		got := calc.Reprice(itinerary.CopyDays(days), Travelers{Adults: 1}).TotalPrice
		if got != 300 { // 100 * 1.5 * 2 nights * 1 traveler
			t.Errorf("total = %v, want 300", got)
		}
	})

	t.Run("single supplement fixed", func(t *testing.T) {
		cfg := testConfig()
		cfg.SingleSupplementType = SupplementFixed
		cfg.SingleSupplementValue = 35
		calc := Calculator{Config: cfg}
		got := calc.Reprice(itinerary.CopyDays(days), Travelers{Adults: 1}).TotalPrice
		if got != 270 {
			t.Errorf("total = %v, want 270", got)
		}
	})

	t.Run("triple room discount", func(t *testing.T) {
		calc := Calculator{Config: testConfig()}
		got := calc.Reprice(itinerary.CopyDays(days), Travelers{Adults: 3}).TotalPrice
		if got != 540 { // 100 * 0.9 * 2 nights * 3 travelers
			t.Errorf("total = %v, want 540", got)
		}
	})
}

func TestRepriceLegacyAgesOutnumberChildren(t *testing.T) {
	// old records can store more ages than the children count; the hotel
	// full-fare share must floor at zero instead of going negative
	calc := Calculator{Config: testConfig()}
	travelers := Travelers{Adults: 1, Children: 0, ChildAges: []int{4, 8}}

	got := calc.Reprice(singleHotelDay(100, 1), travelers).TotalPrice
	if got != 300 { // single supplement unit 150, no full-fare share, two full-price ages
		t.Errorf("total = %v, want 300", got)
	}
}

func TestRepriceZeroTravelers(t *testing.T) {
	calc := Calculator{Config: testConfig()}
	quote := calc.Reprice(singleHotelDay(100, 1), Travelers{})
	if quote.PricePerPerson != 0 {
		t.Errorf("per person = %v, want 0", quote.PricePerPerson)
	}
}

func TestRepriceIsDeterministic(t *testing.T) {
	calc := Calculator{
		Config: testConfig(),
		Slabs:  ChildSlabs{{MinAge: 2, MaxAge: 9, DiscountType: DiscountPercentage, Value: 25}},
	}
	travelers := Travelers{Adults: 2, Children: 2, ChildAges: []int{3, 7}}

	first := itinerary.CopyDays(singleHotelDay(129.90, 3))
	second := itinerary.CopyDays(first)
	q1 := calc.Reprice(first, travelers)
	q2 := calc.Reprice(second, travelers)

	if q1 != q2 {
		t.Errorf("quotes differ: %+v vs %+v", q1, q2)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("line item totals differ between identical runs")
	}

	// repricing already-priced days must not drift either
	q3 := calc.Reprice(first, travelers)
	if q1 != q3 {
		t.Errorf("repricing drifted: %+v vs %+v", q1, q3)
	}
}
