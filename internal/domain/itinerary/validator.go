package itinerary

import (
	"fmt"

	"tripquote/internal/domain/trip"
)

// ValidationContext carries the inventory knowledge the validator needs:
// which city each referenced hotel is in and which experience group, if any,
// each referenced tour belongs to.
type ValidationContext struct {
	Allocation trip.Allocation
	HotelCity  map[string]string
	TourGroup  map[string]string
}

// Validate enforces the structural invariants on a parsed itinerary before it
// may be priced or persisted:
//
//   - day numbers are 1..N contiguous, N = allocated nights + 1
//   - each day's location matches the allocation's day plan
//   - every night-bearing day has exactly one hotel item, referencing a known
//     hotel in that day's city
//   - no day has more than one tour item
//   - no two tours from the same experience group anywhere in the trip
//
// Any violation is an ErrMalformedResponse; the caller must not persist a
// partially valid itinerary.
func Validate(it *Itinerary, vc ValidationContext) error {
	nights := vc.Allocation.TotalNights()
	wantDays := nights + 1
	if len(it.Days) != wantDays {
		return fmt.Errorf("%w: got %d days, allocation requires %d", ErrMalformedResponse, len(it.Days), wantDays)
	}

	plan := vc.Allocation.DayPlan()
	groupsSeen := map[string]int{}
	for i, day := range it.Days {
		num := i + 1
		if day.DayNumber != num {
			return fmt.Errorf("%w: day_number %d at position %d", ErrMalformedResponse, day.DayNumber, num)
		}
		if day.Location != plan[i] {
			return fmt.Errorf("%w: day %d located in %q, allocation fixes %q", ErrMalformedResponse, num, day.Location, plan[i])
		}

		hotels := 0
		tours := 0
		for _, item := range day.Items {
			switch item.Type {
			case ItemHotel:
				hotels++
				if item.RefID == "" {
					return fmt.Errorf("%w: day %d hotel %q has no inventory reference", ErrMalformedResponse, num, item.Name)
				}
				city, known := vc.HotelCity[item.RefID]
				if !known {
					return fmt.Errorf("%w: day %d references unknown hotel %q", ErrMalformedResponse, num, item.RefID)
				}
				if city != day.Location {
					return fmt.Errorf("%w: day %d hotel %q is in %q, not %q", ErrMalformedResponse, num, item.Name, city, day.Location)
				}
			case ItemTour:
				tours++
				if group := vc.TourGroup[item.RefID]; group != "" {
					if prev, dup := groupsSeen[group]; dup {
						return fmt.Errorf("%w: days %d and %d both book a %q experience", ErrMalformedResponse, prev, num, group)
					}
					groupsSeen[group] = num
				}
			}
		}
		if num <= nights && hotels != 1 {
			return fmt.Errorf("%w: day %d has %d hotel items, want 1", ErrMalformedResponse, num, hotels)
		}
		if tours > 1 {
			return fmt.Errorf("%w: day %d has %d tour items", ErrMalformedResponse, num, tours)
		}
	}
	return nil
}
