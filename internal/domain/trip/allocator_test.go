package trip

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

type stubRanker struct {
	cities map[string][]string
}

func (s stubRanker) TopCities(_ context.Context, _, countryID string, _, limit int) ([]string, error) {
	out := s.cities[countryID]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func baseRequest(nights int, countries []string) Request {
	return Request{
		TenantID:      "t1",
		CountryIDs:    countries,
		TotalNights:   nights,
		StartDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Adults:        2,
		HotelCategory: 4,
		TourType:      TourSIC,
	}
}

func TestAllocatorDistributesNights(t *testing.T) {
	tests := []struct {
		name      string
		nights    int
		countries []string
		cities    map[string][]string
		want      Allocation
	}{
		{
			name:      "even split across two countries",
			nights:    7,
			countries: []string{"TR", "GR"},
			cities:    map[string][]string{"TR": {"Istanbul"}, "GR": {"Athens"}},
			want:      Allocation{{City: "Istanbul", Nights: 4}, {City: "Athens", Nights: 3}},
		},
		{
			name:      "remainder goes to first-listed countries",
			nights:    5,
			countries: []string{"TR", "GR", "EG"},
			cities:    map[string][]string{"TR": {"Istanbul"}, "GR": {"Athens"}, "EG": {"Cairo"}},
			want:      Allocation{{City: "Istanbul", Nights: 2}, {City: "Athens", Nights: 2}, {City: "Cairo", Nights: 1}},
		},
		{
			name:      "country nights split across its top cities",
			nights:    5,
			countries: []string{"TR"},
			cities:    map[string][]string{"TR": {"Istanbul", "Cappadocia"}},
			want:      Allocation{{City: "Istanbul", Nights: 3}, {City: "Cappadocia", Nights: 2}},
		},
		{
			name:      "zero-share city is dropped",
			nights:    1,
			countries: []string{"TR"},
			cities:    map[string][]string{"TR": {"Istanbul", "Cappadocia"}},
			want:      Allocation{{City: "Istanbul", Nights: 1}},
		},
		{
			name:      "country without cities is skipped",
			nights:    6,
			countries: []string{"XX", "TR"},
			cities:    map[string][]string{"TR": {"Istanbul"}},
			want:      Allocation{{City: "Istanbul", Nights: 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			al := &Allocator{Cities: stubRanker{cities: tt.cities}}
			got, err := al.Allocate(context.Background(), baseRequest(tt.nights, tt.countries))
			if err != nil {
				t.Fatalf("Allocate() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Allocate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAllocatorNightsSumExactly(t *testing.T) {
	cities := map[string][]string{
		"TR": {"Istanbul", "Cappadocia"},
		"GR": {"Athens"},
		"EG": {"Cairo", "Luxor"},
	}
	al := &Allocator{Cities: stubRanker{cities: cities}}
	for nights := 1; nights <= 21; nights++ {
		for _, countries := range [][]string{{"TR"}, {"TR", "GR"}, {"TR", "GR", "EG"}} {
			got, err := al.Allocate(context.Background(), baseRequest(nights, countries))
			if err != nil {
				t.Fatalf("nights=%d countries=%v: %v", nights, countries, err)
			}
			if got.TotalNights() != nights {
				t.Errorf("nights=%d countries=%v: allocated %d", nights, countries, got.TotalNights())
			}
			for _, cn := range got {
				if cn.Nights <= 0 {
					t.Errorf("nights=%d countries=%v: non-positive share %v", nights, countries, cn)
				}
			}
		}
	}
}

func TestAllocatorFailsWhenNothingResolves(t *testing.T) {
	al := &Allocator{Cities: stubRanker{cities: map[string][]string{}}}
	_, err := al.Allocate(context.Background(), baseRequest(4, []string{"XX", "YY"}))
	if !errors.Is(err, ErrNoInventory) {
		t.Fatalf("Allocate() error = %v, want ErrNoInventory", err)
	}
}

func TestAllocatorUsesExplicitCityNights(t *testing.T) {
	req := baseRequest(0, nil)
	req.CityNights = []CityNights{{City: "Istanbul", Nights: 2}, {City: "Antalya", Nights: 3}}
	al := &Allocator{Cities: stubRanker{}}
	got, err := al.Allocate(context.Background(), req)
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if !reflect.DeepEqual(got, Allocation(req.CityNights)) {
		t.Errorf("Allocate() = %v, want explicit city nights", got)
	}
}

func TestAllocationDayPlan(t *testing.T) {
	alloc := Allocation{{City: "Istanbul", Nights: 2}, {City: "Cappadocia", Nights: 1}}
	want := []string{"Istanbul", "Istanbul", "Cappadocia", "Cappadocia"}
	if got := alloc.DayPlan(); !reflect.DeepEqual(got, want) {
		t.Errorf("DayPlan() = %v, want %v", got, want)
	}
}
