package pricing

import (
	"errors"
	"testing"
)

func TestChildSlabsValidate(t *testing.T) {
	tests := []struct {
		name    string
		slabs   ChildSlabs
		wantErr error
	}{
		{
			name: "disjoint ranges pass",
			slabs: ChildSlabs{
				{MinAge: 0, MaxAge: 2, DiscountType: DiscountFree},
				{MinAge: 3, MaxAge: 5, DiscountType: DiscountPercentage, Value: 50},
				{MinAge: 6, MaxAge: 11, DiscountType: DiscountPercentage, Value: 25},
			},
		},
		{
			name: "overlapping ranges rejected",
			slabs: ChildSlabs{
				{MinAge: 0, MaxAge: 5, DiscountType: DiscountFree},
				{MinAge: 5, MaxAge: 11, DiscountType: DiscountPercentage, Value: 25},
			},
			wantErr: ErrSlabOverlap,
		},
		{
			name:    "inverted range rejected",
			slabs:   ChildSlabs{{MinAge: 6, MaxAge: 2, DiscountType: DiscountFree}},
			wantErr: ErrSlabRangeInvalid,
		},
		{name: "empty set passes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.slabs.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestChildSlabsLookupOrder(t *testing.T) {
	// legacy overlapping data still resolves deterministically: lowest
	// display_order wins
	slabs := ChildSlabs{
		{Label: "Later", MinAge: 0, MaxAge: 10, DiscountType: DiscountPercentage, Value: 25, DisplayOrder: 2},
		{Label: "First", MinAge: 0, MaxAge: 10, DiscountType: DiscountFree, DisplayOrder: 1},
	}
	if got := slabs.ChildPrice(100, 4); got != 0 {
		t.Errorf("ChildPrice() = %v, want 0 (first slab by display order)", got)
	}
}

func TestChildSlabsFixedNeverNegative(t *testing.T) {
	slabs := ChildSlabs{{MinAge: 0, MaxAge: 11, DiscountType: DiscountFixed, Value: 80}}
	if got := slabs.ChildPrice(50, 6); got != 0 {
		t.Errorf("ChildPrice() = %v, want clamped 0", got)
	}
}

func TestStarMultiplier(t *testing.T) {
	cfg := DefaultConfig("t1")
	if got := cfg.StarMultiplier(3); got != 0.70 {
		t.Errorf("3 star = %v", got)
	}
	if got := cfg.StarMultiplier(4); got != 1.00 {
		t.Errorf("4 star = %v", got)
	}
	if got := cfg.StarMultiplier(5); got != 1.40 {
		t.Errorf("5 star = %v", got)
	}
}
