package pricing

import (
	"context"
	"errors"
	"sort"
)

var (
	ErrSlabRangeInvalid = errors.New("pricing: slab min age must not exceed max age")
	ErrSlabOverlap      = errors.New("pricing: child slab age ranges overlap")
	ErrConfigNotFound   = errors.New("pricing: config not found")
)

type SupplementType string

const (
	SupplementPercentage SupplementType = "percentage"
	SupplementFixed      SupplementType = "fixed"
)

// Config is the per-tenant pricing configuration. It is created at tenant
// onboarding, mutated only through an explicit update, and read by every
// pricing computation as an explicitly passed value.
type Config struct {
	TenantID              string         `json:"tenant_id"`
	SingleSupplementType  SupplementType `json:"single_supplement_type"`
	SingleSupplementValue float64        `json:"single_supplement_value"`
	TripleRoomDiscountPct float64        `json:"triple_room_discount_percentage"`
	ThreeStarMultiplier   float64        `json:"three_star_multiplier"`
	FourStarMultiplier    float64        `json:"four_star_multiplier"`
	FiveStarMultiplier    float64        `json:"five_star_multiplier"`
	DefaultMarkupPct      float64        `json:"default_markup_percentage"`
	DefaultTaxPct         float64        `json:"default_tax_percentage"`
	Currency              string         `json:"currency"`
}

// DefaultConfig returns the configuration a tenant starts with.
func DefaultConfig(tenantID string) Config {
	return Config{
		TenantID:              tenantID,
		SingleSupplementType:  SupplementPercentage,
		SingleSupplementValue: 50,
		TripleRoomDiscountPct: 10,
		ThreeStarMultiplier:   0.70,
		FourStarMultiplier:    1.00,
		FiveStarMultiplier:    1.40,
		DefaultMarkupPct:      15,
		DefaultTaxPct:         0,
		Currency:              "USD",
	}
}

// StarMultiplier maps a hotel category to its configured multiplier. Four star
// is the 1.0 baseline.
func (c Config) StarMultiplier(stars int) float64 {
	switch stars {
	case 3:
		return c.ThreeStarMultiplier
	case 5:
		return c.FiveStarMultiplier
	default:
		return c.FourStarMultiplier
	}
}

type DiscountType string

const (
	DiscountFree       DiscountType = "free"
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// ChildSlab is an age-range-keyed discount rule for child pricing.
type ChildSlab struct {
	Label        string       `json:"label"`
	MinAge       int          `json:"min_age"`
	MaxAge       int          `json:"max_age"`
	DiscountType DiscountType `json:"discount_type"`
	Value        float64      `json:"value"`
	DisplayOrder int          `json:"display_order"`
}

func (s ChildSlab) matches(age int) bool {
	return age >= s.MinAge && age <= s.MaxAge
}

type ChildSlabs []ChildSlab

// Validate rejects overlapping age ranges so at most one slab can match any
// age. Runtime lookup still resolves deterministically for legacy data: slabs
// are tried in (display_order, min_age) order and the first match wins.
func (s ChildSlabs) Validate() error {
	for i, a := range s {
		if a.MinAge > a.MaxAge {
			return ErrSlabRangeInvalid
		}
		for _, b := range s[i+1:] {
			if a.MinAge <= b.MaxAge && b.MinAge <= a.MaxAge {
				return ErrSlabOverlap
			}
		}
	}
	return nil
}

// Sorted returns the slabs in deterministic lookup order.
func (s ChildSlabs) Sorted() ChildSlabs {
	out := append(ChildSlabs(nil), s...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].MinAge < out[j].MinAge
	})
	return out
}

// ChildPrice returns what a child of the given age pays against an adult unit
// price. No matching slab means the full adult price, by explicit default.
func (s ChildSlabs) ChildPrice(unit float64, age int) float64 {
	for _, slab := range s.Sorted() {
		if !slab.matches(age) {
			continue
		}
		switch slab.DiscountType {
		case DiscountFree:
			return 0
		case DiscountPercentage:
			return unit * (1 - slab.Value/100)
		case DiscountFixed:
			price := unit - slab.Value
			if price < 0 {
				return 0
			}
			return price
		}
	}
	return unit
}

// Repository stores per-tenant pricing configuration and child slabs.
type Repository interface {
	Config(ctx context.Context, tenantID string) (Config, ChildSlabs, error)
	SaveConfig(ctx context.Context, cfg Config) error
	ReplaceSlabs(ctx context.Context, tenantID string, slabs ChildSlabs) error
}
