package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpricing "tripquote/internal/domain/pricing"
)

type PricingRepository struct {
	configs *mongo.Collection
	slabs   *mongo.Collection
}

func NewPricingRepository(db *mongo.Database) *PricingRepository {
	return &PricingRepository{
		configs: db.Collection("pricing_config"),
		slabs:   db.Collection("child_pricing_slabs"),
	}
}

func (r *PricingRepository) Config(ctx context.Context, tenantID string) (domainpricing.Config, domainpricing.ChildSlabs, error) {
	var cfgDoc configDocument
	if err := r.configs.FindOne(ctx, bson.M{"_id": tenantID}).Decode(&cfgDoc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domainpricing.Config{}, nil, domainpricing.ErrConfigNotFound
		}
		return domainpricing.Config{}, nil, err
	}

	var slabDoc slabsDocument
	err := r.slabs.FindOne(ctx, bson.M{"_id": tenantID}).Decode(&slabDoc)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return domainpricing.Config{}, nil, err
	}
	return cfgDoc.toConfig(), slabDoc.toSlabs(), nil
}

func (r *PricingRepository) SaveConfig(ctx context.Context, cfg domainpricing.Config) error {
	doc := newConfigDocument(cfg)
	opts := options.Update().SetUpsert(true)
	_, err := r.configs.UpdateOne(ctx, bson.M{"_id": doc.ID}, bson.M{"$set": doc}, opts)
	return err
}

func (r *PricingRepository) ReplaceSlabs(ctx context.Context, tenantID string, slabs domainpricing.ChildSlabs) error {
	doc := newSlabsDocument(tenantID, slabs)
	opts := options.Update().SetUpsert(true)
	_, err := r.slabs.UpdateOne(ctx, bson.M{"_id": tenantID}, bson.M{"$set": doc}, opts)
	return err
}

type configDocument struct {
	ID                    string  `bson:"_id"`
	SingleSupplementType  string  `bson:"single_supplement_type"`
	SingleSupplementValue float64 `bson:"single_supplement_value"`
	TripleRoomDiscountPct float64 `bson:"triple_room_discount_percentage"`
	ThreeStarMultiplier   float64 `bson:"three_star_multiplier"`
	FourStarMultiplier    float64 `bson:"four_star_multiplier"`
	FiveStarMultiplier    float64 `bson:"five_star_multiplier"`
	DefaultMarkupPct      float64 `bson:"default_markup_percentage"`
	DefaultTaxPct         float64 `bson:"default_tax_percentage"`
	Currency              string  `bson:"currency"`
}

func newConfigDocument(cfg domainpricing.Config) configDocument {
	return configDocument{
		ID:                    cfg.TenantID,
		SingleSupplementType:  string(cfg.SingleSupplementType),
		SingleSupplementValue: cfg.SingleSupplementValue,
		TripleRoomDiscountPct: cfg.TripleRoomDiscountPct,
		ThreeStarMultiplier:   cfg.ThreeStarMultiplier,
		FourStarMultiplier:    cfg.FourStarMultiplier,
		FiveStarMultiplier:    cfg.FiveStarMultiplier,
		DefaultMarkupPct:      cfg.DefaultMarkupPct,
		DefaultTaxPct:         cfg.DefaultTaxPct,
		Currency:              cfg.Currency,
	}
}

func (d configDocument) toConfig() domainpricing.Config {
	return domainpricing.Config{
		TenantID:              d.ID,
		SingleSupplementType:  domainpricing.SupplementType(d.SingleSupplementType),
		SingleSupplementValue: d.SingleSupplementValue,
		TripleRoomDiscountPct: d.TripleRoomDiscountPct,
		ThreeStarMultiplier:   d.ThreeStarMultiplier,
		FourStarMultiplier:    d.FourStarMultiplier,
		FiveStarMultiplier:    d.FiveStarMultiplier,
		DefaultMarkupPct:      d.DefaultMarkupPct,
		DefaultTaxPct:         d.DefaultTaxPct,
		Currency:              d.Currency,
	}
}

type slabDocument struct {
	Label        string  `bson:"label"`
	MinAge       int     `bson:"min_age"`
	MaxAge       int     `bson:"max_age"`
	DiscountType string  `bson:"discount_type"`
	Value        float64 `bson:"value"`
	DisplayOrder int     `bson:"display_order"`
}

type slabsDocument struct {
	ID    string         `bson:"_id"`
	Slabs []slabDocument `bson:"slabs"`
}

func newSlabsDocument(tenantID string, slabs domainpricing.ChildSlabs) slabsDocument {
	doc := slabsDocument{ID: tenantID}
	for _, s := range slabs {
		doc.Slabs = append(doc.Slabs, slabDocument{
			Label:        s.Label,
			MinAge:       s.MinAge,
			MaxAge:       s.MaxAge,
			DiscountType: string(s.DiscountType),
			Value:        s.Value,
			DisplayOrder: s.DisplayOrder,
		})
	}
	return doc
}

func (d slabsDocument) toSlabs() domainpricing.ChildSlabs {
	var out domainpricing.ChildSlabs
	for _, s := range d.Slabs {
		out = append(out, domainpricing.ChildSlab{
			Label:        s.Label,
			MinAge:       s.MinAge,
			MaxAge:       s.MaxAge,
			DiscountType: domainpricing.DiscountType(s.DiscountType),
			Value:        s.Value,
			DisplayOrder: s.DisplayOrder,
		})
	}
	return out
}
