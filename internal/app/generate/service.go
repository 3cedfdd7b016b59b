package generate

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"tripquote/internal/app/prompt"
	"tripquote/internal/domain/inventory"
	"tripquote/internal/domain/itinerary"
	"tripquote/internal/domain/pricing"
	"tripquote/internal/domain/trip"
)

var (
	ErrNotConfigured = errors.New("generate: service dependencies missing")
	// ErrPersistence wraps a failed record write so the handler can report a
	// fatal error instead of silently claiming success.
	ErrPersistence = errors.New("generate: persisting itinerary record failed")
)

// Completion is the generative collaborator boundary: an untrusted,
// non-deterministic function from contract text to raw text. Single attempt,
// no retry-with-repair.
type Completion interface {
	Complete(ctx context.Context, promptText string) (string, error)
}

// EventPublisher emits domain events after a successful generation.
// Publishing is best-effort; failures are logged, never surfaced.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, key string, data any) error
}

// TranscriptArchiver stores the prompt/completion pair for audit. Best-effort.
type TranscriptArchiver interface {
	Archive(ctx context.Context, tenantID, recordID, promptText, rawResponse string) error
}

// Service runs the itinerary pipeline: allocate nights, fetch inventory,
// build the contract, call the collaborator, validate its output and price it
// locally. Inventory is read before the external call and persistence happens
// after validation, so no lock or transaction spans the slow generative step.
type Service struct {
	Inventory   inventory.Repository
	Allocator   *trip.Allocator
	Prompts     prompt.Builder
	Completions Completion
	Pricing     pricing.Repository
	Records     itinerary.Repository
	Events      EventPublisher
	Transcripts TranscriptArchiver
	Season      string
	Logger      *slog.Logger
}

// Result is the priced outcome of one pipeline run.
type Result struct {
	Allocation   trip.Allocation
	Days         []itinerary.Day
	Quote        pricing.Quote
	HotelsUsed   []string
	ToursVisited []string
}

// Preview runs the pipeline without persisting anything.
func (s *Service) Preview(ctx context.Context, req trip.Request) (*Result, error) {
	if err := s.ensureDependencies(); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.run(ctx, req)
}

// Generate runs the pipeline and persists the itinerary record, returning it
// alongside the priced result. The record is only written after the generated
// structure passed validation; a partially valid itinerary is never stored.
func (s *Service) Generate(ctx context.Context, req trip.Request) (*itinerary.Record, *Result, error) {
	res, err := s.Preview(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	rec := &itinerary.Record{
		ID:              uuid.NewString(),
		TenantID:        req.TenantID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		Allocation:      res.Allocation,
		StartDate:       req.StartDate,
		Adults:          req.Adults,
		Children:        req.Children,
		ChildAges:       req.ChildAges,
		HotelCategory:   req.HotelCategory,
		TourType:        req.TourType,
		SpecialRequests: prompt.SanitizeSpecialRequests(req.SpecialRequests),
		Days:            res.Days,
		TotalPrice:      res.Quote.TotalPrice,
		PricePerPerson:  res.Quote.PricePerPerson,
		Currency:        res.Quote.Currency,
		Status:          itinerary.StatusPending,
		Source:          itinerary.SourceOnline,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Records.Save(ctx, rec); err != nil {
		return nil, nil, errors.Join(ErrPersistence, err)
	}

	if s.Events != nil {
		if err := s.Events.Publish(ctx, "itinerary.generated", rec.ID, map[string]any{
			"record_id":        rec.ID,
			"tenant_id":        rec.TenantID,
			"total_price":      rec.TotalPrice,
			"price_per_person": rec.PricePerPerson,
			"currency":         rec.Currency,
			"nights":           res.Allocation.TotalNights(),
		}); err != nil && s.Logger != nil {
			s.Logger.Warn("event publish failed", "record_id", rec.ID, "error", err)
		}
	}
	return rec, res, nil
}

func (s *Service) run(ctx context.Context, req trip.Request) (*Result, error) {
	alloc, err := s.Allocator.Allocate(ctx, req)
	if err != nil {
		return nil, err
	}
	cities := alloc.Cities()

	cfg, slabs, err := s.tenantPricing(ctx, req.TenantID)
	if err != nil {
		return nil, err
	}

	inv, err := s.fetchInventory(ctx, req, cities, cfg)
	if err != nil {
		return nil, err
	}

	contract := s.Prompts.Build(req, alloc, inv)
	raw, err := s.Completions.Complete(ctx, contract)
	if err != nil {
		return nil, err
	}
	if s.Transcripts != nil {
		if err := s.Transcripts.Archive(ctx, req.TenantID, uuid.NewString(), contract, raw); err != nil && s.Logger != nil {
			s.Logger.Warn("transcript archive failed", "error", err)
		}
	}

	parsed, err := itinerary.Parse(raw)
	if err != nil {
		return nil, err
	}

	hotelCity := make(map[string]string, len(inv.Hotels))
	for _, h := range inv.Hotels {
		hotelCity[h.ID] = h.City
	}
	tourGroup := make(map[string]string, len(inv.Tours))
	for _, t := range inv.Tours {
		tourGroup[t.ID] = t.ExperienceGroup
	}
	if err := itinerary.Validate(parsed, itinerary.ValidationContext{
		Allocation: alloc,
		HotelCity:  hotelCity,
		TourGroup:  tourGroup,
	}); err != nil {
		return nil, err
	}

	calc := pricing.Calculator{Config: cfg, Slabs: slabs}
	quote := calc.Reprice(parsed.Days, pricing.Travelers{
		Adults:    req.Adults,
		Children:  req.Children,
		ChildAges: req.ChildAges,
	})

	res := &Result{
		Allocation: alloc,
		Days:       parsed.Days,
		Quote:      quote,
	}
	res.HotelsUsed, res.ToursVisited = usageSummary(parsed.Days)
	if s.Logger != nil {
		s.Logger.Info("itinerary generated",
			"tenant_id", req.TenantID,
			"nights", alloc.TotalNights(),
			"total_price", quote.TotalPrice,
			"currency", quote.Currency)
	}
	return res, nil
}

// fetchInventory reads candidates for the allocated cities. When the requested
// star category yields no hotels the adjacent category is tried, one up then
// one down, and the substitution is flagged for the contract builder with the
// nightly rates rescaled to the requested category's multiplier.
func (s *Service) fetchInventory(ctx context.Context, req trip.Request, cities []string, cfg pricing.Config) (prompt.Inventory, error) {
	var inv prompt.Inventory

	stars := req.HotelCategory
	hotels, err := s.Inventory.FindHotels(ctx, req.TenantID, cities, stars, s.Season)
	if err != nil {
		return inv, err
	}
	if len(hotels) == 0 {
		for _, alt := range []int{stars + 1, stars - 1} {
			if alt < 3 || alt > 5 {
				continue
			}
			hotels, err = s.Inventory.FindHotels(ctx, req.TenantID, cities, alt, s.Season)
			if err != nil {
				return inv, err
			}
			if len(hotels) > 0 {
				inv.SubstitutedStars = alt
				// Substituted hotels still get charged at the requested
				// category; rescale the advertised nightly rates.
				used, want := cfg.StarMultiplier(alt), cfg.StarMultiplier(stars)
				if used > 0 && want > 0 && used != want {
					for i := range hotels {
						hotels[i].PricePerNight *= want / used
					}
				}
				if s.Logger != nil {
					s.Logger.Info("star category substituted", "requested", stars, "used", alt)
				}
				break
			}
		}
	}
	if len(hotels) == 0 {
		return inv, trip.ErrNoInventory
	}
	inv.Hotels = hotels

	pax := req.Adults + req.Children
	if inv.Tours, err = s.Inventory.FindTours(ctx, req.TenantID, cities, string(req.TourType), s.Season); err != nil {
		return inv, err
	}
	if inv.Vehicles, err = s.Inventory.FindVehicles(ctx, req.TenantID, cities, pax, s.Season); err != nil {
		return inv, err
	}
	if inv.Transfers, err = s.Inventory.FindTransfers(ctx, req.TenantID, cities, pax, s.Season); err != nil {
		return inv, err
	}
	return inv, nil
}

// tenantPricing loads the tenant configuration, falling back to the onboarding
// defaults when none was stored yet.
func (s *Service) tenantPricing(ctx context.Context, tenantID string) (pricing.Config, pricing.ChildSlabs, error) {
	cfg, slabs, err := s.Pricing.Config(ctx, tenantID)
	if errors.Is(err, pricing.ErrConfigNotFound) {
		return pricing.DefaultConfig(tenantID), nil, nil
	}
	if err != nil {
		return pricing.Config{}, nil, err
	}
	return cfg, slabs, nil
}

func usageSummary(days []itinerary.Day) (hotels, tours []string) {
	seenHotel := map[string]bool{}
	seenTour := map[string]bool{}
	for _, day := range days {
		for _, item := range day.Items {
			switch item.Type {
			case itinerary.ItemHotel:
				if !seenHotel[item.Name] {
					seenHotel[item.Name] = true
					hotels = append(hotels, item.Name)
				}
			case itinerary.ItemTour:
				if !seenTour[item.Name] {
					seenTour[item.Name] = true
					tours = append(tours, item.Name)
				}
			}
		}
	}
	return hotels, tours
}

func (s *Service) ensureDependencies() error {
	if s.Inventory == nil || s.Allocator == nil || s.Completions == nil || s.Pricing == nil || s.Records == nil {
		return ErrNotConfigured
	}
	return nil
}
